package toolbar

import (
	"context"
)

// screenAction opens a fixed screen. It only appears when the query names
// it, except in the empty-query list.
type screenAction struct {
	base
	route      string
	score      int
	args       Args
	hasDefault bool
}

func (a *screenAction) result() Result {
	args := make(Args, len(a.args))
	for k, v := range a.args {
		args[k] = v
	}
	return a.plain(args, a.score)
}

func (a *screenAction) DefaultResult(DefaultContext) (Result, bool) {
	if !a.hasDefault {
		return Result{}, false
	}
	return a.result(), true
}

func (a *screenAction) Results(c Context) []Result {
	if c.Query == "" || !MatchesKeyword(c.Query, a.Keywords()) {
		return nil
	}
	return []Result{a.result()}
}

func (a *screenAction) OnPress(ctx context.Context, args Args, pc PressContext) error {
	return openCommandWindow(ctx, pc, a.route, args)
}

// linkAction opens an external URL.
type linkAction struct {
	base
	url   string
	score int
	svc   *Services
}

func (a *linkAction) DefaultResult(DefaultContext) (Result, bool) {
	return a.plain(nil, a.score), true
}

func (a *linkAction) Results(c Context) []Result {
	if c.Query == "" || !MatchesKeyword(c.Query, a.Keywords()) {
		return nil
	}
	return []Result{a.plain(nil, a.score)}
}

func (a *linkAction) OnPress(ctx context.Context, _ Args, _ PressContext) error {
	if err := a.svc.openURL(ctx, a.url); err != nil {
		return a.svc.fail("Open Link", err)
	}
	return nil
}

type quitAction struct {
	base
	svc *Services
}

const quitScore = 20

func (a *quitAction) DefaultResult(DefaultContext) (Result, bool) {
	return a.plain(nil, quitScore), true
}

func (a *quitAction) Results(c Context) []Result {
	if c.Query == "" || !MatchesKeyword(c.Query, a.Keywords()) {
		return nil
	}
	return []Result{a.plain(nil, quitScore)}
}

func (a *quitAction) OnPress(context.Context, Args, PressContext) error {
	if a.svc.Quit != nil {
		a.svc.Quit()
	}
	return nil
}
