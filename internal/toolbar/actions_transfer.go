package toolbar

import (
	"context"
)

// transferAction covers the source/destination operations: copy, move,
// sync and bisync.
type transferAction struct {
	base
	arrow    string
	defScore int
}

func newTransfer(id, label, arrow string, defScore int) *transferAction {
	return &transferAction{base: base{id, label}, arrow: arrow, defScore: defScore}
}

func (a *transferAction) DefaultResult(DefaultContext) (Result, bool) {
	return a.plain(nil, a.defScore), true
}

func (a *transferAction) Results(c Context) []Result {
	if !a.matches(c.Query) {
		return nil
	}
	if len(c.Paths) == 0 {
		return []Result{a.plain(nil, a.defScore)}
	}
	return transferResults(a.label, a.arrow, a.Description(), c.Paths)
}

func (a *transferAction) OnPress(ctx context.Context, args Args, pc PressContext) error {
	return openCommandWindow(ctx, pc, a.id, args)
}

// downloadAction fetches a URL into a path. A URL anywhere in the query is
// enough to make it relevant.
type downloadAction struct {
	base
}

const downloadDefaultScore = 45

func (a *downloadAction) DefaultResult(DefaultContext) (Result, bool) {
	return a.plain(nil, downloadDefaultScore), true
}

func (a *downloadAction) Results(c Context) []Result {
	link := findFirstURL(c.Query)
	if link == "" && !a.matches(c.Query) {
		return nil
	}

	var name string
	if link != "" {
		name = urlLabel(link)
	}

	switch {
	case len(c.Paths) > 0:
		results := make([]Result, 0, len(c.Paths))
		for _, p := range c.Paths {
			label := "Download to " + destinationLabel(p)
			args := Args{ArgDestination: argPath(p)}
			score := ScoreRemoteSource
			if p.IsLocal {
				score = ScoreRemoteTarget
			}
			if link != "" {
				label = "Download " + name + " to " + destinationLabel(p)
				args[ArgURL] = link
				score = ScorePair
				if p.IsLocal {
					score = ScoreURLLocal
				}
			}
			results = append(results, Result{Label: label, Description: a.Description(), Args: args, Score: score})
		}
		return results
	case link != "":
		return []Result{{
			Label:       "Download " + name,
			Description: a.Description(),
			Args:        Args{ArgURL: link},
			Score:       ScoreURLOnly,
		}}
	default:
		return []Result{a.plain(nil, downloadDefaultScore)}
	}
}

func (a *downloadAction) OnPress(ctx context.Context, args Args, pc PressContext) error {
	return openCommandWindow(ctx, pc, a.id, args)
}

// pathAction operates on single paths: delete, and purge when supported is
// set to the backends that implement it.
type pathAction struct {
	base
	defScore  int
	supported map[string]bool
}

func (a *pathAction) DefaultResult(DefaultContext) (Result, bool) {
	return a.plain(nil, a.defScore), true
}

func (a *pathAction) Results(c Context) []Result {
	if !a.matches(c.Query) {
		return nil
	}
	paths := c.Paths
	if a.supported != nil {
		paths = nil
		for _, p := range c.Paths {
			if p.RemoteType != "" && a.supported[p.RemoteType] {
				paths = append(paths, p)
			}
		}
	}
	if len(paths) == 0 {
		return []Result{a.plain(nil, a.defScore)}
	}

	results := make([]Result, 0, len(paths))
	for _, p := range paths {
		score := ScoreRemoteTarget
		if p.IsLocal {
			score = ScoreLocal
		}
		results = append(results, Result{
			Label:       a.label + " " + p.Readable,
			Description: a.Description(),
			Args:        Args{ArgSource: argPath(p)},
			Score:       score,
		})
	}
	return results
}

func (a *pathAction) OnPress(ctx context.Context, args Args, pc PressContext) error {
	return openCommandWindow(ctx, pc, a.id, args)
}
