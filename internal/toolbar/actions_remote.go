package toolbar

import (
	"context"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

type cleanupAction struct {
	base
	svc *Services
}

func (a *cleanupAction) Results(c Context) []Result {
	if !a.matches(c.Query) {
		return nil
	}
	remotes := uniqueRemotes(c.Paths, func(p Path) bool { return supportsCleanup[p.RemoteType] })
	if len(remotes) == 0 {
		return []Result{a.plain(nil, 36)}
	}
	results := make([]Result, 0, len(remotes))
	for _, r := range remotes {
		results = append(results, Result{
			Label:       "Cleanup " + r,
			Description: a.Description(),
			Args:        Args{ArgRemote: r},
			Score:       ScoreRemoteTarget,
		})
	}
	return results
}

func (a *cleanupAction) OnPress(ctx context.Context, args Args, _ PressContext) error {
	remote := args[ArgRemote]
	if remote == "" {
		a.svc.notify("Error", "Please enter a remote name to cleanup")
		return ErrMissingArg
	}
	api, err := a.svc.api()
	if err == nil {
		err = api.Cleanup(ctx, remote+":")
	}
	if err != nil {
		return a.svc.fail("Cleanup Failed", err)
	}
	a.svc.notify("Cleanup Started", "Cleanup started for "+remote)
	return nil
}

// browseAction opens the file browser of the engine's web UI for a remote.
type browseAction struct {
	base
	svc *Services
}

const (
	browseDefaultScore = 37
	browseHint         = "Specify a remote to browse its files"
)

func (a *browseAction) DefaultResult(DefaultContext) (Result, bool) {
	return Result{Label: a.label, Description: browseHint, Args: Args{}, Score: browseDefaultScore}, true
}

func (a *browseAction) Results(c Context) []Result {
	if !a.matches(c.Query) {
		return nil
	}

	remotes := uniqueRemotes(c.Paths, nil)
	if len(remotes) > 0 {
		results := make([]Result, 0, len(remotes))
		for _, r := range remotes {
			results = append(results, Result{
				Label:       "Browse " + r,
				Description: a.Description(),
				Args:        Args{ArgRemote: r},
				Score:       ScoreRemoteTarget,
			})
		}
		return results
	}

	if len(c.Remotes) == 0 {
		r, _ := a.DefaultResult(DefaultContext{})
		return []Result{r}
	}
	results := make([]Result, 0, len(c.Remotes)+1)
	for _, r := range c.Remotes {
		results = append(results, Result{
			Label:       "Browse " + r,
			Description: a.Description(),
			Args:        Args{ArgRemote: r},
			Score:       ScoreLocal,
		})
	}
	return append(results, Result{Label: "Back", Description: "Return to menu", Args: Args{argOp: opBack}, Score: 50})
}

func (a *browseAction) OnPress(ctx context.Context, args Args, pc PressContext) error {
	if args[argOp] == opBack {
		if pc != nil {
			pc.UpdateText("")
		}
		return nil
	}
	remote := args[ArgRemote]
	if remote == "" {
		if pc != nil {
			pc.UpdateText("Browse ")
		}
		return nil
	}

	target, err := browseURL(a.svc.Host, remote)
	if err != nil {
		return a.svc.fail("Browse", err)
	}
	if pc == nil {
		return a.svc.fail("Browse", ErrUnavailable)
	}
	if err := pc.OpenWindow(ctx, "Browse", target); err != nil {
		return a.svc.fail("Browse", err)
	}
	return nil
}

// browseURL points the bundled browser page at the remote's root on the
// engine, passing basic-auth credentials when configured.
func browseURL(h Host, remote string) (string, error) {
	if h.URL == "" {
		return "", errors.New("no host URL configured")
	}
	target := strings.TrimRight(h.URL, "/") + "/[" + remote + ":]/"
	u := "browse.html?url=" + url.QueryEscape(target)
	if h.User != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(h.User + ":" + h.Password))
		u += "&auth=" + url.QueryEscape(auth)
	}
	return u, nil
}

// remoteSettingsAction opens the remote settings tab for each remote named
// in the query.
type remoteSettingsAction struct {
	base
	verb string
	op   string
}

func (a *remoteSettingsAction) Results(c Context) []Result {
	if !a.matches(c.Query) {
		return nil
	}
	var results []Result
	for _, r := range uniqueRemotes(c.Paths, nil) {
		results = append(results, Result{
			Label:       a.verb + " " + r,
			Description: a.Description(),
			Args:        Args{ArgTab: "remotes", ArgAction: a.op, ArgRemote: r},
			Score:       ScoreLocal,
		})
	}
	return results
}

func (a *remoteSettingsAction) OnPress(ctx context.Context, args Args, pc PressContext) error {
	return openCommandWindow(ctx, pc, IDSettings, args)
}
