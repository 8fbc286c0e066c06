package toolbar

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Catalog is an ordered, immutable set of actions. Registration order
// breaks score ties.
type Catalog struct {
	actions []Action
	byID    map[string]Action
}

// NewCatalog builds a catalog, rejecting empty and duplicate ids.
func NewCatalog(actions ...Action) (*Catalog, error) {
	c := &Catalog{
		actions: make([]Action, 0, len(actions)),
		byID:    make(map[string]Action, len(actions)),
	}
	for _, a := range actions {
		id := a.ID()
		if id == "" {
			return nil, fmt.Errorf("action %q: empty id", a.Label())
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("duplicate action id %q", id)
		}
		c.byID[id] = a
		c.actions = append(c.actions, a)
	}
	return c, nil
}

// All returns the actions in registration order.
func (c *Catalog) All() []Action {
	out := make([]Action, len(c.actions))
	copy(out, c.actions)
	return out
}

// Get looks an action up by id.
func (c *Catalog) Get(id string) (Action, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// DefaultCatalog returns every palette action wired to svc.
func DefaultCatalog(svc *Services) *Catalog {
	if svc == nil {
		svc = &Services{}
	}
	c, err := NewCatalog(
		newTransfer(IDCopy, "Copy", "→", 50),
		newTransfer(IDMove, "Move", "→", 48),
		newTransfer(IDSync, "Sync", "↔", 46),
		newTransfer(IDBisync, "Bisync", "↔", 44),
		&mountAction{base: base{IDMount, "Mount"}, svc: svc},
		&serveAction{base: base{IDServe, "Serve"}, svc: svc},
		&downloadAction{base: base{IDDownload, "Download"}},
		&cleanupAction{base: base{IDCleanup, "Cleanup"}, svc: svc},
		&browseAction{base: base{IDBrowse, "Browse"}, svc: svc},
		&pathAction{base: base{IDDelete, "Delete"}, defScore: 38},
		&pathAction{base: base{IDPurge, "Purge"}, defScore: 36, supported: supportsPurge},
		&screenAction{base: base{IDSettings, "Settings"}, route: IDSettings, score: 34, hasDefault: true},
		&linkAction{base: base{IDGitHub, "GitHub"}, url: GitHubURL, score: 32, svc: svc},
		&screenAction{base: base{IDTransfers, "Transfers"}, route: IDTransfers, score: 30, hasDefault: true},
		&screenAction{base: base{IDSchedules, "Schedules"}, route: IDSchedules, score: 29},
		&screenAction{base: base{IDTemplates, "Templates"}, route: IDTemplates, score: 28, hasDefault: true},
		&screenAction{
			base:  base{IDRemoteCreate, "New Remote"},
			route: IDSettings, score: 27, hasDefault: true,
			args: Args{ArgTab: "remotes", ArgAction: "create"},
		},
		&remoteSettingsAction{base: base{IDRemoteEdit, "Edit Remote"}, verb: "Edit", op: "edit"},
		&remoteSettingsAction{base: base{IDRemoteAutoMount, "Auto Mount"}, verb: "Configure auto mount for", op: "auto-mount"},
		&screenAction{
			base:  base{IDRemoteList, "Show Remotes"},
			route: IDSettings, score: 31, hasDefault: true,
			args: Args{ArgTab: "remotes"},
		},
		&quitAction{base: base{IDQuit, "Quit"}, svc: svc},
		&vfsAction{base: base{IDVFS, "VFS"}, svc: svc},
	)
	if err != nil {
		panic(err) // ids above are constants
	}
	return c
}

// base carries the static identity shared by every action.
type base struct {
	id    string
	label string
}

func (b base) ID() string          { return b.id }
func (b base) Label() string       { return b.label }
func (b base) Description() string { return descriptions[b.id] }
func (b base) Keywords() []string  { return keywords[b.id] }

func (b base) matches(query string) bool { return queryGate(query, keywords[b.id]) }

// plain is the action's own label and description with the given args.
func (b base) plain(args Args, score int) Result {
	if args == nil {
		args = Args{}
	}
	return Result{Label: b.label, Description: b.Description(), Args: args, Score: score}
}

// commandURL renders route?query from the window-facing args. Keys starting
// with an underscore and empty values are dropped.
func commandURL(route string, args Args) string {
	q := url.Values{}
	for k, v := range args {
		if v == "" || strings.HasPrefix(k, "_") {
			continue
		}
		q.Set(k, v)
	}
	if enc := q.Encode(); enc != "" {
		return route + "?" + enc
	}
	return route
}

func openCommandWindow(ctx context.Context, pc PressContext, id string, args Args) error {
	w, ok := windowRoutes[id]
	if !ok {
		return fmt.Errorf("no window for %q: %w", id, ErrUnknownAction)
	}
	if pc == nil {
		return fmt.Errorf("open %s: %w", w.name, ErrUnavailable)
	}
	return pc.OpenWindow(ctx, w.name, commandURL(w.route, args))
}
