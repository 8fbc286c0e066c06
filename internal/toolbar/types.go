// Package toolbar implements the command-palette query engine: it extracts
// local and remote paths from free text, asks every registered action for
// candidates, and returns a deduplicated, ranked list of results.
package toolbar

import (
	"context"
	"errors"
)

// Sentinel errors returned by the engine and by action handlers.
var (
	ErrUnknownAction = errors.New("unknown toolbar action")
	ErrMissingArg    = errors.New("missing action argument")
	ErrGone          = errors.New("resource is no longer active")
	ErrUnavailable   = errors.New("capability not available")
)

// Args carries the parameters an action needs to execute a result.
// Values are plain strings; each action validates the keys it expects.
type Args map[string]string

// Path is a path-like token extracted from the query.
type Path struct {
	Full       string // canonical path or remote:path, used for execution
	Readable   string // shortened display form
	IsLocal    bool
	RemoteName string // configured remote the token matched, if any
	RemoteType string // backend type of RemoteName, if known
}

// Result is a candidate produced by an action for the current context.
type Result struct {
	Label       string
	Description string
	Args        Args
	Score       int
}

// Mount is an active mount reported by the control API.
type Mount struct {
	Fs         string
	MountPoint string
	MountedOn  string
}

// Serve is an active serve instance reported by the control API.
type Serve struct {
	ID       string
	Addr     string
	Type     string
	Fs       string
	Password string
}

// Live is a point-in-time view of the resources the control API reports as
// running. Actions read it; they never fetch it themselves.
type Live struct {
	Mounts []Mount
	Serves []Serve
	VFSes  []string
}

// Context is handed to every action when the query is not empty.
type Context struct {
	Query     string // residual query with path text removed
	FullQuery string // trimmed original query
	Paths     []Path
	Remotes   []string
	Live      Live
}

// DefaultContext is handed to actions when the query is empty.
type DefaultContext struct {
	Remotes []string
}

// PressContext exposes the capabilities an action may use when executed.
type PressContext interface {
	// OpenWindow opens a named window at url.
	OpenWindow(ctx context.Context, name, url string) error
	// UpdateText replaces the current query text, keeping the palette open.
	UpdateText(text string)
}

// Action is one palette capability. Implementations must be safe to call
// concurrently from Results.
type Action interface {
	ID() string
	Label() string
	Description() string
	Keywords() []string
	Results(c Context) []Result
	OnPress(ctx context.Context, args Args, pc PressContext) error
}

// Defaulter is implemented by actions that may contribute a result when the
// query is empty. ok is false when the action has no default.
type Defaulter interface {
	DefaultResult(c DefaultContext) (r Result, ok bool)
}
