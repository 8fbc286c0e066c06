package toolbar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Resolved is a deduplicated, ranked candidate ready for display.
type Resolved struct {
	ID          string // actionID + ":" + JSON of Args
	ActionID    string
	Label       string
	Description string
	Args        Args
	Score       int
	Shortcut    string
}

// Request carries everything one resolution depends on.
type Request struct {
	Query       string
	Remotes     []string
	RemoteTypes map[string]string
	Live        Live
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	Catalog   *Catalog
	Extractor Extractor
	Logger    *slog.Logger
}

// Engine resolves queries against a catalog. It holds no per-query state
// and is safe for concurrent use.
type Engine struct {
	catalog   *Catalog
	extractor Extractor
	logger    *slog.Logger
}

// NewEngine creates an engine. A nil catalog means an empty one.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Catalog == nil {
		cfg.Catalog = &Catalog{byID: map[string]Action{}}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{catalog: cfg.Catalog, extractor: cfg.Extractor, logger: cfg.Logger}
}

// Catalog returns the engine's action catalog.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Resolve returns the ranked results for req.
func (e *Engine) Resolve(req Request) []Resolved {
	trimmed := strings.TrimSpace(req.Query)

	var results []Resolved
	if trimmed == "" {
		results = e.defaults(req.Remotes)
	} else {
		ex := e.extractor.Extract(trimmed, req.Remotes, req.RemoteTypes)
		c := Context{
			Query:     ex.Query,
			FullQuery: trimmed,
			Paths:     ex.Paths,
			Remotes:   req.Remotes,
			Live:      req.Live,
		}
		results = e.collect(c)
		if len(results) == 0 {
			results = e.defaults(req.Remotes)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	for i := range results {
		results[i].Shortcut = ShortcutFor(i)
	}
	return results
}

// Execute runs the action behind r.
func (e *Engine) Execute(ctx context.Context, r Resolved, pc PressContext) error {
	a, ok := e.catalog.Get(r.ActionID)
	if !ok {
		return fmt.Errorf("%s: %w", r.ActionID, ErrUnknownAction)
	}
	args := make(Args, len(r.Args))
	for k, v := range r.Args {
		args[k] = v
	}
	e.logger.Debug("executing action", "action", r.ActionID, "label", r.Label)
	return a.OnPress(ctx, args, pc)
}

func (e *Engine) collect(c Context) []Resolved {
	var out []Resolved
	index := make(map[string]int)
	for _, a := range e.catalog.actions {
		for _, res := range e.results(a, c) {
			r := resolve(a, res)
			if i, dup := index[r.ID]; dup {
				if r.Score > out[i].Score {
					out[i] = r
				}
				continue
			}
			index[r.ID] = len(out)
			out = append(out, r)
		}
	}
	return out
}

func (e *Engine) defaults(remotes []string) []Resolved {
	dc := DefaultContext{Remotes: remotes}
	var out []Resolved
	for _, a := range e.catalog.actions {
		d, ok := a.(Defaulter)
		if !ok {
			continue
		}
		if res, ok := e.defaultResult(a.ID(), d, dc); ok {
			out = append(out, resolve(a, res))
		}
	}
	return out
}

// results calls a.Results, treating a panic as no candidates.
func (e *Engine) results(a Action, c Context) (res []Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("action results panicked", "action", a.ID(), "panic", r)
			res = nil
		}
	}()
	return a.Results(c)
}

func (e *Engine) defaultResult(id string, d Defaulter, dc DefaultContext) (res Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("action default panicked", "action", id, "panic", r)
			res, ok = Result{}, false
		}
	}()
	return d.DefaultResult(dc)
}

func resolve(a Action, res Result) Resolved {
	label := res.Label
	if label == "" {
		label = a.Label()
	}
	desc := res.Description
	if desc == "" {
		desc = a.Description()
	}
	args := res.Args
	if args == nil {
		args = Args{}
	}
	return Resolved{
		ID:          identity(a.ID(), args),
		ActionID:    a.ID(),
		Label:       label,
		Description: desc,
		Args:        args,
		Score:       res.Score,
	}
}

// identity is deterministic because encoding/json sorts map keys.
func identity(actionID string, args Args) string {
	b, err := json.Marshal(args)
	if err != nil {
		b = []byte("{}")
	}
	return actionID + ":" + string(b)
}
