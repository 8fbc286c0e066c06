package palette

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/runger/rcbar/internal/launcher"
	"github.com/runger/rcbar/internal/live"
	"github.com/runger/rcbar/internal/toolbar"
)

// Provider resolves a query into ranked results.
type Provider interface {
	Fetch(ctx context.Context, req Request) (Response, error)
}

// Executor runs a selected result.
type Executor interface {
	Execute(ctx context.Context, r toolbar.Resolved) (Outcome, error)
}

// Request describes what the palette wants from a Provider.
type Request struct {
	RequestID uint64 // Monotonically increasing, for stale response detection
	Query     string
	Limit     int // 0 means unlimited
}

// Response carries results back from a Provider.
type Response struct {
	RequestID uint64
	Results   []toolbar.Resolved
}

// Outcome reports what an executed action asked of the palette.
type Outcome struct {
	// Rewrite replaces the query when Rewritten is set, keeping the palette
	// open for a drill-down.
	Rewrite   string
	Rewritten bool
}

// EngineProvider serves the palette from a resolution engine, the live
// cache and a launcher.
type EngineProvider struct {
	engine   *toolbar.Engine
	cache    *live.Cache
	launcher *launcher.Launcher
	logger   *slog.Logger
}

// NewEngineProvider wires an engine to its inputs and effects.
func NewEngineProvider(engine *toolbar.Engine, cache *live.Cache, l *launcher.Launcher) *EngineProvider {
	return &EngineProvider{engine: engine, cache: cache, launcher: l, logger: slog.Default()}
}

// WithLogger sets the logger executions are recorded to.
func (p *EngineProvider) WithLogger(logger *slog.Logger) *EngineProvider {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Fetch implements Provider.
func (p *EngineProvider) Fetch(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	snap := p.cache.Snapshot()
	results := p.engine.Resolve(toolbar.Request{
		Query:       req.Query,
		Remotes:     snap.Remotes,
		RemoteTypes: snap.RemoteTypes,
		Live:        snap.Live,
	})
	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}
	return Response{RequestID: req.RequestID, Results: results}, nil
}

// Execute implements Executor.
func (p *EngineProvider) Execute(ctx context.Context, r toolbar.Resolved) (Outcome, error) {
	log := p.logger.With("exec_id", uuid.NewString(), "action", r.ActionID)
	start := time.Now()
	press := p.launcher.Press()
	if err := p.engine.Execute(ctx, r, press); err != nil {
		log.Warn("action failed", "label", r.Label, "error", err, "duration", time.Since(start))
		return Outcome{}, err
	}
	text, ok := press.Rewrite()
	log.Info("action executed", "label", r.Label, "rewritten", ok, "duration", time.Since(start))
	return Outcome{Rewrite: text, Rewritten: ok}, nil
}
