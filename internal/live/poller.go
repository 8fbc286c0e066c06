package live

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/cespare/xxhash/v2"

	"github.com/runger/rcbar/internal/store"
	"github.com/runger/rcbar/internal/toolbar"
)

// EventUpdated is published on the bus, without arguments, whenever a
// refresh changes the cache contents.
const EventUpdated = "live:updated"

// Default refresh intervals.
const (
	DefaultRemotesInterval   = 60 * time.Second
	DefaultResourcesInterval = 5 * time.Second
)

// Source is the control API as seen by the poller.
type Source interface {
	Remotes(ctx context.Context) ([]string, map[string]string, error)
	Live(ctx context.Context) (toolbar.Live, error)
}

// Persister stores the last known remote list between runs.
type Persister interface {
	SaveRemotes(ctx context.Context, names []string, types map[string]string) error
	LoadRemotes(ctx context.Context) (store.Snapshot, error)
}

// Config configures a Poller.
type Config struct {
	// RemotesInterval defaults to DefaultRemotesInterval.
	RemotesInterval time.Duration

	// ResourcesInterval defaults to DefaultResourcesInterval.
	ResourcesInterval time.Duration

	// Bus receives EventUpdated. Optional.
	Bus EventBus.Bus

	// Store warms the cache at start and keeps the remote list. Optional.
	Store Persister

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.RemotesInterval <= 0 {
		c.RemotesInterval = DefaultRemotesInterval
	}
	if c.ResourcesInterval <= 0 {
		c.ResourcesInterval = DefaultResourcesInterval
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Stats holds cumulative refresh counters.
type Stats struct {
	RemoteRefreshes   int64
	ResourceRefreshes int64
	Failures          int64
	Publishes         int64
	LastError         string
}

// Poller refreshes a Cache from a Source.
type Poller struct {
	src   Source
	cache *Cache
	cfg   Config

	mu             sync.Mutex
	remotesPrint   uint64
	resourcesPrint uint64
	stats          Stats
}

// NewPoller creates a poller that fills cache from src.
func NewPoller(src Source, cache *Cache, cfg Config) *Poller {
	cfg.applyDefaults()
	return &Poller{src: src, cache: cache, cfg: cfg}
}

// Stats returns a copy of the refresh counters.
func (p *Poller) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Warm loads the persisted remote list into the cache if nothing fresher is
// there yet. A missing store is not an error.
func (p *Poller) Warm(ctx context.Context) error {
	if p.cfg.Store == nil || p.cache.HasRemotes() {
		return nil
	}
	snap, err := p.cfg.Store.LoadRemotes(ctx)
	if err != nil {
		return fmt.Errorf("load remotes: %w", err)
	}
	if len(snap.Names) == 0 {
		return nil
	}

	p.mu.Lock()
	p.remotesPrint = remotesFingerprint(snap.Names, snap.Types)
	p.mu.Unlock()

	p.cache.SetRemotes(snap.Names, snap.Types, snap.SavedAt)
	p.cfg.Logger.Debug("remote list warmed from store", "count", len(snap.Names), "saved_at", snap.SavedAt)
	p.publish()
	return nil
}

// RefreshRemotes fetches the remote list. On failure the cache keeps its
// previous contents.
func (p *Poller) RefreshRemotes(ctx context.Context) error {
	names, types, err := p.src.Remotes(ctx)
	if err != nil {
		p.fail("remotes", err)
		return err
	}

	fp := remotesFingerprint(names, types)
	p.mu.Lock()
	p.stats.RemoteRefreshes++
	changed := fp != p.remotesPrint || !p.cache.HasRemotes()
	p.remotesPrint = fp
	p.mu.Unlock()

	p.cache.SetRemotes(names, types, time.Now())
	if !changed {
		return nil
	}

	if p.cfg.Store != nil {
		if err := p.cfg.Store.SaveRemotes(ctx, names, types); err != nil {
			p.cfg.Logger.Warn("failed to persist remotes", "error", err)
		}
	}
	p.cfg.Logger.Debug("remote list changed", "count", len(names))
	p.publish()
	return nil
}

// RefreshResources fetches mounts, serves and VFS caches.
func (p *Poller) RefreshResources(ctx context.Context) error {
	l, err := p.src.Live(ctx)
	if err != nil {
		p.fail("resources", err)
		return err
	}

	fp := liveFingerprint(l)
	p.mu.Lock()
	p.stats.ResourceRefreshes++
	changed := fp != p.resourcesPrint
	p.resourcesPrint = fp
	p.mu.Unlock()

	p.cache.SetLive(l, time.Now())
	if changed {
		p.cfg.Logger.Debug("live resources changed",
			"mounts", len(l.Mounts),
			"serves", len(l.Serves),
			"vfs", len(l.VFSes),
		)
		p.publish()
	}
	return nil
}

// Run refreshes both views immediately, then on their intervals until ctx is
// cancelled or stopCh is closed. Intended to be called as a goroutine.
func (p *Poller) Run(ctx context.Context, stopCh <-chan struct{}) {
	remotesTicker := time.NewTicker(p.cfg.RemotesInterval)
	defer remotesTicker.Stop()
	resourcesTicker := time.NewTicker(p.cfg.ResourcesInterval)
	defer resourcesTicker.Stop()

	p.cfg.Logger.Info("live poller started",
		"remotes_interval", p.cfg.RemotesInterval,
		"resources_interval", p.cfg.ResourcesInterval,
	)

	_ = p.RefreshRemotes(ctx)
	_ = p.RefreshResources(ctx)

	for {
		select {
		case <-ctx.Done():
			p.cfg.Logger.Info("live poller stopping (context cancelled)")
			return
		case <-stopCh:
			p.cfg.Logger.Info("live poller stopping (shutdown signal)")
			return
		case <-remotesTicker.C:
			_ = p.RefreshRemotes(ctx)
		case <-resourcesTicker.C:
			_ = p.RefreshResources(ctx)
		}
	}
}

func (p *Poller) fail(what string, err error) {
	p.mu.Lock()
	p.stats.Failures++
	p.stats.LastError = err.Error()
	p.mu.Unlock()
	p.cfg.Logger.Warn("live refresh failed", "what", what, "error", err)
}

func (p *Poller) publish() {
	if p.cfg.Bus == nil {
		return
	}
	p.mu.Lock()
	p.stats.Publishes++
	p.mu.Unlock()
	p.cfg.Bus.Publish(EventUpdated)
}

// remotesFingerprint hashes names in order with their types. Fields are
// NUL-separated so adjacent values cannot run together.
func remotesFingerprint(names []string, types map[string]string) uint64 {
	h := xxhash.New()
	for _, n := range names {
		_, _ = h.WriteString(n)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(types[n])
		_, _ = h.WriteString("\x00")
	}
	return h.Sum64()
}

func liveFingerprint(l toolbar.Live) uint64 {
	h := xxhash.New()
	write := func(fields ...string) {
		for _, f := range fields {
			_, _ = h.WriteString(f)
			_, _ = h.WriteString("\x00")
		}
	}
	write("mounts")
	for _, m := range l.Mounts {
		write(m.Fs, m.MountPoint, m.MountedOn)
	}
	write("serves")
	for _, s := range l.Serves {
		write(s.ID, s.Addr, s.Type, s.Fs, s.Password)
	}
	write("vfs")
	write(l.VFSes...)
	return h.Sum64()
}
