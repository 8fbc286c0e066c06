// Package live keeps an in-memory view of the control API's remotes and
// running resources, refreshed in the background by a Poller.
package live

import (
	"slices"
	"sync"
	"time"

	"github.com/runger/rcbar/internal/toolbar"
)

// Snapshot is a copy of the cache contents. Callers own every slice and map
// in it.
type Snapshot struct {
	Remotes     []string
	RemoteTypes map[string]string
	Live        toolbar.Live
	RemotesAt   time.Time
	LiveAt      time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	mu        sync.RWMutex
	remotes   []string
	types     map[string]string
	live      toolbar.Live
	remotesAt time.Time
	liveAt    time.Time
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{types: make(map[string]string)}
}

// SetRemotes replaces the remote list and backend types.
func (c *Cache) SetRemotes(names []string, types map[string]string, at time.Time) {
	names = slices.Clone(names)
	t := make(map[string]string, len(types))
	for k, v := range types {
		t[k] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.remotes = names
	c.types = t
	c.remotesAt = at
}

// SetLive replaces the live-resource view.
func (c *Cache) SetLive(l toolbar.Live, at time.Time) {
	l = cloneLive(l)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.live = l
	c.liveAt = at
}

// HasRemotes reports whether a remote list has been loaded, even an empty one.
func (c *Cache) HasRemotes() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.remotesAt.IsZero()
}

// Snapshot returns a deep copy of the cache.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types := make(map[string]string, len(c.types))
	for k, v := range c.types {
		types[k] = v
	}
	return Snapshot{
		Remotes:     slices.Clone(c.remotes),
		RemoteTypes: types,
		Live:        cloneLive(c.live),
		RemotesAt:   c.remotesAt,
		LiveAt:      c.liveAt,
	}
}

// Resources returns a copy of the live-resource view.
func (c *Cache) Resources() toolbar.Live {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneLive(c.live)
}

func (c *Cache) DropMount(mountPoint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live.Mounts = slices.DeleteFunc(c.live.Mounts, func(m toolbar.Mount) bool {
		return m.MountPoint == mountPoint
	})
}

func (c *Cache) DropAllMounts() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live.Mounts = nil
}

func (c *Cache) DropServe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live.Serves = slices.DeleteFunc(c.live.Serves, func(s toolbar.Serve) bool {
		return s.ID == id
	})
}

func (c *Cache) DropAllServes() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live.Serves = nil
}

func (c *Cache) DropVFS(fs string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live.VFSes = slices.DeleteFunc(c.live.VFSes, func(v string) bool {
		return v == fs
	})
}

func (c *Cache) DropAllVFS() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live.VFSes = nil
}

func cloneLive(l toolbar.Live) toolbar.Live {
	return toolbar.Live{
		Mounts: slices.Clone(l.Mounts),
		Serves: slices.Clone(l.Serves),
		VFSes:  slices.Clone(l.VFSes),
	}
}

var _ toolbar.LiveStore = (*Cache)(nil)
