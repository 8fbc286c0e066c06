// Package rc is a client for the remote-control HTTP API of the sync engine.
//
// Every call is a POST of a JSON object to <base>/<endpoint>; responses are
// JSON objects. Failed calls carry a JSON body with an error message, which
// is surfaced as *Error.
package rc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/runger/rcbar/internal/toolbar"
)

// DefaultTimeout bounds a single request when Config.Timeout is zero.
const DefaultTimeout = 3 * time.Second

// Error is a non-2xx response from the control API.
type Error struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("rc %s: HTTP %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("rc %s: %s (HTTP %d)", e.Endpoint, e.Message, e.Status)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	User       string
	Password   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to one control API host. It is safe for concurrent use.
type Client struct {
	base     string
	user     string
	password string
	http     *http.Client
	logger   *slog.Logger
}

// New creates a client for cfg.BaseURL.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		base:     strings.TrimRight(cfg.BaseURL, "/"),
		user:     cfg.User,
		password: cfg.Password,
		http:     cfg.HTTPClient,
		logger:   cfg.Logger,
	}
}

// Call posts params to endpoint and decodes the response into out, which may
// be nil.
func (c *Client) Call(ctx context.Context, endpoint string, params map[string]any, out any) error {
	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("rc %s: encode params: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+strings.TrimLeft(endpoint, "/"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("rc %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rc %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("rc %s: read body: %w", endpoint, err)
	}
	c.logger.Debug("rc call", "endpoint", endpoint, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &payload)
		return &Error{Endpoint: endpoint, Status: resp.StatusCode, Message: payload.Error}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("rc %s: decode response: %w", endpoint, err)
	}
	return nil
}

// Version reports the engine version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var resp struct {
		Version string `json:"version"`
	}
	if err := c.Call(ctx, "core/version", nil, &resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

// ListRemotes returns the configured remote names.
func (c *Client) ListRemotes(ctx context.Context) ([]string, error) {
	var resp struct {
		Remotes *[]string `json:"remotes"`
	}
	if err := c.Call(ctx, "config/listremotes", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Remotes == nil {
		return nil, errors.New("rc config/listremotes: response has no remotes")
	}
	return *resp.Remotes, nil
}

// RemoteTypes returns the backend type of every configured remote.
func (c *Client) RemoteTypes(ctx context.Context) (map[string]string, error) {
	var dump map[string]struct {
		Type string `json:"type"`
	}
	if err := c.Call(ctx, "config/dump", nil, &dump); err != nil {
		return nil, err
	}
	types := make(map[string]string, len(dump))
	for name, section := range dump {
		types[name] = section.Type
	}
	return types, nil
}

// Remotes returns remote names sorted with their backend types.
func (c *Client) Remotes(ctx context.Context) ([]string, map[string]string, error) {
	names, err := c.ListRemotes(ctx)
	if err != nil {
		return nil, nil, err
	}
	types, err := c.RemoteTypes(ctx)
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(names)
	return names, types, nil
}

// ListMounts returns the active mounts.
func (c *Client) ListMounts(ctx context.Context) ([]toolbar.Mount, error) {
	var resp struct {
		MountPoints []struct {
			Fs         string `json:"Fs"`
			MountPoint string `json:"MountPoint"`
			MountedOn  string `json:"MountedOn"`
		} `json:"mountPoints"`
	}
	if err := c.Call(ctx, "mount/listmounts", nil, &resp); err != nil {
		return nil, err
	}
	mounts := make([]toolbar.Mount, 0, len(resp.MountPoints))
	for _, m := range resp.MountPoints {
		mounts = append(mounts, toolbar.Mount{Fs: m.Fs, MountPoint: m.MountPoint, MountedOn: m.MountedOn})
	}
	return mounts, nil
}

// ListServes returns the running serve instances.
func (c *Client) ListServes(ctx context.Context) ([]toolbar.Serve, error) {
	var resp struct {
		List []struct {
			ID     string `json:"id"`
			Addr   string `json:"addr"`
			Params struct {
				Type string `json:"type"`
				Fs   string `json:"fs"`
				Opt  struct {
					Password string `json:"password"`
				} `json:"opt"`
			} `json:"params"`
		} `json:"list"`
	}
	if err := c.Call(ctx, "serve/list", nil, &resp); err != nil {
		return nil, err
	}
	serves := make([]toolbar.Serve, 0, len(resp.List))
	for _, s := range resp.List {
		serves = append(serves, toolbar.Serve{
			ID:       s.ID,
			Addr:     s.Addr,
			Type:     s.Params.Type,
			Fs:       s.Params.Fs,
			Password: s.Params.Opt.Password,
		})
	}
	return serves, nil
}

// ListVFS returns the filesystems with an active VFS cache.
func (c *Client) ListVFS(ctx context.Context) ([]string, error) {
	var resp struct {
		VFSes []string `json:"vfses"`
	}
	if err := c.Call(ctx, "vfs/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.VFSes, nil
}

// Live fetches mounts, serves and VFS caches in one snapshot.
func (c *Client) Live(ctx context.Context) (toolbar.Live, error) {
	mounts, err := c.ListMounts(ctx)
	if err != nil {
		return toolbar.Live{}, err
	}
	serves, err := c.ListServes(ctx)
	if err != nil {
		return toolbar.Live{}, err
	}
	vfses, err := c.ListVFS(ctx)
	if err != nil {
		return toolbar.Live{}, err
	}
	return toolbar.Live{Mounts: mounts, Serves: serves, VFSes: vfses}, nil
}

func (c *Client) Unmount(ctx context.Context, mountPoint string) error {
	return c.Call(ctx, "mount/unmount", map[string]any{"mountPoint": mountPoint}, nil)
}

func (c *Client) UnmountAll(ctx context.Context) error {
	return c.Call(ctx, "mount/unmountall", nil, nil)
}

func (c *Client) StopServe(ctx context.Context, id string) error {
	return c.Call(ctx, "serve/stop", map[string]any{"id": id}, nil)
}

func (c *Client) StopAllServes(ctx context.Context) error {
	return c.Call(ctx, "serve/stopall", nil, nil)
}

func (c *Client) ForgetVFS(ctx context.Context, fs string) error {
	return c.Call(ctx, "vfs/forget", map[string]any{"fs": fs}, nil)
}

func (c *Client) ForgetAllVFS(ctx context.Context) error {
	return c.Call(ctx, "vfs/forget", nil, nil)
}

// Cleanup starts an asynchronous cleanup of fs.
func (c *Client) Cleanup(ctx context.Context, fs string) error {
	return c.Call(ctx, "operations/cleanup", map[string]any{"fs": fs, "_async": true}, nil)
}

var _ toolbar.API = (*Client)(nil)
