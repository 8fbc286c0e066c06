package rc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/rcbar/internal/toolbar"
)

type recorded struct {
	path    string
	params  map[string]any
	user    string
	pass    string
	hasAuth bool
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) add(c recorded) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.calls...)
}

// newTestServer serves canned JSON bodies keyed by path and records every
// request it receives.
func newTestServer(t *testing.T, bodies map[string]string) (*httptest.Server, *recorder) {
	t.Helper()
	calls := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var params map[string]any
		_ = json.NewDecoder(r.Body).Decode(&params)
		user, pass, ok := r.BasicAuth()
		calls.add(recorded{path: r.URL.Path, params: params, user: user, pass: pass, hasAuth: ok})

		body, found := bodies[r.URL.Path]
		if !found {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"couldn't find method","status":404}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func TestClient_Remotes(t *testing.T) {
	srv, calls := newTestServer(t, map[string]string{
		"/config/listremotes": `{"remotes":["s3","gdrive"]}`,
		"/config/dump":        `{"gdrive":{"type":"drive","scope":"drive"},"s3":{"type":"s3"}}`,
	})
	c := New(Config{BaseURL: srv.URL + "/", User: "u", Password: "p"})

	names, types, err := c.Remotes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gdrive", "s3"}, names)
	assert.Equal(t, map[string]string{"gdrive": "drive", "s3": "s3"}, types)

	require.Len(t, calls.all(), 2)
	for _, call := range calls.all() {
		assert.True(t, call.hasAuth)
		assert.Equal(t, "u", call.user)
		assert.Equal(t, "p", call.pass)
	}
}

func TestClient_NoAuthWithoutUser(t *testing.T) {
	srv, calls := newTestServer(t, map[string]string{"/core/version": `{"version":"v1.68.0"}`})
	c := New(Config{BaseURL: srv.URL})

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1.68.0", v)
	assert.False(t, calls.all()[0].hasAuth)
}

func TestClient_ListRemotesMissingField(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{"/config/listremotes": `{}`})
	_, err := New(Config{BaseURL: srv.URL}).ListRemotes(context.Background())
	assert.Error(t, err)
}

func TestClient_Live(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"/mount/listmounts": `{"mountPoints":[{"Fs":"gdrive:","MountPoint":"/mnt/g","MountedOn":"2024-01-01T00:00:00Z"}]}`,
		"/serve/list":       `{"list":[{"id":"webdav-1","addr":"[::]:8080","params":{"type":"webdav","fs":"gdrive:","opt":{"password":"pw"}}}]}`,
		"/vfs/list":         `{"vfses":["gdrive:"]}`,
	})
	c := New(Config{BaseURL: srv.URL})

	live, err := c.Live(context.Background())
	require.NoError(t, err)
	assert.Equal(t, toolbar.Live{
		Mounts: []toolbar.Mount{{Fs: "gdrive:", MountPoint: "/mnt/g", MountedOn: "2024-01-01T00:00:00Z"}},
		Serves: []toolbar.Serve{{ID: "webdav-1", Addr: "[::]:8080", Type: "webdav", Fs: "gdrive:", Password: "pw"}},
		VFSes:  []string{"gdrive:"},
	}, live)
}

func TestClient_Commands(t *testing.T) {
	srv, calls := newTestServer(t, map[string]string{
		"/mount/unmount":      `{}`,
		"/mount/unmountall":   `{}`,
		"/serve/stop":         `{}`,
		"/serve/stopall":      `{}`,
		"/vfs/forget":         `{"forgotten":[]}`,
		"/operations/cleanup": `{"jobid":7}`,
	})
	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	require.NoError(t, c.Unmount(ctx, "/mnt/g"))
	require.NoError(t, c.UnmountAll(ctx))
	require.NoError(t, c.StopServe(ctx, "http-1"))
	require.NoError(t, c.StopAllServes(ctx))
	require.NoError(t, c.ForgetVFS(ctx, "gdrive:"))
	require.NoError(t, c.ForgetAllVFS(ctx))
	require.NoError(t, c.Cleanup(ctx, "s3:"))

	got := calls.all()
	require.Len(t, got, 7)
	assert.Equal(t, "/mount/unmount", got[0].path)
	assert.Equal(t, map[string]any{"mountPoint": "/mnt/g"}, got[0].params)
	assert.Equal(t, map[string]any{"id": "http-1"}, got[2].params)
	assert.Equal(t, map[string]any{"fs": "gdrive:"}, got[4].params)
	assert.Empty(t, got[5].params)
	assert.Equal(t, "/operations/cleanup", got[6].path)
	assert.Equal(t, map[string]any{"fs": "s3:", "_async": true}, got[6].params)
}

func TestClient_ErrorResponse(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{})
	err := New(Config{BaseURL: srv.URL}).UnmountAll(context.Background())

	var rcErr *Error
	require.True(t, errors.As(err, &rcErr))
	assert.Equal(t, http.StatusNotFound, rcErr.Status)
	assert.Equal(t, "couldn't find method", rcErr.Message)
	assert.Equal(t, "mount/unmountall", rcErr.Endpoint)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	c := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Version(context.Background())
	assert.Error(t, err)
}

func TestClient_ContextCanceled(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{"/core/version": `{"version":"v1"}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{BaseURL: srv.URL}).Version(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
