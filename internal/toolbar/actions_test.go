package toolbar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type fakeAPI struct {
	calls []string
	err   error
}

func (f *fakeAPI) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeAPI) Unmount(_ context.Context, mp string) error { return f.record("unmount " + mp) }
func (f *fakeAPI) UnmountAll(context.Context) error           { return f.record("unmountall") }
func (f *fakeAPI) StopServe(_ context.Context, id string) error {
	return f.record("serve/stop " + id)
}
func (f *fakeAPI) StopAllServes(context.Context) error { return f.record("serve/stopall") }
func (f *fakeAPI) ForgetVFS(_ context.Context, fs string) error {
	return f.record("vfs/forget " + fs)
}
func (f *fakeAPI) ForgetAllVFS(context.Context) error { return f.record("vfs/forget") }
func (f *fakeAPI) Cleanup(_ context.Context, fs string) error {
	return f.record("cleanup " + fs)
}

type fakeLive struct {
	live    Live
	dropped []string
}

func (f *fakeLive) Resources() Live           { return f.live }
func (f *fakeLive) DropMount(mp string)       { f.dropped = append(f.dropped, "mount "+mp) }
func (f *fakeLive) DropAllMounts()            { f.dropped = append(f.dropped, "mounts") }
func (f *fakeLive) DropServe(id string)       { f.dropped = append(f.dropped, "serve "+id) }
func (f *fakeLive) DropAllServes()            { f.dropped = append(f.dropped, "serves") }
func (f *fakeLive) DropVFS(fs string)         { f.dropped = append(f.dropped, "vfs "+fs) }
func (f *fakeLive) DropAllVFS()               { f.dropped = append(f.dropped, "vfses") }

type fakePress struct {
	windows []string
	text    *string
	err     error
}

func (p *fakePress) OpenWindow(_ context.Context, name, url string) error {
	p.windows = append(p.windows, name+" "+url)
	return p.err
}

func (p *fakePress) UpdateText(text string) { p.text = &text }

type harness struct {
	api      *fakeAPI
	live     *fakeLive
	clip     []string
	notes    []string
	revealed []string
	opened   []string
	quit     bool
	confirm  bool
	svc      *Services
	catalog  *Catalog
}

func newHarness() *harness {
	h := &harness{api: &fakeAPI{}, live: &fakeLive{}, confirm: true}
	h.svc = &Services{
		API:  h.api,
		Live: h.live,
		Host: Host{URL: "http://localhost:5572/", Local: true},
		Clipboard: func(text string) error {
			h.clip = append(h.clip, text)
			return nil
		},
		Notify:  func(title, _ string) { h.notes = append(h.notes, title) },
		Confirm: func(string) bool { return h.confirm },
		Reveal: func(_ context.Context, path string) error {
			h.revealed = append(h.revealed, path)
			return nil
		},
		OpenURL: func(_ context.Context, u string) error {
			h.opened = append(h.opened, u)
			return nil
		},
		Quit: func() { h.quit = true },
	}
	h.catalog = DefaultCatalog(h.svc)
	return h
}

func (h *harness) action(t *testing.T, id string) Action {
	t.Helper()
	a, ok := h.catalog.Get(id)
	require.True(t, ok, id)
	return a
}

func (h *harness) press(t *testing.T, id string, args Args) (*fakePress, error) {
	t.Helper()
	pc := &fakePress{}
	return pc, h.action(t, id).OnPress(context.Background(), args, pc)
}

func labels(rs []Result) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Label)
	}
	return out
}

var (
	remotePath = Path{Full: "gdrive:/docs", Readable: "gdrive:/docs", RemoteName: "gdrive", RemoteType: "drive"}
	localPath  = Path{Full: "/mnt/data", Readable: "/mnt/data", IsLocal: true}
)

// --- Transfer-style actions ---

func TestTransferAction_KeywordGate(t *testing.T) {
	h := newHarness()
	copyAction := h.action(t, IDCopy)

	assert.Empty(t, copyAction.Results(Context{Query: "mount"}))
	assert.Equal(t, []string{"Copy"}, labels(copyAction.Results(Context{Query: "cp"})))
}

func TestTransferAction_OnPressOpensWindow(t *testing.T) {
	h := newHarness()
	pc, err := h.press(t, IDCopy, Args{ArgSource: "gdrive:/docs", ArgDestination: "/tmp/a b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Copy /copy?initialDestination=%2Ftmp%2Fa+b&initialSource=gdrive%3A%2Fdocs"}, pc.windows)
}

func TestDownloadAction(t *testing.T) {
	h := newHarness()
	a := h.action(t, IDDownload)

	t.Run("url and paths", func(t *testing.T) {
		rs := a.Results(Context{Query: "https://example.com/f.zip", Paths: []Path{remotePath, localPath}})
		require.Len(t, rs, 2)
		assert.Equal(t, "Download f.zip to gdrive", rs[0].Label)
		assert.Equal(t, ScorePair, rs[0].Score)
		assert.Equal(t, Args{ArgDestination: "gdrive:/docs", ArgURL: "https://example.com/f.zip"}, rs[0].Args)
		assert.Equal(t, ScoreURLLocal, rs[1].Score)
	})

	t.Run("bare domain without keyword", func(t *testing.T) {
		rs := a.Results(Context{Query: "example.com/f.zip"})
		require.Len(t, rs, 1)
		assert.Equal(t, ScoreURLOnly, rs[0].Score)
		assert.Equal(t, Args{ArgURL: "https://example.com/f.zip"}, rs[0].Args)
	})

	t.Run("paths only", func(t *testing.T) {
		rs := a.Results(Context{Query: "download", Paths: []Path{remotePath, localPath}})
		require.Len(t, rs, 2)
		assert.Equal(t, "Download to gdrive", rs[0].Label)
		assert.Equal(t, ScoreRemoteSource, rs[0].Score)
		assert.Equal(t, ScoreRemoteTarget, rs[1].Score)
	})

	t.Run("unrelated query", func(t *testing.T) {
		assert.Empty(t, a.Results(Context{Query: "sync"}))
	})
}

func TestPurgeAction_FiltersUnsupportedBackends(t *testing.T) {
	h := newHarness()
	a := h.action(t, IDPurge)

	unsupported := Path{Full: "sftp:/x", Readable: "sftp:/x", RemoteName: "sftp", RemoteType: "sftp"}
	rs := a.Results(Context{Paths: []Path{unsupported, localPath}})
	assert.Equal(t, []string{"Purge"}, labels(rs))

	rs = a.Results(Context{Paths: []Path{unsupported, remotePath}})
	require.Len(t, rs, 1)
	assert.Equal(t, "Purge gdrive:/docs", rs[0].Label)
	assert.Equal(t, ScoreRemoteTarget, rs[0].Score)
}

func TestDeleteAction_Scores(t *testing.T) {
	h := newHarness()
	rs := h.action(t, IDDelete).Results(Context{Query: "rm", Paths: []Path{localPath, remotePath}})
	require.Len(t, rs, 2)
	assert.Equal(t, ScoreLocal, rs[0].Score)
	assert.Equal(t, ScoreRemoteTarget, rs[1].Score)
}

// --- Live resources ---

func TestMountAction_LiveResults(t *testing.T) {
	h := newHarness()
	a := h.action(t, IDMount)
	live := Live{Mounts: []Mount{
		{Fs: "gdrive:", MountPoint: "/mnt/g"},
		{Fs: "s3:", MountPoint: "/mnt/s"},
	}}

	rs := a.Results(Context{Live: live})
	assert.Equal(t, []string{
		"Open MOUNT · gdrive: · /mnt/g",
		"Stop MOUNT · gdrive: · /mnt/g",
		"Open MOUNT · s3: · /mnt/s",
		"Stop MOUNT · s3: · /mnt/s",
		"Stop All Mounts (2 active)",
		"Mount",
	}, labels(rs))
	assert.Equal(t, ScoreLiveOpen, rs[0].Score)
	assert.Equal(t, ScoreLiveStop, rs[1].Score)
	assert.Equal(t, ScoreLiveStopAll, rs[4].Score)

	h.svc.Host.Local = false
	rs = a.Results(Context{Live: Live{Mounts: live.Mounts[:1]}, Paths: []Path{remotePath}})
	assert.Equal(t, []string{
		"Copy MOUNT · gdrive: · /mnt/g",
		"Stop MOUNT · gdrive: · /mnt/g",
		"Mount gdrive:/docs",
	}, labels(rs))
}

func TestMountAction_OnPress(t *testing.T) {
	h := newHarness()

	_, err := h.press(t, IDMount, Args{argOp: opOpen, argMountPoint: "/mnt/g"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/mnt/g"}, h.revealed)

	_, err = h.press(t, IDMount, Args{argOp: opCopyInfo, argMountPoint: "/mnt/g"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/mnt/g"}, h.clip)

	_, err = h.press(t, IDMount, Args{argOp: opStop, argMountPoint: "/mnt/g"})
	require.NoError(t, err)
	_, err = h.press(t, IDMount, Args{argOp: opStopAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"unmount /mnt/g", "unmountall"}, h.api.calls)
	assert.Equal(t, []string{"mount /mnt/g", "mounts"}, h.live.dropped)

	pc, err := h.press(t, IDMount, Args{ArgSource: "gdrive:/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mount /mount?initialSource=gdrive%3A%2F"}, pc.windows)
}

func TestMountAction_StopDeclined(t *testing.T) {
	h := newHarness()
	h.confirm = false

	_, err := h.press(t, IDMount, Args{argOp: opStop, argMountPoint: "/mnt/g"})
	require.NoError(t, err)
	assert.Empty(t, h.api.calls)
	assert.Empty(t, h.live.dropped)
}

func TestMountAction_Errors(t *testing.T) {
	h := newHarness()

	_, err := h.press(t, IDMount, Args{argOp: opStop})
	assert.ErrorIs(t, err, ErrMissingArg)

	h.api.err = errors.New("engine down")
	_, err = h.press(t, IDMount, Args{argOp: opStop, argMountPoint: "/mnt/g"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine down")
	assert.Contains(t, h.notes, "Stop Mount")
	assert.Empty(t, h.live.dropped)
}

func TestServeAction(t *testing.T) {
	h := newHarness()
	a := h.action(t, IDServe)
	serve := Serve{ID: "http-1", Addr: "127.0.0.1:8080", Type: "http", Fs: "gdrive:", Password: "pw"}
	h.live.live = Live{Serves: []Serve{serve}}

	rs := a.Results(Context{Query: "serve sftp", Live: h.live.live, Paths: []Path{remotePath}})
	assert.Equal(t, []string{
		"Copy HTTP · gdrive: · 127.0.0.1:8080",
		"Stop HTTP · gdrive: · 127.0.0.1:8080",
		"Serve sftp gdrive:/docs",
	}, labels(rs))
	assert.Equal(t, Args{ArgSource: "gdrive:/docs", ArgType: "sftp"}, rs[2].Args)

	_, err := h.press(t, IDServe, Args{argOp: opCopyInfo, argServeID: "http-1"})
	require.NoError(t, err)
	require.Len(t, h.clip, 1)
	assert.Equal(t, "ID: http-1\nAddress: 127.0.0.1:8080\nPassword: pw\nType: HTTP\nSource: gdrive:", h.clip[0])

	_, err = h.press(t, IDServe, Args{argOp: opCopyInfo, argServeID: "gone"})
	assert.ErrorIs(t, err, ErrGone)

	_, err = h.press(t, IDServe, Args{argOp: opStop, argServeID: "http-1"})
	require.NoError(t, err)
	_, err = h.press(t, IDServe, Args{argOp: opStopAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"serve/stop http-1", "serve/stopall"}, h.api.calls)
	assert.Equal(t, []string{"serve http-1", "serves"}, h.live.dropped)
}

func TestVFSAction(t *testing.T) {
	h := newHarness()
	a := h.action(t, IDVFS)

	rs := a.Results(Context{Query: "vfs"})
	assert.Equal(t, []string{"Back"}, labels(rs))

	rs = a.Results(Context{Query: "cache", Live: Live{VFSes: []string{"gdrive:", "s3:"}}})
	assert.Equal(t, []string{"Forget gdrive:", "Forget s3:", "Forget All VFS Caches (2 active)"}, labels(rs))

	pc, err := h.press(t, IDVFS, Args{})
	require.NoError(t, err)
	require.NotNil(t, pc.text)
	assert.Equal(t, "VFS ", *pc.text)

	pc, err = h.press(t, IDVFS, Args{argOp: opBack})
	require.NoError(t, err)
	require.NotNil(t, pc.text)
	assert.Equal(t, "", *pc.text)

	_, err = h.press(t, IDVFS, Args{argOp: opForget, argFs: "gdrive:"})
	require.NoError(t, err)
	_, err = h.press(t, IDVFS, Args{argOp: opForgetAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"vfs/forget gdrive:", "vfs/forget"}, h.api.calls)
	assert.Equal(t, []string{"vfs gdrive:", "vfses"}, h.live.dropped)
}

// --- Remote actions ---

func TestBrowseAction_Results(t *testing.T) {
	h := newHarness()
	a := h.action(t, IDBrowse)

	rs := a.Results(Context{Query: "browse", Remotes: []string{"gdrive", "s3"}})
	assert.Equal(t, []string{"Browse gdrive", "Browse s3", "Back"}, labels(rs))
	assert.Equal(t, ScoreLocal, rs[0].Score)

	rs = a.Results(Context{Query: "open"})
	assert.Equal(t, []string{"Browse"}, labels(rs))

	rs = a.Results(Context{Paths: []Path{remotePath, remotePath, localPath}})
	assert.Equal(t, []string{"Browse gdrive"}, labels(rs))
	assert.Equal(t, ScoreRemoteTarget, rs[0].Score)
}

func TestBrowseAction_OnPress(t *testing.T) {
	h := newHarness()

	pc, err := h.press(t, IDBrowse, Args{})
	require.NoError(t, err)
	require.NotNil(t, pc.text)
	assert.Equal(t, "Browse ", *pc.text)

	pc, err = h.press(t, IDBrowse, Args{ArgRemote: "gdrive"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Browse browse.html?url=http%3A%2F%2Flocalhost%3A5572%2F%5Bgdrive%3A%5D%2F"}, pc.windows)

	h.svc.Host.User = "user"
	h.svc.Host.Password = "pw"
	pc, err = h.press(t, IDBrowse, Args{ArgRemote: "gdrive"})
	require.NoError(t, err)
	require.Len(t, pc.windows, 1)
	assert.Contains(t, pc.windows[0], "&auth=dXNlcjpwdw%3D%3D")

	h.svc.Host.URL = ""
	_, err = h.press(t, IDBrowse, Args{ArgRemote: "gdrive"})
	assert.Error(t, err)
}

func TestCleanupAction(t *testing.T) {
	h := newHarness()
	a := h.action(t, IDCleanup)

	s3 := Path{Full: "s3:/b", Readable: "s3:/b", RemoteName: "s3", RemoteType: "s3"}
	sftp := Path{Full: "box:/b", Readable: "box:/b", RemoteName: "box", RemoteType: "sftp"}
	rs := a.Results(Context{Paths: []Path{s3, sftp, s3}})
	require.Len(t, rs, 1)
	assert.Equal(t, "Cleanup s3", rs[0].Label)
	assert.Equal(t, Args{ArgRemote: "s3"}, rs[0].Args)

	rs = a.Results(Context{Paths: []Path{sftp}})
	assert.Equal(t, []string{"Cleanup"}, labels(rs))

	_, err := h.press(t, IDCleanup, Args{ArgRemote: "s3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cleanup s3:"}, h.api.calls)

	_, err = h.press(t, IDCleanup, Args{})
	assert.ErrorIs(t, err, ErrMissingArg)
}

func TestCleanupBackends(t *testing.T) {
	a := newHarness().action(t, IDCleanup)
	for _, typ := range []string{"internetarchive", "oos", "protondrive", "seafile", "s3"} {
		p := Path{Full: "r:/x", Readable: "r:/x", RemoteName: "r", RemoteType: typ}
		assert.Equal(t, []string{"Cleanup r"}, labels(a.Results(Context{Paths: []Path{p}})), typ)
	}
	p := Path{Full: "od:/x", Readable: "od:/x", RemoteName: "od", RemoteType: "opendrive"}
	assert.Equal(t, []string{"Cleanup"}, labels(a.Results(Context{Paths: []Path{p}})))
}

func TestRemoteSettingsActions(t *testing.T) {
	h := newHarness()

	rs := h.action(t, IDRemoteEdit).Results(Context{Query: "edit", Paths: []Path{remotePath, localPath}})
	require.Len(t, rs, 1)
	assert.Equal(t, "Edit gdrive", rs[0].Label)
	assert.Equal(t, Args{ArgTab: "remotes", ArgAction: "edit", ArgRemote: "gdrive"}, rs[0].Args)

	rs = h.action(t, IDRemoteAutoMount).Results(Context{Paths: []Path{remotePath}})
	require.Len(t, rs, 1)
	assert.Equal(t, "Configure auto mount for gdrive", rs[0].Label)

	pc, err := h.press(t, IDRemoteEdit, rs[0].Args)
	require.NoError(t, err)
	assert.Equal(t, []string{"Settings /settings?action=auto-mount&remote=gdrive&tab=remotes"}, pc.windows)
}

// --- Screens ---

func TestScreenActions(t *testing.T) {
	h := newHarness()

	assert.Empty(t, h.action(t, IDSettings).Results(Context{}))
	assert.Equal(t, []string{"Settings"}, labels(h.action(t, IDSettings).Results(Context{Query: "pref"})))
	assert.Equal(t, []string{"Settings"}, labels(h.action(t, IDSettings).Results(Context{Query: "preferences"})))
	// the typed word must be contained in a keyword or contain one
	assert.Empty(t, h.action(t, IDSettings).Results(Context{Query: "prefs"}))

	_, ok := h.action(t, IDSchedules).(Defaulter)
	require.True(t, ok)
	_, has := h.action(t, IDSchedules).(Defaulter).DefaultResult(DefaultContext{})
	assert.False(t, has)

	pc, err := h.press(t, IDRemoteCreate, Args{ArgTab: "remotes", ArgAction: "create"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Settings /settings?action=create&tab=remotes"}, pc.windows)

	_, err = h.press(t, IDGitHub, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{GitHubURL}, h.opened)

	_, err = h.press(t, IDQuit, nil)
	require.NoError(t, err)
	assert.True(t, h.quit)
}

func TestServicesWithoutCapabilities(t *testing.T) {
	c := DefaultCatalog(nil)
	a, ok := c.Get(IDMount)
	require.True(t, ok)

	err := a.OnPress(context.Background(), Args{argOp: opStopAll}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)

	err = a.OnPress(context.Background(), Args{}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}
