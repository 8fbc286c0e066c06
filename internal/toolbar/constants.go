package toolbar

// Action identifiers. They are stable across runs and used for dispatch.
const (
	IDCopy            = "copy"
	IDMove            = "move"
	IDSync            = "sync"
	IDBisync          = "bisync"
	IDMount           = "mount"
	IDServe           = "serve"
	IDDownload        = "download"
	IDCleanup         = "cleanup"
	IDBrowse          = "browse"
	IDDelete          = "delete"
	IDPurge           = "purge"
	IDSettings        = "settings"
	IDGitHub          = "github"
	IDTransfers       = "transfers"
	IDSchedules       = "schedules"
	IDTemplates       = "templates"
	IDRemoteCreate    = "remoteCreate"
	IDRemoteEdit      = "remoteEdit"
	IDRemoteAutoMount = "remoteAutoMount"
	IDRemoteList      = "remoteList"
	IDQuit            = "quit"
	IDVFS             = "vfs"
)

// Scores shared by actions so ranking stays consistent across the catalog.
const (
	ScorePair         = 200
	ScoreURLLocal     = 190
	ScoreLiveOpen     = 180
	ScoreLiveStop     = 175
	ScoreLiveStopAll  = 170
	ScoreURLOnly      = 170
	ScoreRemoteSource = 160
	ScoreRemoteDest   = 155
	ScoreRemoteTarget = 150
	ScoreLocal        = 140
)

// Argument keys understood by the command windows.
const (
	ArgSource      = "initialSource"
	ArgDestination = "initialDestination"
	ArgURL         = "initialUrl"
	ArgType        = "initialType"
	ArgRemote      = "remote"
	ArgTab         = "tab"
	ArgAction      = "action"

	// Keys prefixed with an underscore select a sub-action inside OnPress
	// and are never forwarded to a window.
	argOp         = "_action"
	argMountPoint = "_mountPoint"
	argServeID    = "_serveId"
	argFs         = "_fs"
)

// Sub-action values stored under argOp.
const (
	opOpen      = "open"
	opCopyInfo  = "copy_info"
	opStop      = "stop"
	opStopAll   = "stop_all"
	opBack      = "back"
	opForget    = "forget"
	opForgetAll = "forget_all"
)

var descriptions = map[string]string{
	IDCopy:            "Copy files from a source to a destination without deleting destination files.",
	IDMove:            "Move files from a source to a destination and delete them from the source.",
	IDSync:            "Sync source to destination, updating existing files and removing stale ones.",
	IDMount:           "Mount a remote to the local filesystem with VFS options.",
	IDDownload:        "Download a URL directly into a remote or local path.",
	IDServe:           "Serve a remote over HTTP, WebDAV, SFTP, FTP and Restic.",
	IDBisync:          "Bi-directional sync keeping source and destination in parity.",
	IDDelete:          "Delete files or folders from a remote or local path.",
	IDPurge:           "Purge an entire path from a remote, deleting everything.",
	IDCleanup:         "Cleanup a remote by removing trashed and partial files.",
	IDBrowse:          "Browse files and folders in a remote.",
	IDSettings:        "Open the Settings screen.",
	IDGitHub:          "Open an issue or check out the GitHub repository.",
	IDTransfers:       "Open the Transfers screen.",
	IDSchedules:       "Open the Schedules screen.",
	IDTemplates:       "Open the Templates screen.",
	IDRemoteCreate:    "Create a new remote.",
	IDRemoteEdit:      "Edit a remote.",
	IDRemoteAutoMount: "Configure auto mount options for a remote.",
	IDRemoteList:      "Show all configured remotes.",
	IDQuit:            "Quit the application.",
	IDVFS:             "Forget the local cache for one or all remotes.",
}

var keywords = map[string][]string{
	IDCopy:            {"copy", "cp", "transfer"},
	IDMove:            {"move", "mv"},
	IDSync:            {"sync", "synchronise", "synchronize"},
	IDMount:           {"mount"},
	IDDownload:        {"download", "url", "copyurl", "copyto"},
	IDServe:           {"serve", "http", "webdav", "sftp", "ftp", "restic"},
	IDBisync:          {"bisync"},
	IDDelete:          {"delete", "remove", "rm"},
	IDPurge:           {"purge", "empty"},
	IDCleanup:         {"cleanup", "clean"},
	IDBrowse:          {"browse", "explore", "open", "view", "files"},
	IDSettings:        {"settings", "config", "preferences"},
	IDGitHub:          {"github", "issue", "bug", "feature"},
	IDTransfers:       {"transfer", "job", "task"},
	IDSchedules:       {"schedule", "cron", "task"},
	IDTemplates:       {"template", "example"},
	IDRemoteCreate:    {"new", "remote", "create"},
	IDRemoteEdit:      {"edit", "remote", "update", "change"},
	IDRemoteAutoMount: {"mount", "remote", "update", "change"},
	IDRemoteList:      {"remote", "list", "show"},
	IDQuit:            {"quit", "exit", "close"},
	IDVFS:             {"vfs", "cache", "forget"},
}

// windowRoute maps an action to the window it opens.
type windowRoute struct {
	route string
	name  string
}

var windowRoutes = map[string]windowRoute{
	IDCopy:      {"/copy", "Copy"},
	IDMove:      {"/move", "Move"},
	IDSync:      {"/sync", "Sync"},
	IDMount:     {"/mount", "Mount"},
	IDDownload:  {"/download", "Download"},
	IDServe:     {"/serve", "Serve"},
	IDBisync:    {"/bisync", "Bisync"},
	IDDelete:    {"/delete", "Delete"},
	IDPurge:     {"/purge", "Purge"},
	IDSettings:  {"/settings", "Settings"},
	IDTransfers: {"/transfers", "Transfers"},
	IDSchedules: {"/schedules", "Schedules"},
	IDTemplates: {"/templates", "Templates"},
}

// GitHubURL is opened by the github action.
const GitHubURL = "https://github.com/rclone-ui/rclone-ui"

// serveTypes is ordered so that longer protocol names win over names they
// contain (sftp before ftp).
var serveTypes = []string{"webdav", "sftp", "ftp", "http", "restic", "dlna", "nfs"}

// Backends that implement the cleanup operation.
var supportsCleanup = setOf(
	"b2", "box", "drive", "internetarchive", "jottacloud", "mailru", "mega",
	"onedrive", "oos", "pcloud", "pikpak", "protondrive", "putio", "qingstor",
	"s3", "seafile", "yandex",
)

// Backends that implement purge natively.
var supportsPurge = setOf(
	"b2", "box", "drive", "dropbox", "jottacloud", "mailru", "mega",
	"onedrive", "opendrive", "pcloud", "pikpak", "putio", "seafile",
	"sharefile", "swift", "webdav", "yandex", "zoho",
)

func setOf(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}
