package toolbar

import (
	"context"
	"fmt"
	"strings"
)

func mountLabel(m Mount) string {
	return "MOUNT · " + m.Fs + " · " + m.MountPoint
}

func serveLabel(s Serve) string {
	kind := strings.ToUpper(s.Type)
	if kind == "" {
		kind = "SERVE"
	}
	fs := s.Fs
	if fs == "" {
		fs = "unknown"
	}
	return kind + " · " + fs + " · " + s.Addr
}

// serveInfo is the text copied to the clipboard for a serve instance.
func serveInfo(s Serve) string {
	parts := []string{"ID: " + s.ID, "Address: " + s.Addr}
	if s.Password != "" {
		parts = append(parts, "Password: "+s.Password)
	}
	if s.Type != "" {
		parts = append(parts, "Type: "+strings.ToUpper(s.Type))
	}
	if s.Fs != "" {
		parts = append(parts, "Source: "+s.Fs)
	}
	return strings.Join(parts, "\n")
}

func requireArg(args Args, key string) (string, error) {
	v := args[key]
	if v == "" {
		return "", fmt.Errorf("%s: %w", key, ErrMissingArg)
	}
	return v, nil
}

type mountAction struct {
	base
	svc *Services
}

const mountDefaultScore = 42

func (a *mountAction) DefaultResult(DefaultContext) (Result, bool) {
	return a.plain(nil, mountDefaultScore), true
}

func (a *mountAction) Results(c Context) []Result {
	if !a.matches(c.Query) {
		return nil
	}

	var results []Result
	mounts := c.Live.Mounts
	for _, m := range mounts {
		label := mountLabel(m)
		if a.svc.Host.Local {
			results = append(results, Result{
				Label:       "Open " + label,
				Description: "Open mount point in file explorer",
				Args:        Args{argOp: opOpen, argMountPoint: m.MountPoint},
				Score:       ScoreLiveOpen,
			})
		} else {
			results = append(results, Result{
				Label:       "Copy " + label,
				Description: "Press Enter to copy mount details to clipboard",
				Args:        Args{argOp: opCopyInfo, argMountPoint: m.MountPoint},
				Score:       ScoreLiveOpen,
			})
		}
		results = append(results, Result{
			Label:       "Stop " + label,
			Description: "Unmount this path",
			Args:        Args{argOp: opStop, argMountPoint: m.MountPoint},
			Score:       ScoreLiveStop,
		})
	}
	if len(mounts) >= 2 {
		results = append(results, Result{
			Label:       fmt.Sprintf("Stop All Mounts (%d active)", len(mounts)),
			Description: "Unmount all active mounts",
			Args:        Args{argOp: opStopAll},
			Score:       ScoreLiveStopAll,
		})
	}

	if len(c.Paths) == 0 {
		return append(results, a.plain(nil, mountDefaultScore))
	}
	for _, p := range c.Paths {
		score := ScoreRemoteSource
		if p.IsLocal {
			score = ScoreLocal
		}
		results = append(results, Result{
			Label:       "Mount " + p.Readable,
			Description: a.Description(),
			Args:        Args{ArgSource: argPath(p)},
			Score:       score,
		})
	}
	return results
}

func (a *mountAction) OnPress(ctx context.Context, args Args, pc PressContext) error {
	switch args[argOp] {
	case opOpen:
		mp, err := requireArg(args, argMountPoint)
		if err != nil {
			return err
		}
		if err := a.svc.reveal(ctx, mp); err != nil {
			return a.svc.fail("Open Mount", err)
		}
		return nil

	case opCopyInfo:
		mp, err := requireArg(args, argMountPoint)
		if err != nil {
			return err
		}
		if err := a.svc.copyText(mp); err != nil {
			return a.svc.fail("Copy Mount", err)
		}
		a.svc.notify("Copied!", "Mount point copied to clipboard")
		return nil

	case opStop:
		mp, err := requireArg(args, argMountPoint)
		if err != nil {
			return err
		}
		if !a.svc.confirm("Are you sure you want to unmount this path?") {
			return nil
		}
		api, err := a.svc.api()
		if err == nil {
			err = api.Unmount(ctx, mp)
		}
		if err != nil {
			return a.svc.fail("Stop Mount", err)
		}
		a.svc.drop(func(l LiveStore) { l.DropMount(mp) })
		a.svc.notify("Mount Stopped", "Mount point "+mp+" has been unmounted")
		return nil

	case opStopAll:
		if !a.svc.confirm("Are you sure you want to unmount ALL paths?") {
			return nil
		}
		api, err := a.svc.api()
		if err == nil {
			err = api.UnmountAll(ctx)
		}
		if err != nil {
			return a.svc.fail("Stop All Mounts", err)
		}
		a.svc.drop(LiveStore.DropAllMounts)
		a.svc.notify("All Mounts Stopped", "All mount instances have been unmounted")
		return nil
	}
	return openCommandWindow(ctx, pc, a.id, args)
}

type serveAction struct {
	base
	svc *Services
}

const serveDefaultScore = 40

func (a *serveAction) DefaultResult(DefaultContext) (Result, bool) {
	return a.plain(nil, serveDefaultScore), true
}

func (a *serveAction) Results(c Context) []Result {
	if !a.matches(c.Query) {
		return nil
	}

	var results []Result
	serves := c.Live.Serves
	for _, s := range serves {
		label := serveLabel(s)
		results = append(results,
			Result{
				Label:       "Copy " + label,
				Description: "Press Enter to copy serve details to clipboard",
				Args:        Args{argOp: opCopyInfo, argServeID: s.ID},
				Score:       ScoreLiveOpen,
			},
			Result{
				Label:       "Stop " + label,
				Description: "Stop this serve instance",
				Args:        Args{argOp: opStop, argServeID: s.ID},
				Score:       ScoreLiveStop,
			},
		)
	}
	if len(serves) >= 2 {
		results = append(results, Result{
			Label:       fmt.Sprintf("Stop All Serves (%d active)", len(serves)),
			Description: "Stop all running serve instances",
			Args:        Args{argOp: opStopAll},
			Score:       ScoreLiveStopAll,
		})
	}

	if len(c.Paths) == 0 {
		return append(results, a.plain(nil, serveDefaultScore))
	}
	protocol := findServeType(c.Query)
	for _, p := range c.Paths {
		args := Args{ArgSource: argPath(p)}
		label := "Serve " + p.Readable
		if protocol != "" {
			args[ArgType] = protocol
			label = "Serve " + protocol + " " + p.Readable
		}
		score := ScoreRemoteSource
		if p.IsLocal {
			score = ScoreLocal
		}
		results = append(results, Result{Label: label, Description: a.Description(), Args: args, Score: score})
	}
	return results
}

func (a *serveAction) OnPress(ctx context.Context, args Args, pc PressContext) error {
	switch args[argOp] {
	case opCopyInfo:
		id, err := requireArg(args, argServeID)
		if err != nil {
			return err
		}
		for _, s := range a.svc.resources().Serves {
			if s.ID != id {
				continue
			}
			if err := a.svc.copyText(serveInfo(s)); err != nil {
				return a.svc.fail("Serve Info", err)
			}
			a.svc.notify("Serve Info", "Serve details copied to clipboard")
			return nil
		}
		return a.svc.fail("Serve Info", fmt.Errorf("serve %s: %w", id, ErrGone))

	case opStop:
		id, err := requireArg(args, argServeID)
		if err != nil {
			return err
		}
		api, err := a.svc.api()
		if err == nil {
			err = api.StopServe(ctx, id)
		}
		if err != nil {
			return a.svc.fail("Stop Serve", err)
		}
		a.svc.drop(func(l LiveStore) { l.DropServe(id) })
		a.svc.notify("Serve Stopped", "Serve instance "+id+" has been stopped")
		return nil

	case opStopAll:
		api, err := a.svc.api()
		if err == nil {
			err = api.StopAllServes(ctx)
		}
		if err != nil {
			return a.svc.fail("Stop All Serves", err)
		}
		a.svc.drop(LiveStore.DropAllServes)
		a.svc.notify("All Serves Stopped", "All serve instances have been stopped")
		return nil
	}
	return openCommandWindow(ctx, pc, a.id, args)
}

// vfsAction forgets VFS directory caches. Pressing it without a target
// drills down by rewriting the query.
type vfsAction struct {
	base
	svc *Services
}

const vfsDefaultScore = 35

func (a *vfsAction) DefaultResult(DefaultContext) (Result, bool) {
	return Result{Label: a.label, Description: "Specify a cache to forget", Args: Args{}, Score: vfsDefaultScore}, true
}

func (a *vfsAction) Results(c Context) []Result {
	if !a.matches(c.Query) {
		return nil
	}
	vfses := c.Live.VFSes
	if len(vfses) == 0 {
		return []Result{{Label: "Back", Description: "No active VFS caches", Args: Args{argOp: opBack}, Score: vfsDefaultScore}}
	}

	results := make([]Result, 0, len(vfses)+1)
	for _, fs := range vfses {
		results = append(results, Result{
			Label:       "Forget " + fs,
			Description: "Clear the VFS directory cache",
			Args:        Args{argOp: opForget, argFs: fs},
			Score:       ScoreLiveOpen,
		})
	}
	if len(vfses) >= 2 {
		results = append(results, Result{
			Label:       fmt.Sprintf("Forget All VFS Caches (%d active)", len(vfses)),
			Description: "Clear all VFS directory caches",
			Args:        Args{argOp: opForgetAll},
			Score:       ScoreLiveStopAll,
		})
	}
	return results
}

func (a *vfsAction) OnPress(ctx context.Context, args Args, pc PressContext) error {
	switch args[argOp] {
	case "":
		if pc != nil {
			pc.UpdateText("VFS ")
		}
		return nil

	case opBack:
		if pc != nil {
			pc.UpdateText("")
		}
		return nil

	case opForget:
		fs, err := requireArg(args, argFs)
		if err != nil {
			return err
		}
		api, err := a.svc.api()
		if err == nil {
			err = api.ForgetVFS(ctx, fs)
		}
		if err != nil {
			return a.svc.fail("VFS Forget", err)
		}
		a.svc.drop(func(l LiveStore) { l.DropVFS(fs) })
		a.svc.notify("VFS Cache Cleared", "Directory cache for "+fs+" has been cleared")
		return nil

	case opForgetAll:
		api, err := a.svc.api()
		if err == nil {
			err = api.ForgetAllVFS(ctx)
		}
		if err != nil {
			return a.svc.fail("VFS Forget All", err)
		}
		a.svc.drop(LiveStore.DropAllVFS)
		a.svc.notify("All VFS Caches Cleared", "All VFS directory caches have been cleared")
		return nil
	}
	return fmt.Errorf("vfs %q: %w", args[argOp], ErrUnknownAction)
}
