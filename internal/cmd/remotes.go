package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var remotesCmd = &cobra.Command{
	Use:     "remotes",
	Short:   "List configured remotes and their backend types",
	GroupID: groupCore,
	Args:    cobra.NoArgs,
	RunE:    runRemotes,
}

func runRemotes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newApp(appOptions{out: out})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.poller.Warm(cmd.Context()); err != nil {
		a.logger.Warn("loading remote snapshot", "error", err)
	}
	refreshErr := a.poller.RefreshRemotes(cmd.Context())
	snap := a.cache.Snapshot()
	if refreshErr != nil && !a.cache.HasRemotes() {
		return fmt.Errorf("listing remotes: %w", refreshErr)
	}
	if refreshErr != nil {
		fmt.Fprintf(out, "%sWarning:%s %s is unreachable, showing remotes saved %s\n\n",
			colorYellow, colorReset, a.cfg.Host.URL, snap.RemotesAt.Format(time.DateTime))
	}

	if len(snap.Remotes) == 0 {
		fmt.Fprintf(out, "%sNo remotes configured%s\n", colorDim, colorReset)
		return nil
	}
	width := 0
	for _, name := range snap.Remotes {
		width = max(width, len(name)+1)
	}
	for _, name := range snap.Remotes {
		typ := snap.RemoteTypes[name]
		if typ == "" {
			typ = colorDim + "(unknown)" + colorReset
		}
		fmt.Fprintf(out, "  %s%-*s%s  %s\n", colorCyan, width, name+":", colorReset, typ)
	}
	return nil
}
