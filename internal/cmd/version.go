package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/rcbar/internal/config"
	"github.com/runger/rcbar/internal/rc"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// hostVersionTimeout bounds the engine version lookup.
const hostVersionTimeout = time.Second

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print version information",
	GroupID: groupSetup,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "rcbar %s\n", Version)
		fmt.Fprintf(out, "  commit: %s\n", GitCommit)
		fmt.Fprintf(out, "  built:  %s\n", BuildDate)

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(out, "  host:   %s(invalid config)%s\n", colorDim, colorReset)
			return
		}
		fmt.Fprintf(out, "  host:   %s (%s)\n", cfg.Host.URL, hostVersion(cmd.Context(), cfg))
	},
}

// hostVersion asks the control API for the engine version.
func hostVersion(ctx context.Context, cfg *config.Config) string {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, hostVersionTimeout)
	defer cancel()
	c := rc.New(rc.Config{
		BaseURL:  cfg.Host.URL,
		User:     cfg.Host.User,
		Password: cfg.Host.Password,
		Timeout:  hostVersionTimeout,
	})
	v, err := c.Version(ctx)
	switch {
	case err != nil:
		return colorYellow + "unreachable" + colorReset
	case v == "":
		return "rclone, unknown version"
	}
	return "rclone " + v
}
