package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/runger/rcbar/internal/palette"
	"github.com/runger/rcbar/internal/toolbar"
)

var (
	runPick string
	runYes  bool
)

var runCmd = &cobra.Command{
	Use:     "run <text...>",
	Short:   "Resolve a query and run one of its results",
	GroupID: groupCore,
	Long: `Resolve a query and run the top result, or the result with --pick.

When the result drills down (for example choosing a remote to mount), the
follow-up query and its results are printed instead.

Examples:
  rcbar run unmount all --yes
  rcbar run --pick 2 copy ~/photos gdrive:backup`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runPick, "pick", "", "shortcut of the result to run (default: the top result)")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "answer yes to confirmation prompts")
}

func runRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newApp(appOptions{
		out:     out,
		confirm: stdinConfirm(cmd),
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.refresh(ctx); err != nil {
		a.logger.Warn("control API unavailable, using cached remotes", "error", err)
	}
	resp, err := a.provider.Fetch(ctx, palette.Request{Query: strings.Join(args, " ")})
	if err != nil {
		return err
	}

	r, err := pickResult(resp.Results, runPick)
	if err != nil {
		return err
	}
	outcome, err := a.provider.Execute(ctx, r)
	if err != nil {
		return err
	}
	if !outcome.Rewritten {
		return nil
	}

	fmt.Fprintf(out, "%s→ %s%s\n", colorBold, outcome.Rewrite, colorReset)
	next, err := a.provider.Fetch(ctx, palette.Request{Query: outcome.Rewrite})
	if err != nil {
		return err
	}
	writeResults(out, next.Results, outputWidth())
	return nil
}

// pickResult selects the result with shortcut key, or the first one.
func pickResult(results []toolbar.Resolved, key string) (toolbar.Resolved, error) {
	if len(results) == 0 {
		return toolbar.Resolved{}, fmt.Errorf("no results")
	}
	if key == "" {
		return results[0], nil
	}
	i, ok := toolbar.IndexForShortcut(key)
	if !ok {
		return toolbar.Resolved{}, fmt.Errorf("invalid shortcut %q", key)
	}
	if i >= len(results) {
		return toolbar.Resolved{}, fmt.Errorf("no result for shortcut %q (%d results)", key, len(results))
	}
	return results[i], nil
}

var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// stdinConfirm answers prompts from --yes or, on a terminal, from stdin.
// Without either the answer is no.
func stdinConfirm(cmd *cobra.Command) func(string) bool {
	return func(prompt string) bool {
		if runYes {
			return true
		}
		if !stdinIsTerminal() {
			return false
		}
		return promptYesNo(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt)
	}
}
