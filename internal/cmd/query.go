package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/runger/rcbar/internal/palette"
	"github.com/runger/rcbar/internal/toolbar"
)

var (
	queryJSON    bool
	queryLimit   int
	queryActions bool
)

var queryCmd = &cobra.Command{
	Use:     "query <text...>",
	Short:   "Resolve a query and print the ranked results",
	GroupID: groupCore,
	Long: `Resolve a query once, the way the palette would, and print the results.

Each line shows the shortcut, the score, the label and the description.

Examples:
  rcbar query copy ~/photos gdrive:backup
  rcbar query --json mount gdrive:
  rcbar query ""                  # results for an empty palette
  rcbar query --actions           # every action the palette knows`,
	Args: cobra.ArbitraryArgs,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print results as JSON")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "maximum number of results (0 for all)")
	queryCmd.Flags().BoolVar(&queryActions, "actions", false, "list the action catalog instead of resolving")
}

// queryResult is the JSON form of one resolved result.
type queryResult struct {
	ID          string            `json:"id"`
	Action      string            `json:"action"`
	Label       string            `json:"label"`
	Description string            `json:"description,omitempty"`
	Args        map[string]string `json:"args,omitempty"`
	Score       int               `json:"score"`
	Shortcut    string            `json:"shortcut,omitempty"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	a, err := newApp(appOptions{out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	defer a.Close()

	if queryActions {
		writeActions(cmd.OutOrStdout(), a.engine.Catalog().All())
		return nil
	}
	if err := a.refresh(cmd.Context()); err != nil {
		a.logger.Warn("control API unavailable, using cached remotes", "error", err)
	}
	resp, err := a.provider.Fetch(cmd.Context(), palette.Request{
		Query: strings.Join(args, " "),
		Limit: queryLimit,
	})
	if err != nil {
		return err
	}
	if queryJSON {
		return writeResultsJSON(cmd.OutOrStdout(), resp.Results)
	}
	writeResults(cmd.OutOrStdout(), resp.Results, outputWidth())
	return nil
}

func writeResultsJSON(w io.Writer, results []toolbar.Resolved) error {
	out := make([]queryResult, 0, len(results))
	for _, r := range results {
		out = append(out, queryResult{
			ID:          r.ID,
			Action:      r.ActionID,
			Label:       r.Label,
			Description: r.Description,
			Args:        r.Args,
			Score:       r.Score,
			Shortcut:    r.Shortcut,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeActions prints one line per catalog action in registration order.
func writeActions(w io.Writer, actions []toolbar.Action) {
	width := 0
	for _, act := range actions {
		width = max(width, len(act.ID()))
	}
	for _, act := range actions {
		fmt.Fprintf(w, "%s%-*s%s  %s  %s%s%s\n", colorCyan, width, act.ID(), colorReset,
			act.Label(), colorDim, strings.Join(act.Keywords(), ", "), colorReset)
	}
}

// writeResults prints one line per result. A positive width shortens the
// description so each line fits.
func writeResults(w io.Writer, results []toolbar.Resolved, width int) {
	if len(results) == 0 {
		fmt.Fprintf(w, "%sNo matches%s\n", colorDim, colorReset)
		return
	}
	for _, r := range results {
		sc := r.Shortcut
		if sc == "" {
			sc = "-"
		}
		label := palette.Sanitize(r.Label)
		fmt.Fprintf(w, "%s%s%s %4d  %s", colorCyan, sc, colorReset, r.Score, label)

		desc := palette.Sanitize(r.Description)
		if width > 0 && desc != "" {
			// shortcut, score and the two gaps
			used := 1 + 1 + 4 + 2 + runewidth.StringWidth(label) + 2
			desc = palette.MiddleTruncate(desc, width-used)
		}
		if desc != "" {
			fmt.Fprintf(w, "  %s%s%s", colorDim, desc, colorReset)
		}
		fmt.Fprintln(w)
	}
}
