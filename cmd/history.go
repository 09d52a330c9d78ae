package cmd

import (
	"encoding/json"
	"time"

	"github.com/pf-cli/pf/color"
	"github.com/pf-cli/pf/history"
	"github.com/pf-cli/pf/icon"
	"github.com/pf-cli/pf/style"
	"github.com/pf-cli/pf/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Print runs as JSON")
	historyCmd.Flags().StringP("site", "s", "", "Only show runs of this site")
	historyCmd.Flags().IntP("limit", "n", 20, "Show at most this many runs, 0 for all")

	historyCmd.AddCommand(historyClearCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous crawls",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runs, err := history.List()
		handleErr(err)

		if site := lo.Must(cmd.Flags().GetString("site")); site != "" {
			site = history.Normalize(site)
			runs = lo.Filter(runs, func(r *history.Run, _ int) bool {
				return r.Site == site
			})
		}

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(runs) > limit {
			runs = runs[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			handleErr(enc.Encode(runs))
			return
		}

		if len(runs) == 0 {
			cmd.Println(style.Faint("No runs recorded yet"))
			return
		}

		for _, r := range runs {
			cmd.Printf(
				"%s %s %s %s\n",
				style.Faint(r.FinishedAt.Local().Format(time.DateTime)),
				style.Fg(color.Purple)(r.Site),
				style.Fg(color.Yellow)(r.Mode),
				style.Success(util.Quantify(r.Count, "video", "videos")),
			)
		}
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every recorded run",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(history.Clear())
		cmd.Printf("%s history cleared\n", style.Success(icon.Get(icon.Success)))
	},
}
