package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tsukinaha/tsukimi-sub001/color"
	"github.com/tsukinaha/tsukimi-sub001/history"
	"github.com/tsukinaha/tsukimi-sub001/icon"
	"github.com/tsukinaha/tsukimi-sub001/style"
	"github.com/tsukinaha/tsukimi-sub001/util"
)

func init() {
	rootCmd.AddCommand(resumeCmd)

	resumeCmd.Flags().StringP("forget", "f", "", "Forget the saved position of a url")
	lo.Must0(resumeCmd.RegisterFlagCompletionFunc("forget", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		entries, err := history.All()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return lo.Map(entries, func(e *history.Entry, _ int) string {
			return e.URL
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

// resumeCmd lists saved playback positions.
var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "List saved playback positions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if url := lo.Must(cmd.Flags().GetString("forget")); url != "" {
			handleErr(history.Forget(url))
			fmt.Printf("%s forgot %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), url)
			return
		}

		entries, err := history.All()
		handleErr(err)

		if len(entries) == 0 {
			fmt.Println(style.Faint("nothing to resume"))
			return
		}

		for _, e := range entries {
			fmt.Printf(
				"%s %s %s\n  %s\n",
				style.Fg(color.Purple)(e.String()),
				style.Fg(color.Yellow)(fmt.Sprintf("%.0f%%", e.Percentage())),
				style.Faint(humanize.Time(e.UpdatedAt)),
				style.Faint(util.FileStem(e.URL)),
			)
		}
	},
}
