package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"

	"github.com/tsukinaha/tsukimi-sub001/color"
	"github.com/tsukinaha/tsukimi-sub001/style"
	"github.com/tsukinaha/tsukimi-sub001/where"
)

// whereTarget is a path printed by where.
type whereTarget struct {
	name     string
	where    func() string
	argLong  string
	argShort mo.Option[string]
	// hidden targets are only printed when asked for
	hidden bool
}

var wherePaths = []whereTarget{
	{"Config", where.Config, "config", mo.Some("c"), false},
	{"Logs", where.Logs, "logs", mo.Some("l"), false},
	{"Cache", where.Cache, "cache", mo.Some("C"), false},
	{"Resume", where.Resume, "resume", mo.None[string](), true},
	{"Sockets", where.Sockets, "sockets", mo.None[string](), true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, target := range wherePaths {
		help := target.name + " path"
		if short, ok := target.argShort.Get(); ok {
			whereCmd.Flags().BoolP(target.argLong, short, false, help)
		} else {
			whereCmd.Flags().Bool(target.argLong, false, help)
		}

		if target.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(target.argLong))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(wherePaths, func(t whereTarget, _ int) string {
		return t.argLong
	})...)
}

// whereCmd prints the paths tsukimi reads and writes.
var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print the paths tsukimi reads and writes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		if target, ok := lo.Find(wherePaths, func(t whereTarget) bool {
			return lo.Must(cmd.Flags().GetBool(t.argLong))
		}); ok {
			fmt.Fprintln(out, target.where())
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(wherePaths, func(t whereTarget, _ int) bool {
			return t.hidden
		})

		for i, target := range visible {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s %s\n%s\n", header(target.name+"?"), style.Fg(color.Yellow)("--"+target.argLong), target.where())
		}
	},
}
