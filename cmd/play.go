package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsukinaha/tsukimi-sub001/history"
	"github.com/tsukinaha/tsukimi-sub001/key"
	"github.com/tsukinaha/tsukimi-sub001/log"
	"github.com/tsukinaha/tsukimi-sub001/mpris"
	"github.com/tsukinaha/tsukimi-sub001/player"
	"github.com/tsukinaha/tsukimi-sub001/segment"
	"github.com/tsukinaha/tsukimi-sub001/tui"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("title", "t", "", "Title shown instead of the file name")
	playCmd.Flags().DurationP("start", "s", 0, "Start position, e.g. 1m30s. Overrides the saved resume position")
	playCmd.Flags().StringArrayP("skip", "k", []string{}, "Segment to skip automatically, e.g. Opening=1:30-3:00. Repeatable")
	playCmd.Flags().Bool("no-resume", false, "Ignore and do not save the resume position")
	playCmd.Flags().StringP("alang", "a", "", "Preferred audio language")
	playCmd.Flags().StringP("slang", "l", "", "Preferred subtitle language")

	lo.Must0(viper.BindPFlag(key.PlayerAudioLanguage, playCmd.Flags().Lookup("alang")))
	lo.Must0(viper.BindPFlag(key.PlayerSubtitleLanguage, playCmd.Flags().Lookup("slang")))
}

// playCmd opens a media target in the terminal player.
var playCmd = &cobra.Command{
	Use:   "play [url]",
	Short: "Play a file or an http(s) stream",
	Long: `Play a file or an http(s) stream in the terminal player.
Without a url, pick one of the files with a saved resume position.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if viper.GetString(key.PlayerBackend) == player.BackendIPC {
			CheckDependencies()
		}

		options, err := playOptions(cmd, args)
		handleErr(err)

		b, err := player.Open()
		handleErr(err)
		b.Arm()

		var adapter *mpris.Adapter
		if viper.GetBool(key.MprisEnable) {
			if adapter, err = mpris.New(b, mpris.Media{URL: options.URL, Title: options.Title}); err != nil {
				log.Warnf("mpris disabled: %s", err)
			}
		}

		err = tui.Run(b, options)

		if adapter != nil {
			if err := adapter.Close(); err != nil {
				log.Warn(err)
			}
		}
		b.Close()
		handleErr(err)
	},
}

func playOptions(cmd *cobra.Command, args []string) (*tui.Options, error) {
	var (
		title    = lo.Must(cmd.Flags().GetString("title"))
		start    = lo.Must(cmd.Flags().GetDuration("start"))
		skips    = lo.Must(cmd.Flags().GetStringArray("skip"))
		noResume = lo.Must(cmd.Flags().GetBool("no-resume"))
	)

	var link string
	if len(args) > 0 {
		link = args[0]
	} else {
		entry, err := pickResumed()
		if err != nil {
			return nil, err
		}
		link = entry.URL
		if title == "" {
			title = entry.Title
		}
	}

	target, err := player.SanitizeTarget(link)
	if err != nil {
		return nil, err
	}

	options := &tui.Options{
		URL:              target,
		Title:            player.SanitizeTitle(title),
		StartAt:          start,
		AudioLanguage:    viper.GetString(key.PlayerAudioLanguage),
		SubtitleLanguage: viper.GetString(key.PlayerSubtitleLanguage),
		Resume:           viper.GetBool(key.PlayerResume) && !noResume,
	}

	if options.Resume && !cmd.Flags().Changed("start") {
		saved, err := history.Get(target)
		if err != nil {
			log.Warnf("resume: %s", err)
		} else if entry, ok := saved.Get(); ok {
			options.StartAt = entry.Position
			if options.Title == "" {
				options.Title = entry.Title
			}
		}
	}

	if viper.GetBool(key.PlayerSkipSegments) {
		for _, s := range skips {
			seg, err := segment.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("--skip %q: %w", s, err)
			}
			options.Segments = append(options.Segments, seg)
		}
	}

	return options, nil
}

// pickResumed asks which saved file to continue.
func pickResumed() (*history.Entry, error) {
	entries, err := history.All()
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, errors.New("no url given and nothing to resume")
	}

	labels := lo.Map(entries, func(e *history.Entry, _ int) string {
		return e.String()
	})

	var index int
	err = survey.AskOne(&survey.Select{
		Message: "Continue watching",
		Options: labels,
		Filter: func(filter, value string, _ int) bool {
			return fuzzy.MatchNormalizedFold(filter, value)
		},
	}, &index)
	if err != nil {
		return nil, err
	}

	return entries[index], nil
}
