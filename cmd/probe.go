package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tsukinaha/tsukimi-sub001/bridge"
	"github.com/tsukinaha/tsukimi-sub001/log"
	"github.com/tsukinaha/tsukimi-sub001/player"
)

// probeLine is one event written by probe.
type probeLine struct {
	Event string             `json:"event" jsonschema:"description=Event kind, e.g. duration."`
	Time  time.Time          `json:"time"`
	Data  bridge.ListenEvent `json:"data,omitempty" jsonschema:"description=Event payload. Its shape depends on the kind, see probe schema --event."`
}

// probeEvents maps event kinds to their payload types.
var probeEvents = lo.SliceToMap([]bridge.ListenEvent{
	bridge.SeekEvent{},
	bridge.PlaybackRestartEvent{},
	bridge.EndOfFileEvent{},
	bridge.StartFileEvent{},
	bridge.DurationEvent{},
	bridge.PauseEvent{},
	bridge.CacheSpeedEvent{},
	bridge.TrackListEvent{},
	bridge.VolumeEvent{},
	bridge.SpeedEvent{},
	bridge.PausedForCacheEvent{},
	bridge.ShutdownEvent{},
	bridge.DemuxerCacheTimeEvent{},
	bridge.ErrorEvent{},
}, func(ev bridge.ListenEvent) (string, bridge.ListenEvent) {
	return ev.Name(), ev
})

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().DurationP("timeout", "T", 10*time.Second, "Stop after this long even if the file did not end")
	probeCmd.Flags().BoolP("play", "p", false, "Keep playing until the end instead of stopping once the file is loaded")
}

// probeCmd loads a target headless and prints the bridge events as JSON lines.
var probeCmd = &cobra.Command{
	Use:   "probe [url]",
	Short: "Load a file and print the playback events as JSON lines",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			timeout = lo.Must(cmd.Flags().GetDuration("timeout"))
			play    = lo.Must(cmd.Flags().GetBool("play"))
		)

		target, err := player.SanitizeTarget(args[0])
		handleErr(err)

		// stdout belongs to the events
		log.SetupWriter(os.Stderr)

		b, err := player.Open()
		handleErr(err)
		b.Arm()

		b.Command(bridge.LoadFile(target, bridge.LoadReplace))
		if !play {
			b.SetProperty(bridge.PropPause, true)
		}

		err = probe(b, os.Stdout, timeout, play)
		b.Close()
		handleErr(err)
	},
}

// probe writes events until the file ends, the engine shuts down or the timeout expires.
// Unless play is set it also stops at the first playback-restart.
func probe(b *bridge.Bridge, w io.Writer, timeout time.Duration, play bool) error {
	encoder := json.NewEncoder(w)
	deadline := time.After(timeout)

	for {
		select {
		case <-b.Events().Ready():
		case <-b.Events().Done():
			return nil
		case <-deadline:
			return fmt.Errorf("no end of file after %s", timeout)
		}

		for _, ev := range b.Drain() {
			if err := encoder.Encode(probeLine{Event: ev.Name(), Time: time.Now(), Data: ev}); err != nil {
				return err
			}

			switch ev.(type) {
			case bridge.EndOfFileEvent, bridge.ShutdownEvent:
				return nil
			case bridge.PlaybackRestartEvent:
				if !play {
					return nil
				}
			}
		}
	}
}

func init() {
	probeCmd.AddCommand(probeSchemaCmd)

	probeSchemaCmd.Flags().StringP("event", "e", "", "Generate the schema of one event payload instead of the line")
	lo.Must0(probeSchemaCmd.RegisterFlagCompletionFunc("event", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		names := lo.Keys(probeEvents)
		sort.Strings(names)
		return names, cobra.ShellCompDirectiveNoFileComp
	}))
}

// probeSchemaCmd generates JSON schemas for probe output.
var probeSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schemas for probe output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		schema, err := probeSchema(lo.Must(cmd.Flags().GetString("event")))
		handleErr(err)
		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}

func probeSchema(event string) (*jsonschema.Schema, error) {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		return t.Name()
	}

	if event == "" {
		return reflector.Reflect(&probeLine{}), nil
	}

	ev, ok := probeEvents[event]
	if !ok {
		return nil, fmt.Errorf("unknown event %q", event)
	}
	return reflector.Reflect(ev), nil
}
