package bridge

import (
	"strconv"
	"strings"
	"time"

	"github.com/tsukinaha/tsukimi-sub001/engine"
)

// Property names an engine property.
type Property string

const (
	PropPause            Property = "pause"
	PropVolume           Property = "volume"
	PropSpeed            Property = "speed"
	PropMute             Property = "mute"
	PropTimePos          Property = "time-pos"
	PropDuration         Property = "duration"
	PropPath             Property = "path"
	PropMediaTitle       Property = "force-media-title"
	PropAid              Property = "aid"
	PropSid              Property = "sid"
	PropChapterList      Property = "chapter-list"
	PropTrackList        Property = "track-list"
	PropHwdec            Property = "hwdec"
	PropCacheSpeed       Property = "cache-speed"
	PropPausedForCache   Property = "paused-for-cache"
	PropDemuxerCacheTime Property = "demuxer-cache-time"
)

// LoadMode selects how loadfile treats the current playlist.
type LoadMode string

const (
	LoadReplace    LoadMode = "replace"
	LoadAppend     LoadMode = "append"
	LoadAppendPlay LoadMode = "append-play"
	LoadInsertNext LoadMode = "insert-next"
)

// SeekMode selects how a seek target is interpreted.
type SeekMode string

const (
	SeekRelative        SeekMode = "relative"
	SeekAbsolute        SeekMode = "absolute"
	SeekAbsolutePercent SeekMode = "absolute-percent"
)

// Command is a typed engine command. Args renders it into the engine's string protocol.
type Command struct {
	name string
	args []string
}

// Name returns the command name.
func (c Command) Name() string { return c.name }

// Args returns the wire form: the name followed by its string arguments.
func (c Command) Args() []string {
	return append([]string{c.name}, c.args...)
}

// String returns the command as a single line.
func (c Command) String() string {
	return strings.Join(c.Args(), " ")
}

// LoadFile loads url. Options are key=value pairs such as "start=42".
func LoadFile(url string, mode LoadMode, options ...string) Command {
	args := []string{url, string(mode)}
	if len(options) > 0 {
		// loadfile <url> <flags> <index> <options> since mpv 0.38
		args = append(args, "-1", strings.Join(options, ","))
	}
	return Command{name: "loadfile", args: args}
}

// Seek moves the playback position.
func Seek(seconds float64, mode SeekMode) Command {
	return Command{name: "seek", args: []string{strconv.FormatFloat(seconds, 'f', 3, 64), string(mode)}}
}

// Stop stops playback and clears the playlist.
func Stop() Command {
	return Command{name: "stop"}
}

// CyclePause toggles the pause property.
func CyclePause() Command {
	return Command{name: "cycle", args: []string{string(PropPause)}}
}

// ShowText displays an OSD message.
func ShowText(text string, d time.Duration) Command {
	return Command{name: "show-text", args: []string{text, strconv.FormatInt(d.Milliseconds(), 10)}}
}

// Quit shuts the engine down.
func Quit() Command {
	return Command{name: "quit"}
}

// RawCommand builds an untyped command.
func RawCommand(name string, args ...string) Command {
	return Command{name: name, args: args}
}

// FormatOf infers the engine format for a Go value.
func FormatOf(value any) engine.Format {
	switch value.(type) {
	case bool:
		return engine.FormatFlag
	case int, int32, int64:
		return engine.FormatInt64
	case float32, float64:
		return engine.FormatDouble
	case string:
		return engine.FormatString
	default:
		return engine.FormatNode
	}
}

// normalize widens numeric values to the types engine formats expect.
func normalize(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}
