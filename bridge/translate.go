package bridge

import (
	"github.com/tsukinaha/tsukimi-sub001/engine"
)

// observation is a property the listener subscribes to, with the payload format it expects.
type observation struct {
	name   string
	format engine.Format
}

// observations are registered once, in this order; the index+1 is the reply id.
var observations = []observation{
	{"duration", engine.FormatDouble},
	{"pause", engine.FormatFlag},
	{"cache-speed", engine.FormatInt64},
	{"track-list", engine.FormatNode},
	{"paused-for-cache", engine.FormatFlag},
	{"demuxer-cache-time", engine.FormatInt64},
	{"volume", engine.FormatInt64},
	{"speed", engine.FormatDouble},
}

// Translate maps a native event to a ListenEvent.
// It reports false for events the GUI has no use for and for payloads that do not match the property schema.
func Translate(ev engine.Event) (ListenEvent, bool) {
	switch ev.ID {
	case engine.EventSeek:
		return SeekEvent{}, true
	case engine.EventPlaybackRestart:
		return PlaybackRestartEvent{}, true
	case engine.EventEndFile:
		return EndOfFileEvent{Reason: ev.Reason}, true
	case engine.EventStartFile:
		return StartFileEvent{}, true
	case engine.EventShutdown:
		return ShutdownEvent{}, true
	case engine.EventQueueOverflow:
		return ErrorEvent{Message: "engine event queue overflow"}, true
	case engine.EventPropertyChange:
		return translateProperty(ev.Name, ev.Data)
	default:
		return nil, false
	}
}

func translateProperty(name string, data any) (ListenEvent, bool) {
	switch name {
	case "duration":
		if v, ok := data.(float64); ok {
			return DurationEvent{Seconds: v}, true
		}
	case "pause":
		if v, ok := data.(bool); ok {
			return PauseEvent{Paused: v}, true
		}
	case "cache-speed":
		if v, ok := data.(int64); ok {
			return CacheSpeedEvent{BytesPerSecond: v}, true
		}
	case "track-list":
		if tracks, ok := ParseTracks(data); ok {
			return TrackListEvent{Tracks: tracks}, true
		}
	case "volume":
		if v, ok := data.(int64); ok {
			return VolumeEvent{Level: v}, true
		}
	case "speed":
		if v, ok := data.(float64); ok {
			return SpeedEvent{Factor: v}, true
		}
	case "paused-for-cache":
		if v, ok := data.(bool); ok {
			return PausedForCacheEvent{Paused: v}, true
		}
	case "demuxer-cache-time":
		if v, ok := data.(int64); ok {
			return DemuxerCacheTimeEvent{Seconds: v}, true
		}
	}

	return nil, false
}
