package bridge

import "github.com/tsukinaha/tsukimi-sub001/engine"

// ListenEvent is a translated engine notification delivered to the GUI loop.
//
// Events are produced only by the listener and consumed exactly once.
// Events of different kinds keep their production order, but carry no ordering
// guarantee relative to commands dispatched concurrently.
type ListenEvent interface {
	// Name returns the event kind, e.g. "duration".
	Name() string
}

// SeekEvent is emitted when a seek starts.
type SeekEvent struct{}

// PlaybackRestartEvent is emitted when playback resumes after loading or seeking.
type PlaybackRestartEvent struct{}

// EndOfFileEvent is emitted when playback of a file ends.
type EndOfFileEvent struct {
	Reason engine.EndFileReason `json:"reason" jsonschema:"description=End-of-file reason code: 0 eof, 1 stop, 2 quit, 3 error, 4 redirect."`
}

// StartFileEvent is emitted when a file starts loading.
type StartFileEvent struct{}

// DurationEvent carries the duration of the loaded file.
type DurationEvent struct {
	Seconds float64 `json:"seconds" jsonschema:"description=Duration of the current file in seconds."`
}

// PauseEvent carries the user pause state.
type PauseEvent struct {
	Paused bool `json:"paused"`
}

// CacheSpeedEvent carries the network cache fill speed.
type CacheSpeedEvent struct {
	BytesPerSecond int64 `json:"bytes_per_second"`
}

// TrackListEvent carries a complete track snapshot.
type TrackListEvent struct {
	Tracks Tracks `json:"tracks"`
}

// VolumeEvent carries the volume level (0-100, may exceed 100 with volume boost).
type VolumeEvent struct {
	Level int64 `json:"level"`
}

// SpeedEvent carries the playback speed factor.
type SpeedEvent struct {
	Factor float64 `json:"factor"`
}

// PausedForCacheEvent reports whether playback stalled waiting for the cache.
type PausedForCacheEvent struct {
	Paused bool `json:"paused"`
}

// ShutdownEvent is emitted when the engine shuts down.
type ShutdownEvent struct{}

// DemuxerCacheTimeEvent carries how far ahead the demuxer has buffered, in seconds.
type DemuxerCacheTimeEvent struct {
	Seconds int64 `json:"seconds"`
}

// ErrorEvent reports an engine or bridge failure.
type ErrorEvent struct {
	Message string `json:"message"`
}

func (SeekEvent) Name() string             { return "seek" }
func (PlaybackRestartEvent) Name() string  { return "playback-restart" }
func (EndOfFileEvent) Name() string        { return "end-file" }
func (StartFileEvent) Name() string        { return "start-file" }
func (DurationEvent) Name() string         { return "duration" }
func (PauseEvent) Name() string            { return "pause" }
func (CacheSpeedEvent) Name() string       { return "cache-speed" }
func (TrackListEvent) Name() string        { return "track-list" }
func (VolumeEvent) Name() string           { return "volume" }
func (SpeedEvent) Name() string            { return "speed" }
func (PausedForCacheEvent) Name() string   { return "paused-for-cache" }
func (ShutdownEvent) Name() string         { return "shutdown" }
func (DemuxerCacheTimeEvent) Name() string { return "demuxer-cache-time" }
func (ErrorEvent) Name() string            { return "error" }
