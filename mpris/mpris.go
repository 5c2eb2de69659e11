//go:build linux

// Package mpris exposes the playback bridge to the desktop over D-Bus, so media keys and
// shell widgets can pause, seek and show the current position.
package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/tsukinaha/tsukimi-sub001/bridge"
	"github.com/tsukinaha/tsukimi-sub001/constant"
	"github.com/tsukinaha/tsukimi-sub001/log"
	"github.com/tsukinaha/tsukimi-sub001/util"
)

const (
	minRate = 0.25
	maxRate = 4.0
)

// Player is the part of the bridge the adapter drives.
type Player interface {
	Command(cmd bridge.Command)
	SetProperty(prop bridge.Property, value any)
	Model() *bridge.Model
	Clock() *bridge.Clock
}

// Media describes what is playing.
type Media struct {
	URL   string
	Title string
}

// Adapter connects the bridge to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(player Player, media Media) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer(constant.App, &rootAdapter{}, &playerAdapter{player: player, media: media}),
	}

	go func() {
		if err := a.server.Listen(); err != nil {
			log.Warnf("mpris: %s", err)
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil
}

func (r *rootAdapter) Quit() error {
	return nil
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Tsukimi", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"video/mp4", "video/x-matroska", "video/webm", "application/x-mpegurl"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter on top of the bridge.
// Every control is a fire-and-forget dispatch; D-Bus callers never wait on the engine.
type playerAdapter struct {
	player Player
	media  Media
}

func (p *playerAdapter) Next() error {
	return nil
}

func (p *playerAdapter) Previous() error {
	return nil
}

func (p *playerAdapter) Pause() error {
	p.player.SetProperty(bridge.PropPause, true)
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.player.Command(bridge.CyclePause())
	return nil
}

func (p *playerAdapter) Stop() error {
	p.player.Command(bridge.Stop())
	return nil
}

func (p *playerAdapter) Play() error {
	p.player.SetProperty(bridge.PropPause, false)
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	d := time.Duration(offset) * time.Microsecond
	p.player.Command(bridge.Seek(d.Seconds(), bridge.SeekRelative))
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	d := time.Duration(position) * time.Microsecond
	p.player.Command(bridge.Seek(d.Seconds(), bridge.SeekAbsolute))
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	s := p.player.Model().Snapshot()
	switch {
	case !s.Loaded:
		return types.PlaybackStatusStopped, nil
	case s.Paused:
		return types.PlaybackStatusPaused, nil
	default:
		return types.PlaybackStatusPlaying, nil
	}
}

func (p *playerAdapter) Rate() (float64, error) {
	return p.player.Model().Snapshot().Speed, nil
}

func (p *playerAdapter) SetRate(rate float64) error {
	p.player.SetProperty(bridge.PropSpeed, util.Clamp(rate, minRate, maxRate))
	return nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	s := p.player.Model().Snapshot()
	if !s.Loaded {
		return types.Metadata{}, nil
	}

	title := p.media.Title
	if title == "" {
		title = util.FileStem(p.media.URL)
	}

	return types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(p.media.URL)),
		Length:  types.Microseconds(s.Duration.OrEmpty().Microseconds()),
		Title:   title,
	}, nil
}

// Volume maps the engine's 0-100 scale onto MPRIS' 0.0-1.0.
func (p *playerAdapter) Volume() (float64, error) {
	return float64(p.player.Model().Snapshot().Volume) / 100, nil
}

func (p *playerAdapter) SetVolume(volume float64) error {
	p.player.SetProperty(bridge.PropVolume, int64(util.Clamp(volume, 0, 1.3)*100))
	return nil
}

// Position asks the clock; the engine never reports time-pos as an event.
func (p *playerAdapter) Position() (int64, error) {
	pos, err := p.player.Clock().Now()
	if err != nil {
		pos = p.player.Clock().Cached()
	}
	return pos.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return minRate, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return maxRate, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.player.Model().Snapshot().Loaded, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.player.Model().Snapshot().Duration.IsPresent(), nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(url string) string {
	h := fnv.New64a()
	h.Write([]byte(url))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
