//go:build !linux

package mpris

import "github.com/tsukinaha/tsukimi-sub001/bridge"

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

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ Player, _ Media) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
