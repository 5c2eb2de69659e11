//go:build !libmpv

// Package libmpv runs mpv in-process through libmpv.
// This build has no libmpv; rebuild with -tags libmpv.
package libmpv

import (
	"errors"

	"github.com/tsukinaha/tsukimi-sub001/engine"
)

// Available reports whether this binary was built with libmpv.
const Available = false

// ErrUnavailable is returned by New in builds without libmpv.
var ErrUnavailable = errors.New("built without libmpv, rebuild with -tags libmpv")

// New always fails in this build.
func New(map[string]string) (engine.Engine, error) {
	return nil, ErrUnavailable
}
