// Package player opens the playback engine selected in the configuration and wraps it in a bridge.
package player

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/tsukinaha/tsukimi-sub001/bridge"
	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/engine/ipc"
	"github.com/tsukinaha/tsukimi-sub001/engine/libmpv"
	"github.com/tsukinaha/tsukimi-sub001/key"
	"github.com/tsukinaha/tsukimi-sub001/log"
	"github.com/tsukinaha/tsukimi-sub001/where"
)

// Backend names accepted by player.backend.
const (
	BackendIPC    = "ipc"
	BackendLibmpv = "libmpv"
)

// Open creates the configured engine, wraps it in a bridge and starts the listener.
// The bridge is returned disarmed.
func Open() (*bridge.Bridge, error) {
	backend := viper.GetString(key.PlayerBackend)

	eng, err := NewEngine(backend)
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", backend, err)
	}

	b := bridge.New(eng, BridgeOptions())
	if err := b.Start(); err != nil {
		b.Close()
		return nil, err
	}

	log.Infof("playback bridge started on the %s backend", backend)
	return b, nil
}

// NewEngine creates an engine for backend.
func NewEngine(backend string) (engine.Engine, error) {
	switch backend {
	case BackendLibmpv:
		return libmpv.New(EngineOptions())
	case BackendIPC, "":
		e, err := ipc.Launch(ipc.LaunchOptions{
			Path:      viper.GetString(key.PlayerMpvPath),
			SocketDir: where.Sockets(),
			Options:   EngineOptions(),
		})
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown player backend %q", backend)
	}
}

// EngineOptions are set on the engine before anything is loaded.
func EngineOptions() map[string]string {
	options := map[string]string{
		"volume": strconv.Itoa(viper.GetInt(key.PlayerVolume)),
	}
	if hwdec := viper.GetString(key.PlayerHwdec); hwdec != "" {
		options["hwdec"] = hwdec
	}
	return options
}

// BridgeOptions reads the bridge tuning from the configuration.
func BridgeOptions() bridge.Options {
	return bridge.Options{
		PollTimeout:         time.Duration(viper.GetInt(key.PlayerPollTimeoutMs)) * time.Millisecond,
		ReportCommandErrors: viper.GetBool(key.PlayerReportCommandErrors),
	}
}
