// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/tsukinaha/tsukimi-sub001/constant"
	"github.com/tsukinaha/tsukimi-sub001/filesystem"
	"github.com/tsukinaha/tsukimi-sub001/where"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Backends lists the accepted values of player.backend.
var Backends = []string{"ipc", "libmpv"}

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	// Synchronize environment variable bindings.
	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	// Initialize factory default values.
	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return Validate()
}

// Validate checks values that would otherwise only fail once playback starts.
func Validate() error {
	keys := lo.Keys(Default)
	sort.Strings(keys)

	for _, k := range keys {
		field := Default[k]
		if err := field.Check(); err != nil {
			return err
		}
	}

	return nil
}
