// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/tsukinaha/tsukimi-sub001/color"
	"github.com/tsukinaha/tsukimi-sub001/constant"
	"github.com/tsukinaha/tsukimi-sub001/icon"
	"github.com/tsukinaha/tsukimi-sub001/key"
	"github.com/tsukinaha/tsukimi-sub001/style"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string

	// Options lists the accepted values of an enumerated field.
	Options []string

	// bounds limits an integer field, inclusive.
	bounds *[2]int
}

// fieldOption refines a field at registration.
type fieldOption func(*Field)

func oneOf(values ...string) fieldOption {
	return func(f *Field) {
		f.Options = values
	}
}

func between(low, high int) fieldOption {
	return func(f *Field) {
		f.bounds = &[2]int{low, high}
	}
}

// Check validates the current value of the field.
func (f *Field) Check() error {
	if len(f.Options) > 0 {
		if v := viper.GetString(f.Key); !lo.Contains(f.Options, v) {
			return fmt.Errorf("%s: %q is not one of %s", f.Key, v, strings.Join(f.Options, ", "))
		}
	}

	if f.bounds != nil {
		if v := viper.GetInt(f.Key); v < f.bounds[0] || v > f.bounds[1] {
			return fmt.Errorf("%s: must be between %d and %d, got %d", f.Key, f.bounds[0], f.bounds[1], v)
		}
	}

	return nil
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.App + "_" + EnvKeyReplacer.Replace(f.Key))
}

// MarshalJSON includes the current value next to the default.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string   `json:"key"`
		Value       any      `json:"value"`
		Default     any      `json:"default"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Options     []string `json:"options,omitempty"`
		Env         string   `json:"env"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        reflect.TypeOf(f.Value).String(),
		Options:     f.Options,
		Env:         f.Env(),
	})
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func register(k string, v any, desc string, options ...fieldOption) {
	if _, exists := Default[k]; exists {
		panic("Duplicate config key: " + k)
	}

	f := Field{Key: k, Value: v, Description: desc}
	for _, option := range options {
		option(&f)
	}

	Default[k] = f
	EnvExposed = append(EnvExposed, k)
}

func init() {
	register(key.PlayerBackend, "ipc", "Playback engine backend.\nipc runs an external mpv process, libmpv embeds it and needs a libmpv build", oneOf(Backends...))
	register(key.PlayerMpvPath, "mpv", "Path to the mpv executable used by the ipc backend")
	register(key.PlayerPollTimeoutMs, 1000, "How long the event listener waits for an engine event before re-checking its gate, in milliseconds", between(10, 60_000))
	register(key.PlayerReportCommandErrors, false, "Show failed player commands as errors instead of only logging them")
	register(key.PlayerHwdec, "auto-safe", "Hardware decoding mode passed to mpv")
	register(key.PlayerVolume, 100, "Initial volume", between(0, 130))
	register(key.PlayerAudioLanguage, "", "Preferred audio language or track title, e.g. jpn.\nLeave empty to keep the engine's choice")
	register(key.PlayerSubtitleLanguage, "", "Preferred subtitle language or track title, e.g. eng")
	register(key.PlayerResume, true, "Resume files from the last saved position")
	register(key.PlayerSkipSegments, true, "Skip the segments passed with --skip")
	register(key.IconsVariant, "plain", "Icons variant. nerd needs a nerd font", oneOf(icon.AvailableVariants()...))
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Log level, from less to most verbose", oneOf("panic", "fatal", "error", "warn", "info", "debug", "trace"))
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
	register(key.MprisEnable, true, "Expose playback over MPRIS (Linux desktop media keys)")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"join":     strings.Join,
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			if value == "" {
				return style.Faint(`""`)
			}
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl .Value }}
{{ blue "Type:" }}    {{ typename .Value }}{{ if .Options }}
{{ blue "Options:" }} {{ join .Options ", " }}{{ end }}`))
