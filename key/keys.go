// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount is the number of registered configuration fields.
const DefinedFieldsCount = 17

// Playback Engine - these keys select and tune the mpv backend driven by the bridge.
const (
	PlayerBackend             = "player.backend"
	PlayerMpvPath             = "player.mpv_path"
	PlayerPollTimeoutMs       = "player.poll_timeout_ms"
	PlayerReportCommandErrors = "player.report_command_errors"
	PlayerHwdec               = "player.hwdec"
)

// Playback Preferences - these keys are applied to every loaded file.
const (
	PlayerVolume           = "player.volume"
	PlayerAudioLanguage    = "player.audio_language"
	PlayerSubtitleLanguage = "player.subtitle_language"
	PlayerResume           = "player.resume"
	PlayerSkipSegments     = "player.skip_segments"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)

// Desktop Integration - these keys expose playback to the desktop session.
const (
	MprisEnable = "mpris.enable"
)
