// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Catalog - these keys locate the channel list fed into playback sessions.
const (
	CatalogPath = "catalog.path"
)

// Playback Session - these keys tune the timers and input policy of the session controller.
const (
	PlayerEngine           = "player.engine"
	PlayerMPVPath          = "player.mpv_path"
	PlayerControlsTimeout  = "player.controls_timeout"
	PlayerLoadTimeout      = "player.load_timeout"
	PlayerProgressInterval = "player.progress_interval"
	PlayerNumberTimeout    = "player.number_timeout"
	PlayerNumberMaxDigits  = "player.number_max_digits"
	PlayerSeekStep         = "player.seek_step"
	PlayerAudioFirstTrack  = "player.audio_first_track"
	PlayerResume           = "player.resume"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Metrics - these keys expose session counters to a Prometheus scraper.
const (
	MetricsAddress = "metrics.address"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
