package session

import (
	"time"

	"github.com/spf13/viper"
	"github.com/tvzap/tvzap/config"
	"github.com/tvzap/tvzap/key"
)

// Options tunes the controller's timers and input policy.
type Options struct {
	ControlsTimeout  time.Duration
	LoadTimeout      time.Duration
	ProgressInterval time.Duration
	NumberTimeout    time.Duration
	SeekStep         time.Duration
	NumberMaxDigits  int

	// AudioFirstTrack selects the lowest-index audio track whenever playback (re)starts.
	AudioFirstTrack bool
}

// DefaultOptions mirrors the registered configuration defaults.
func DefaultOptions() Options {
	return Options{
		ControlsTimeout:  5 * time.Second,
		LoadTimeout:      10 * time.Second,
		ProgressInterval: time.Second,
		NumberTimeout:    2 * time.Second,
		SeekStep:         5 * time.Second,
		NumberMaxDigits:  4,
		AudioFirstTrack:  true,
	}
}

// OptionsFromConfig reads the player.* keys.
func OptionsFromConfig() Options {
	return Options{
		ControlsTimeout:  config.Duration(key.PlayerControlsTimeout),
		LoadTimeout:      config.Duration(key.PlayerLoadTimeout),
		ProgressInterval: config.Duration(key.PlayerProgressInterval),
		NumberTimeout:    config.Duration(key.PlayerNumberTimeout),
		SeekStep:         config.Duration(key.PlayerSeekStep),
		NumberMaxDigits:  viper.GetInt(key.PlayerNumberMaxDigits),
		AudioFirstTrack:  viper.GetBool(key.PlayerAudioFirstTrack),
	}
}

// withDefaults fills zero durations and limits. AudioFirstTrack is taken as given.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ControlsTimeout <= 0 {
		o.ControlsTimeout = d.ControlsTimeout
	}
	if o.LoadTimeout <= 0 {
		o.LoadTimeout = d.LoadTimeout
	}
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = d.ProgressInterval
	}
	if o.NumberTimeout <= 0 {
		o.NumberTimeout = d.NumberTimeout
	}
	if o.SeekStep <= 0 {
		o.SeekStep = d.SeekStep
	}
	if o.NumberMaxDigits <= 0 {
		o.NumberMaxDigits = d.NumberMaxDigits
	}
	return o
}
