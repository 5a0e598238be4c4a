// Package config registers tvzap's settings with viper and reads them from
// tvzap.toml in the config directory, overridable through TVZAP_* variables.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tvzap/tvzap/constant"
	"github.com/tvzap/tvzap/filesystem"
	"github.com/tvzap/tvzap/log"
	"github.com/tvzap/tvzap/where"
)

// EnvKeyReplacer maps player.load_timeout to PLAYER_LOAD_TIMEOUT.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads defaults, environment and the config file, in rising priority.
// A missing config file is not an error.
func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	viper.SetTypeByDefaultValue(true)
	for _, f := range fields {
		viper.SetDefault(f.Key, f.Value)
	}

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, k := range EnvExposed {
		viper.MustBindEnv(k)
	}

	err := viper.ReadInConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return nil
	}
	return err
}

// Duration reads a duration-typed key. Unparsable or non-positive values fall back to the registered default.
func Duration(k string) time.Duration {
	if d, err := time.ParseDuration(viper.GetString(k)); err == nil && d > 0 {
		return d
	}

	field, ok := Default[k]
	if !ok {
		return 0
	}

	s, _ := field.Value.(string)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}

	log.Warnf("invalid duration for %s, using default %s", k, d)
	return d
}
