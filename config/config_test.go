package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tvzap/tvzap/filesystem"
	"github.com/tvzap/tvzap/key"
)

func TestSetup(t *testing.T) {
	filesystem.SetMemMapFs()

	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("player.load_timeout")
			So(result, ShouldEqual, "player_load_timeout")
		})

		Convey("Field.Env should carry the application prefix", func() {
			field := Default[key.PlayerLoadTimeout]
			So(field.Env(), ShouldEqual, "TVZAP_PLAYER_LOAD_TIMEOUT")
		})
	})
}

func TestDuration(t *testing.T) {
	filesystem.SetMemMapFs()

	Convey("Given the configuration defaults", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("A default duration is parsed", func() {
			So(Duration(key.PlayerLoadTimeout), ShouldEqual, 10*time.Second)
		})

		Convey("An overridden duration wins", func() {
			viper.Set(key.PlayerNumberTimeout, "1500ms")
			So(Duration(key.PlayerNumberTimeout), ShouldEqual, 1500*time.Millisecond)
			viper.Set(key.PlayerNumberTimeout, Default[key.PlayerNumberTimeout].Value)
		})

		Convey("Garbage falls back to the default", func() {
			viper.Set(key.PlayerSeekStep, "soon")
			So(Duration(key.PlayerSeekStep), ShouldEqual, 5*time.Second)
			viper.Set(key.PlayerSeekStep, "-3s")
			So(Duration(key.PlayerSeekStep), ShouldEqual, 5*time.Second)
			viper.Set(key.PlayerSeekStep, Default[key.PlayerSeekStep].Value)
		})

		Convey("Unknown keys yield zero", func() {
			So(Duration("player.nope"), ShouldEqual, time.Duration(0))
		})
	})
}

func TestFields(t *testing.T) {
	Convey("Given the registered fields", t, func() {
		Convey("Every field is indexed and bound to the environment", func() {
			So(Default, ShouldHaveLength, len(Fields()))
			So(EnvExposed, ShouldHaveLength, len(Fields()))
		})

		Convey("Types are inferred from defaults", func() {
			types := map[string]string{
				key.PlayerLoadTimeout:     "duration",
				key.PlayerNumberMaxDigits: "int",
				key.PlayerResume:          "bool",
				key.PlayerEngine:          "string",
				key.CatalogPath:           "string",
			}
			for k, want := range types {
				field := Default[k]
				So(field.Type(), ShouldEqual, want)
			}
		})

		Convey("Fields returns a copy", func() {
			list := Fields()
			list[0].Value = "changed"
			So(Fields()[0].Value, ShouldNotEqual, "changed")
		})

		Convey("JSON output carries type and environment name", func() {
			field := Default[key.PlayerSeekStep]
			data, err := field.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"type":"duration"`)
			So(string(data), ShouldContainSubstring, `"env":"TVZAP_PLAYER_SEEK_STEP"`)
		})
	})
}
