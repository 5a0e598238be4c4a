package log

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tvzap/tvzap/filesystem"
	"github.com/tvzap/tvzap/key"
	"github.com/tvzap/tvzap/where"
)

func TestSetup(t *testing.T) {
	Convey("Given a memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		Reset(func() {
			viper.Reset()
			logger = newDiscarding()
			filesystem.SetOsFs()
		})

		today := filepath.Join(where.Logs(), FileName(time.Now()))

		Convey("With logs.write off nothing is written", func() {
			viper.Set(key.LogsWrite, false)
			So(Setup(), ShouldBeNil)

			Info("hello")
			exists, _ := filesystem.API().Exists(today)
			So(exists, ShouldBeFalse)
		})

		Convey("With logs.write on entries land in today's file", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "debug")
			So(Setup(), ShouldBeNil)

			Debugf("tuned to %d", 7)
			WithFields(Fields{"channel": "news"}).Info("loading News")
			Tracef("below the level")

			data, err := filesystem.API().ReadFile(today)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "tuned to 7")
			So(string(data), ShouldContainSubstring, "channel=news")
			So(string(data), ShouldNotContainSubstring, "below the level")
		})

		Convey("JSON output is selectable", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsJson, true)
			So(Setup(), ShouldBeNil)

			Warn("careful")
			data, err := filesystem.API().ReadFile(today)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"msg":"careful"`)
		})
	})
}

func TestParseLevel(t *testing.T) {
	Convey("Unknown levels fall back to info", t, func() {
		So(parseLevel("trace"), ShouldEqual, logrus.TraceLevel)
		So(parseLevel("warn"), ShouldEqual, logrus.WarnLevel)
		So(parseLevel("loud"), ShouldEqual, logrus.InfoLevel)
	})
}

func TestFileName(t *testing.T) {
	Convey("Log files are named per day", t, func() {
		day := time.Date(2026, 3, 4, 22, 0, 0, 0, time.UTC)
		So(FileName(day), ShouldEqual, "tvzap-2026-03-04.log")
	})
}
