package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tvzap/tvzap/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Channels()", func() {
			So(filepath.Dir(Channels()), ShouldEqual, Config())
		})

		Convey("Resume()", func() {
			So(filepath.Dir(Resume()), ShouldEqual, Config())
		})

		Convey("Config() honours the override", func() {
			t.Setenv(EnvConfigPath, "/custom/tvzap")
			So(Config(), ShouldEqual, "/custom/tvzap")
		})
	})
}
