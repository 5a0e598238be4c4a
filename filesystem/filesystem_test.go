package filesystem

import (
	"io"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBackend(t *testing.T) {
	Convey("Given the backend switches", t, func() {
		Reset(SetOsFs)

		Convey("The default is the real disk", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("SetMemMapFs starts from an empty memory filesystem", func() {
			SetMemMapFs()
			So(API().WriteFile("/tmp/a", []byte("x"), os.ModePerm), ShouldBeNil)

			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
			exists, err := API().Exists("/tmp/a")
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})
	})
}

func TestGacheFs(t *testing.T) {
	Convey("Given a GacheFs over memory", t, func() {
		SetMemMapFs()
		Reset(SetOsFs)

		var fs GacheFs

		Convey("MkdirAll and OpenFile go through the active backend", func() {
			So(fs.MkdirAll("/cache/tvzap", os.ModePerm), ShouldBeNil)

			f, err := fs.OpenFile("/cache/tvzap/resume.json", os.O_CREATE|os.O_WRONLY, os.ModePerm)
			So(err, ShouldBeNil)
			_, err = io.WriteString(f, `{"a":"b"}`)
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			data, err := API().ReadFile("/cache/tvzap/resume.json")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `{"a":"b"}`)
		})

		Convey("Opening a missing file without O_CREATE fails", func() {
			_, err := fs.OpenFile("/nope", os.O_RDONLY, 0)
			So(err, ShouldNotBeNil)
		})
	})
}
