package resume

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tvzap/tvzap/filesystem"
	"github.com/tvzap/tvzap/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestResume(t *testing.T) {
	Convey("Given an empty resume file", t, func() {
		_ = filesystem.API().Remove(where.Resume())

		Convey("Nothing is remembered for an unknown channel file", func() {
			id, err := Last("/tv/unknown.json")
			So(err, ShouldBeNil)
			So(id.IsAbsent(), ShouldBeTrue)
		})

		Convey("The last saved channel is returned per channel file", func() {
			So(Save("/tv/a.json", "news"), ShouldBeNil)
			So(Save("/tv/b.json", "sport"), ShouldBeNil)
			So(Save("/tv/a.json", "films"), ShouldBeNil)

			id, err := Last("/tv/a.json")
			So(err, ShouldBeNil)
			So(id.MustGet(), ShouldEqual, "films")

			id, err = Last("/tv/b.json")
			So(err, ShouldBeNil)
			So(id.MustGet(), ShouldEqual, "sport")
		})
	})
}
