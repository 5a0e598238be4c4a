package icon

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tvzap/tvzap/key"
)

func TestGet(t *testing.T) {
	Convey("Given the pause icon", t, func() {
		Reset(func() { viper.Set(key.IconsVariant, "") })

		for _, variant := range AvailableVariants() {
			Convey("It renders in the "+variant+" variant", func() {
				viper.Set(key.IconsVariant, variant)
				So(Get(Pause), ShouldNotBeEmpty)
			})
		}

		Convey("An unknown variant falls back to plain", func() {
			viper.Set(key.IconsVariant, "sparkles")
			So(Get(Pause), ShouldEqual, "||")

			viper.Set(key.IconsVariant, "")
			So(Get(Pause), ShouldEqual, "||")
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Every icon has a glyph in every variant", t, func() {
		for _, row := range glyphs {
			for _, glyph := range row {
				So(glyph, ShouldNotBeEmpty)
			}
		}
	})

	Convey("Play and pause are distinguishable", t, func() {
		for _, variant := range AvailableVariants() {
			viper.Set(key.IconsVariant, variant)
			So(Get(Play), ShouldNotEqual, Get(Pause))
		}
		viper.Set(key.IconsVariant, "")
	})

	Convey("Callers cannot mutate the variant list", t, func() {
		list := AvailableVariants()
		list[0] = "broken"
		So(AvailableVariants()[0], ShouldEqual, "emoji")
	})
}
