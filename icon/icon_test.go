package icon

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/tsukinaha/tsukimi-sub001/key"
)

func TestGet(t *testing.T) {
	Convey("Given every registered icon", t, func() {
		Convey("It renders for each variant", func() {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)
				for i := range icons {
					So(Get(i), ShouldNotBeEmpty)
				}
			}
		})

		Convey("It returns empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(Play), ShouldBeEmpty)
		})

		Convey("It returns empty for an unknown icon", func() {
			viper.Set(key.IconsVariant, "plain")
			So(Get(Icon(-1)), ShouldBeEmpty)
		})
	})
}

func TestWith(t *testing.T) {
	Convey("With", t, func() {
		Convey("Prefixes the icon", func() {
			viper.Set(key.IconsVariant, "plain")
			So(With(Pause, "Paused"), ShouldEqual, "|| Paused")
		})

		Convey("Leaves the text alone without an icon", func() {
			viper.Set(key.IconsVariant, "")
			So(With(Pause, "Paused"), ShouldEqual, "Paused")
		})
	})
}
