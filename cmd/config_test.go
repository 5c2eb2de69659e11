package cmd

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tsukinaha/tsukimi-sub001/config"
	"github.com/tsukinaha/tsukimi-sub001/key"
)

func TestParseValue(t *testing.T) {
	Convey("parseValue follows the type of the default", t, func() {
		Convey("Integers", func() {
			v, err := parseValue(config.Default[key.PlayerVolume], []string{"80"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 80)

			_, err = parseValue(config.Default[key.PlayerVolume], []string{"loud"})
			So(err, ShouldNotBeNil)
		})

		Convey("Booleans", func() {
			v, err := parseValue(config.Default[key.PlayerResume], []string{"false"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)
		})

		Convey("Strings", func() {
			v, err := parseValue(config.Default[key.PlayerBackend], []string{"libmpv", "ignored"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "libmpv")
		})

		Convey("Floats", func() {
			v, err := parseValue(config.Field{Key: "x", Value: 1.0}, []string{"1.25"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 1.25)
		})

		Convey("Missing values", func() {
			_, err := parseValue(config.Default[key.PlayerVolume], nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestUnknownKey(t *testing.T) {
	Convey("Unknown keys suggest the closest one", t, func() {
		err := errUnknownKey("player.volum")
		So(err.Error(), ShouldContainSubstring, key.PlayerVolume)
	})
}

func TestEnvNames(t *testing.T) {
	Convey("envNames covers every field and the config path override", t, func() {
		names := envNames()
		So(len(names), ShouldEqual, len(config.EnvExposed)+1)
		So(names, ShouldContain, "TSUKIMI_PLAYER_BACKEND")
		So(names, ShouldContain, "TSUKIMI_CONFIG_PATH")
	})
}
