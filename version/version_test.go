package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tsukinaha/tsukimi-sub001/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		Convey("Orders by major, minor then patch", func() {
			So(must(Compare("1.0.0", "0.9.9")), ShouldEqual, 1)
			So(must(Compare("0.4.0", "0.4.1")), ShouldEqual, -1)
			So(must(Compare("v0.4.0", "0.4.0")), ShouldEqual, 0)
		})

		Convey("Releases sort after their pre-releases", func() {
			So(must(Compare("0.4.0", "0.4.0-rc1")), ShouldEqual, 1)
			So(must(Compare("0.4.0-rc1", "0.4.0-rc2")), ShouldEqual, -1)
			So(must(Compare("0.4.0-rc1", "0.3.9")), ShouldEqual, 1)
		})

		Convey("Rejects malformed versions", func() {
			_, err := Compare("latest", "0.4.0")
			So(err, ShouldNotBeNil)

			_, err = Compare("0.4", "0.4.0")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLatestCache(t *testing.T) {
	Convey("Given a cached release", t, func() {
		So(versionCacher.Set("9.9.9"), ShouldBeNil)

		Convey("Latest answers from the cache", func() {
			v, err := Latest()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "9.9.9")
		})
	})
}

func must(v int, err error) int {
	So(err, ShouldBeNil)
	return v
}
