package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tsukinaha/tsukimi-sub001/bridge"
	"github.com/tsukinaha/tsukimi-sub001/engine/enginetest"
)

func probeNames(out string) []string {
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var decoded struct {
			Event string `json:"event"`
		}
		if json.Unmarshal([]byte(line), &decoded) == nil {
			names = append(names, decoded.Event)
		}
	}
	return names
}

func TestProbe(t *testing.T) {
	Convey("Given a bridge over a fake engine", t, func() {
		fake := enginetest.NewFake()
		b := bridge.New(fake, bridge.Options{PollTimeout: 50 * time.Millisecond})
		So(b.Start(), ShouldBeNil)
		b.Arm()

		Reset(func() {
			b.Close()
		})

		var out bytes.Buffer
		b.Command(bridge.LoadFile("file.mp4", bridge.LoadReplace))

		Convey("Probing stops once playback starts", func() {
			So(probe(b, &out, 2*time.Second, false), ShouldBeNil)

			names := probeNames(out.String())
			So(names, ShouldContain, "start-file")
			So(names, ShouldContain, "duration")
			So(names[len(names)-1], ShouldEqual, "playback-restart")
		})

		Convey("Playing through stops at the end of the file", func() {
			go func() {
				time.Sleep(200 * time.Millisecond)
				fake.Finish()
			}()

			So(probe(b, &out, 2*time.Second, true), ShouldBeNil)
			names := probeNames(out.String())
			So(names[len(names)-1], ShouldEqual, "end-file")
		})

		Convey("Lines carry the payload", func() {
			So(probe(b, &out, 2*time.Second, false), ShouldBeNil)
			So(out.String(), ShouldContainSubstring, `"seconds":120`)
		})
	})

	Convey("Probing a silent engine times out", t, func() {
		fake := enginetest.NewFake()
		b := bridge.New(fake, bridge.Options{PollTimeout: 50 * time.Millisecond})
		So(b.Start(), ShouldBeNil)
		defer b.Close()

		var out bytes.Buffer
		So(probe(b, &out, 100*time.Millisecond, false), ShouldNotBeNil)
	})
}

func TestProbeSchema(t *testing.T) {
	Convey("probe schema", t, func() {
		Convey("Describes the line by default", func() {
			schema, err := probeSchema("")
			So(err, ShouldBeNil)

			encoded, err := json.Marshal(schema)
			So(err, ShouldBeNil)
			So(string(encoded), ShouldContainSubstring, "event")
		})

		Convey("Describes single payloads", func() {
			schema, err := probeSchema("duration")
			So(err, ShouldBeNil)

			encoded, err := json.Marshal(schema)
			So(err, ShouldBeNil)
			So(string(encoded), ShouldContainSubstring, "seconds")
		})

		Convey("Rejects unknown events", func() {
			_, err := probeSchema("nope")
			So(err, ShouldNotBeNil)
		})
	})
}
