package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized text logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)

		Convey("When logging with fields", func() {
			Get().Info(context.Background(), "run finished", String("season", "2025-26"), Int("qualifiers", 3))

			Convey("Then the fields and caller are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "run finished")
				So(out, ShouldContainSubstring, "season=2025-26")
				So(out, ShouldContainSubstring, "qualifiers=3")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the level", func() {
			Get().Debug(context.Background(), "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When using a named logger", func() {
			Named("engine").Warn(context.Background(), "fallback")

			Convey("Then the component is attached", func() {
				So(buf.String(), ShouldContainSubstring, "component=engine")
			})
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat("json")), ShouldBeNil)

		Get().Error(context.Background(), "fetch failed", Bool("retry", false))

		Convey("Then each line is valid JSON", func() {
			var rec map[string]any
			So(json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &rec), ShouldBeNil)
			So(rec["msg"], ShouldEqual, "fetch failed")
			So(rec["retry"], ShouldEqual, false)
		})
	})

	Convey("Given an unknown format", t, func() {
		So(Init(WithFormat("xml")), ShouldNotBeNil)
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		So(Init(WithWriter(&bytes.Buffer{})), ShouldBeNil)
		So(SetLevelString("debug"), ShouldBeNil)
		So(SetLevelString("WARNING"), ShouldBeNil)
		So(SetLevelString(""), ShouldBeNil)
		So(SetLevelString("loud"), ShouldNotBeNil)
	})
}
