package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestChannels(t *testing.T) {
	t.Run("quiet silences info", func(t *testing.T) {
		var out, errw bytes.Buffer
		l := NewLogger(&out, &errw, false, true, false)
		l.Info("tag", "should not appear")
		l.Out("result line")
		qt.Assert(t, errw.String(), qt.Equals, "")
		qt.Assert(t, out.String(), qt.Equals, "result line\n")
	})
	t.Run("debug requires verbose", func(t *testing.T) {
		var out, errw bytes.Buffer
		l := NewLogger(&out, &errw, false, false, false)
		l.Debug("tag", "hidden")
		qt.Assert(t, errw.String(), qt.Equals, "")

		l = NewLogger(&out, &errw, false, false, true)
		l.Debug("tag", "shown")
		qt.Assert(t, strings.Contains(errw.String(), "shown"), qt.IsTrue)
	})
	t.Run("quiet wins over verbose", func(t *testing.T) {
		var out, errw bytes.Buffer
		l := NewLogger(&out, &errw, false, true, true)
		l.Debug("tag", "hidden")
		qt.Assert(t, errw.String(), qt.Equals, "")
	})
}

func TestContext(t *testing.T) {
	var out, errw bytes.Buffer
	l := NewLogger(&out, &errw, false, false, false)
	ctx := l.WithContext(context.Background())
	got := Ctx(ctx)
	got.Out("via context")
	qt.Assert(t, out.String(), qt.Equals, "via context\n")
}
