package lamapi_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/lamtools/lamctl/lamapi"
)

func ts(day int) time.Time {
	return time.Date(2023, 4, day, 12, 0, 0, 0, time.UTC)
}

func TestOrderReleases(t *testing.T) {
	t.Run("excludes the head pseudo-version and orders newest first", func(t *testing.T) {
		got := lamapi.OrderReleases([]lamapi.VersionInfo{
			{Version: "$LATEST", LastModified: ts(9)},
			{Version: "1", LastModified: ts(1)},
			{Version: "3", LastModified: ts(5)},
			{Version: "2", LastModified: ts(3)},
		})
		qt.Assert(t, got, qt.HasLen, 3)
		qt.Assert(t, got[0].Version, qt.Equals, lamapi.Version("3"))
		qt.Assert(t, got[1].Version, qt.Equals, lamapi.Version("2"))
		qt.Assert(t, got[2].Version, qt.Equals, lamapi.Version("1"))
	})
	t.Run("equal timestamps fall back to natural order, newest first", func(t *testing.T) {
		got := lamapi.OrderReleases([]lamapi.VersionInfo{
			{Version: "2", LastModified: ts(1)},
			{Version: "10", LastModified: ts(1)},
			{Version: "9", LastModified: ts(1)},
		})
		qt.Assert(t, got[0].Version, qt.Equals, lamapi.Version("10"))
		qt.Assert(t, got[1].Version, qt.Equals, lamapi.Version("9"))
		qt.Assert(t, got[2].Version, qt.Equals, lamapi.Version("2"))
	})
	t.Run("does not mutate the input", func(t *testing.T) {
		in := []lamapi.VersionInfo{
			{Version: "1", LastModified: ts(1)},
			{Version: "2", LastModified: ts(2)},
		}
		lamapi.OrderReleases(in)
		qt.Assert(t, in[0].Version, qt.Equals, lamapi.Version("1"))
	})
	t.Run("empty in, empty out", func(t *testing.T) {
		qt.Assert(t, lamapi.OrderReleases(nil), qt.HasLen, 0)
	})
}

func TestLatestRelease(t *testing.T) {
	qt.Assert(t, lamapi.LatestRelease([]lamapi.VersionInfo{
		{Version: "$LATEST", LastModified: ts(9)},
		{Version: "4", LastModified: ts(4)},
		{Version: "5", LastModified: ts(5)},
	}), qt.Equals, lamapi.Version("5"))
	qt.Assert(t, lamapi.LatestRelease([]lamapi.VersionInfo{
		{Version: "$LATEST", LastModified: ts(9)},
	}), qt.Equals, lamapi.Version(""))
}

func TestPreviousRelease(t *testing.T) {
	qt.Assert(t, lamapi.PreviousRelease([]lamapi.VersionInfo{
		{Version: "4", LastModified: ts(4)},
		{Version: "5", LastModified: ts(5)},
		{Version: "3", LastModified: ts(3)},
	}), qt.Equals, lamapi.Version("4"))
	qt.Assert(t, lamapi.PreviousRelease([]lamapi.VersionInfo{
		{Version: "5", LastModified: ts(5)},
	}), qt.Equals, lamapi.Version(""))
}
