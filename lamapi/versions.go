package lamapi

import (
	"sort"

	"github.com/facette/natsort"
)

// OrderReleases filters VersionLatest out of a version listing and orders
// the remainder most-recently-published first.
//
// Equal timestamps (the provider truncates to milliseconds, and bulk
// publishes can collide) fall back to natural ordering of the version
// identifiers, still newest-first, so "10" never sorts between "1" and "2".
func OrderReleases(in []VersionInfo) []VersionInfo {
	out := make([]VersionInfo, 0, len(in))
	for _, v := range in {
		if v.Version == VersionLatest {
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastModified.Equal(out[j].LastModified) {
			return out[i].LastModified.After(out[j].LastModified)
		}
		return naturalGreater(string(out[i].Version), string(out[j].Version))
	})
	return out
}

// LatestRelease returns the most recently published version from a listing,
// or empty string when nothing has been published yet.
func LatestRelease(in []VersionInfo) Version {
	ordered := OrderReleases(in)
	if len(ordered) == 0 {
		return ""
	}
	return ordered[0].Version
}

// PreviousRelease returns the next-most-recent published version, the
// default rollback target.  Empty string when there is no such version.
func PreviousRelease(in []VersionInfo) Version {
	ordered := OrderReleases(in)
	if len(ordered) < 2 {
		return ""
	}
	return ordered[1].Version
}

func naturalGreater(a, b string) bool {
	pair := []string{a, b}
	natsort.Sort(pair)
	return pair[0] == b && a != b
}
