package versionparser

import (
	"cmp"
	"slices"
)

// Compare returns -1 if a ranks below b, 1 if it ranks above and 0 if both
// have the same build number.
func Compare(a, b *Version) int {
	return cmp.Compare(a.BuildNumberInt(), b.BuildNumberInt())
}

// Sort sorts versions from lowest to highest. Versions with the same build
// number keep their order.
func Sort(versions []*Version) {
	slices.SortStableFunc(versions, Compare)
}

// Latest returns the highest version, the first one among equals. Returns
// nil for an empty list.
func Latest(versions []*Version) *Version {
	var latest *Version
	for _, version := range versions {
		if latest == nil || version.IsHigherThan(latest) {
			latest = version
		}
	}
	return latest
}
