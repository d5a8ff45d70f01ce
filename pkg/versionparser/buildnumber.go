package versionparser

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// tagPositions is the width of the fractional field holding the tag
	// weight and number.
	tagPositions = 6
	tagFieldMax  = 999999
	tagFieldUnit = 1000000
)

// encodeBuildNumber combines a version triple and its tag weight and number
// into a single comparable value.
//
// The integer part is the concatenation of the major version and the minor
// and patch versions zero-padded to three digits. Tagged versions subtract a
// fraction derived from the tag: the tag number is left-padded to as many
// digits as the tag weight, then right-padded to six digits, so tags with a
// smaller weight and tags with a higher number end up closer to the release.
// A weight of 0 leaves the release number untouched.
func encodeBuildNumber(major, minor, patch, weight, number int) float64 {
	base := fmt.Sprintf("%d%03d%03d", major, minor, patch)

	buildNumber, _ := strconv.ParseFloat(base, 64)

	if weight <= 0 {
		return buildNumber
	}

	return buildNumber - tagPenalty(weight, number)
}

// tagPenalty returns the fraction subtracted from the release number. The
// padded field is not clamped to six digits for weights above six.
func tagPenalty(weight, number int) float64 {
	field := strconv.Itoa(number)
	if len(field) < weight {
		field = strings.Repeat("0", weight-len(field)) + field
	}
	if len(field) < tagPositions {
		field += strings.Repeat("0", tagPositions-len(field))
	}

	digits, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0
	}

	return (tagFieldMax - digits) / tagFieldUnit
}

// buildNumberInt scales a build number to an integer for exact comparisons.
func buildNumberInt(buildNumber float64) int64 {
	return int64(buildNumber * tagFieldUnit)
}
