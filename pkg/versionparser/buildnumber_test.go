package versionparser

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestEncodeBuildNumber(t *testing.T) {
	tests := []struct {
		major, minor, patch int
		weight, number      int
		expected            float64
	}{
		{1, 0, 0, 0, 0, 1000000},
		{1, 2, 3, 0, 5, 1002003},
		{12, 345, 6, 0, 0, 12345006},
		{1, 0, 0, 4, 1, 999999.000101},
		{1, 0, 0, 6, 1, 999999.000002},
		{1, 0, 0, 2, 1, 999999.010001},
		{1, 0, 0, 1, 1, 999999.100001},
		{0, 0, 0, 0, 0, 0},
	}

	for _, tc := range tests {
		g := NewWithT(t)
		actual := encodeBuildNumber(tc.major, tc.minor, tc.patch, tc.weight, tc.number)
		g.Expect(actual).To(BeNumerically("~", tc.expected, 1e-7), "%+v", tc)
	}
}

func TestTagPenalty(t *testing.T) {
	g := NewWithT(t)

	g.Expect(tagPenalty(4, 1)).To(BeNumerically("~", 0.999899, 1e-9))
	g.Expect(tagPenalty(4, 2)).To(BeNumerically("~", 0.999799, 1e-9))
	g.Expect(tagPenalty(2, 1)).To(BeNumerically("~", 0.989999, 1e-9))
	// wider than the field: not truncated
	g.Expect(tagPenalty(8, 1)).To(BeNumerically("~", 0.999998, 1e-9))

	// a higher tag number always means a smaller penalty
	for weight := 1; weight <= MaxTagWeight; weight++ {
		g.Expect(tagPenalty(weight, 2)).To(BeNumerically("<", tagPenalty(weight, 1)), "weight %d", weight)
	}
}

func TestBuildNumberInt(t *testing.T) {
	g := NewWithT(t)

	g.Expect(buildNumberInt(1000000)).To(Equal(int64(1000000000000)))
	g.Expect(buildNumberInt(0)).To(Equal(int64(0)))
	g.Expect(buildNumberInt(999999.000101)).To(BeNumerically("~", 999999000101, 1))
}
