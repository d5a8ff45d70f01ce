// Package versionparser parses free-form version strings like "1.2",
// "v1.5.9-beta2" or "2.0_BranchName-RC3" into a version triple, a release
// tag and a branch name, and derives a build number that orders versions:
//
//	1.1.0 < 1.5.9-beta < 1.5.9 < 2.0.0-alpha < 2.0.0
//
// Parsing never fails. Input without any recognizable number yields 0.0.0.
package versionparser

import (
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultSeparator is placed between the version, branch and tag when
// rendering a normalized version.
const DefaultSeparator = "-"

// Version is a parsed version string. It is immutable and safe for
// concurrent use.
type Version struct {
	original string
	numbers  [3]int
	tag      *Tag

	separator    string
	tagUppercase bool
	vocabulary   *Vocabulary
	logger       zerolog.Logger

	buildOnce   sync.Once
	buildNumber float64
}

// Option configures how a version is parsed and rendered.
type Option func(*Version)

// WithSeparator sets the separator used between the version number, branch
// name and tag when rendering. Does not affect comparisons.
func WithSeparator(separator string) Option {
	return func(v *Version) {
		v.separator = separator
	}
}

// WithTagUppercase renders tag names in uppercase, e.g. "1.0.0-BETA".
func WithTagUppercase(uppercase bool) Option {
	return func(v *Version) {
		v.tagUppercase = uppercase
	}
}

// WithVocabulary parses with the given vocabulary instead of the default
// one.
func WithVocabulary(vocabulary *Vocabulary) Option {
	return func(v *Version) {
		if vocabulary != nil {
			v.vocabulary = vocabulary
		}
	}
}

// WithLogger traces which detection strategy matched. Parsing is silent
// without it.
func WithLogger(logger zerolog.Logger) Option {
	return func(v *Version) {
		v.logger = logger
	}
}

// Parse parses a version string using the default vocabulary.
func Parse(version string) *Version {
	return ParseWith(version)
}

// ParseWith parses a version string with the given options.
func ParseWith(version string, opts ...Option) *Version {
	v := &Version{
		original:   version,
		separator:  DefaultSeparator,
		vocabulary: defaultVocabulary,
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(v)
	}

	numbers, tagString := detectNumbers(version)
	v.numbers = numbers

	if tagString != "" {
		if c, ok := detectComponents(tagString, version, v.vocabulary.Names(), v.logger); ok {
			v.tag = newTag(v, c)
		}
	}

	return v
}

// Original returns the version string as passed to Parse.
func (v *Version) Original() string {
	return v.original
}

func (v *Version) MajorVersion() int { return v.numbers[0] }
func (v *Version) MinorVersion() int { return v.numbers[1] }
func (v *Version) PatchVersion() int { return v.numbers[2] }

// Numbers returns the major, minor and patch versions.
func (v *Version) Numbers() [3]int {
	return v.numbers
}

// NormalizedVersion returns the version number with all three levels, e.g.
// "1" becomes "1.0.0".
func (v *Version) NormalizedVersion() string {
	return joinNumbers(v.numbers[:])
}

// ShortVersion returns the version number without trailing zero levels, e.g.
// "1.0.0" becomes "1" and "1.1.0" becomes "1.1".
func (v *Version) ShortVersion() string {
	switch {
	case v.numbers[2] > 0:
		return joinNumbers(v.numbers[:])
	case v.numbers[1] > 0:
		return joinNumbers(v.numbers[:2])
	default:
		return joinNumbers(v.numbers[:1])
	}
}

// TagVersion returns the normalized version with the normalized tag
// appended, if any.
func (v *Version) TagVersion() string {
	version := v.NormalizedVersion()
	if v.tag == nil {
		return version
	}
	return version + v.separator + v.tag.String()
}

func (v *Version) String() string {
	return v.TagVersion()
}

// HasTag reports whether anything besides the version number was
// recognized: a tag, a branch name or both.
func (v *Version) HasTag() bool {
	return v.tag != nil
}

// Tag returns the tag information, nil when the version has no tag.
func (v *Version) Tag() *Tag {
	return v.tag
}

// TagString returns the normalized tag, or an empty string.
func (v *Version) TagString() string {
	if v.tag == nil {
		return ""
	}
	return v.tag.String()
}

// TagType returns the tag type, TagTypeNone when there is no tag.
func (v *Version) TagType() string {
	if v.tag == nil {
		return TagTypeNone
	}
	return v.tag.Type()
}

// TagNumber returns the tag number if present, 1 for a tag without an
// explicit number and 0 when the version has no tag.
func (v *Version) TagNumber() int {
	if v.tag == nil {
		return 0
	}
	return v.tag.Number()
}

func (v *Version) HasBranch() bool {
	return v.BranchName() != ""
}

// BranchName returns the branch name, or an empty string.
func (v *Version) BranchName() string {
	if v.tag == nil {
		return ""
	}
	return v.tag.BranchName()
}

func (v *Version) IsAlpha() bool            { return v.tag != nil && v.tag.IsAlpha() }
func (v *Version) IsBeta() bool             { return v.tag != nil && v.tag.IsBeta() }
func (v *Version) IsReleaseCandidate() bool { return v.tag != nil && v.tag.IsReleaseCandidate() }
func (v *Version) IsSnapshot() bool         { return v.tag != nil && v.tag.IsSnapshot() }
func (v *Version) IsDev() bool              { return v.tag != nil && v.tag.IsDev() }
func (v *Version) IsPatch() bool            { return v.tag != nil && v.tag.IsPatch() }

// IsStable is true for versions without a tag or with a stable tag.
func (v *Version) IsStable() bool {
	return v.tag == nil || v.tag.IsStable()
}

// BuildNumber returns the comparable build number, e.g. 1000000 for
// "1.0.0" and 999999.000101 for "1.0.0-beta". Computed on first use.
func (v *Version) BuildNumber() float64 {
	v.buildOnce.Do(func() {
		weight, number := 0, 0
		if v.tag != nil {
			weight, number = v.tag.Weight(), v.tag.Number()
		}
		v.buildNumber = encodeBuildNumber(v.numbers[0], v.numbers[1], v.numbers[2], weight, number)
	})
	return v.buildNumber
}

// BuildNumberInt returns the build number multiplied by one million and
// truncated, for comparisons without floating point rounding.
func (v *Version) BuildNumberInt() int64 {
	return buildNumberInt(v.BuildNumber())
}

// IsHigherThan reports whether v ranks above other.
func (v *Version) IsHigherThan(other *Version) bool {
	return v.BuildNumberInt() > other.BuildNumberInt()
}

// IsLowerThan reports whether v ranks below other.
func (v *Version) IsLowerThan(other *Version) bool {
	return v.BuildNumberInt() < other.BuildNumberInt()
}

// Info is a structured summary of a parsed version.
type Info struct {
	OriginalVersion string   `json:"originalVersion" yaml:"originalVersion"`
	Normalized      string   `json:"normalized" yaml:"normalized"`
	MajorVersion    int      `json:"majorVersion" yaml:"majorVersion"`
	MinorVersion    int      `json:"minorVersion" yaml:"minorVersion"`
	PatchVersion    int      `json:"patchVersion" yaml:"patchVersion"`
	ShortVersion    string   `json:"shortVersion" yaml:"shortVersion"`
	TagVersion      string   `json:"tagVersion" yaml:"tagVersion"`
	BuildNumber     float64  `json:"buildNumber" yaml:"buildNumber"`
	BuildNumberInt  int64    `json:"buildNumberInt" yaml:"buildNumberInt"`
	Tag             *TagInfo `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// Info returns a structured summary of the version.
func (v *Version) Info() *Info {
	info := &Info{
		OriginalVersion: v.original,
		Normalized:      v.NormalizedVersion(),
		MajorVersion:    v.numbers[0],
		MinorVersion:    v.numbers[1],
		PatchVersion:    v.numbers[2],
		ShortVersion:    v.ShortVersion(),
		TagVersion:      v.TagVersion(),
		BuildNumber:     v.BuildNumber(),
		BuildNumberInt:  v.BuildNumberInt(),
	}
	if v.tag != nil {
		info.Tag = v.tag.Info()
	}
	return info
}

func joinNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, number := range numbers {
		parts[i] = strconv.Itoa(number)
	}
	return strings.Join(parts, ".")
}
