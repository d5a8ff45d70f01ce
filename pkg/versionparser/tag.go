package versionparser

import (
	"strconv"
	"strings"
)

// Tag is the release tag of a version, e.g. "beta2" or "BranchName-rc5".
type Tag struct {
	tagName string
	number  int
	branch  string

	// version is the owning version; only its rendering options and
	// vocabulary are read.
	version *Version
}

// TagInfo is a structured summary of a tag.
type TagInfo struct {
	TagName    string `json:"tagName" yaml:"tagName"`
	TagType    string `json:"tagType" yaml:"tagType"`
	Number     int    `json:"number" yaml:"number"`
	Branch     string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Weight     int    `json:"weight" yaml:"weight"`
	Normalized string `json:"normalized" yaml:"normalized"`
}

func newTag(version *Version, c *components) *Tag {
	return &Tag{
		tagName: c.tagName,
		number:  c.number,
		branch:  c.branch,
		version: version,
	}
}

// Name returns the tag name as used in the version string, which may be a
// short alias like "b". Uppercase when the version renders tags in
// uppercase.
func (t *Tag) Name() string {
	if t.version.tagUppercase {
		return strings.ToUpper(t.tagName)
	}
	return t.tagName
}

// Type returns the lowercase tag type. Short aliases resolve to their long
// name, so "a2" has the type "alpha". Returns TagTypeNone without a tag name.
func (t *Tag) Type() string {
	return t.version.vocabulary.TypeOf(t.tagName)
}

// Number returns the tag number: 1 when the tag has no explicit number, 0
// when there is no tag name.
func (t *Tag) Number() int {
	return t.number
}

// BranchName returns the branch name, or an empty string.
func (t *Tag) BranchName() string {
	return t.branch
}

// Weight returns the vocabulary weight of the tag name, 0 if unknown.
func (t *Tag) Weight() int {
	if t.tagName == "" {
		return 0
	}
	return t.version.vocabulary.Weight(t.tagName)
}

// IsType reports whether the tag has the given type or name.
func (t *Tag) IsType(tagType string) bool {
	tagType = strings.ToLower(tagType)
	return t.Type() == tagType || t.tagName == tagType
}

func (t *Tag) IsAlpha() bool            { return t.IsType(TagTypeAlpha) }
func (t *Tag) IsBeta() bool             { return t.IsType(TagTypeBeta) }
func (t *Tag) IsReleaseCandidate() bool { return t.IsType(TagTypeReleaseCandidate) }
func (t *Tag) IsSnapshot() bool         { return t.IsType(TagTypeSnapshot) }
func (t *Tag) IsDev() bool              { return t.IsType(TagTypeDev) }
func (t *Tag) IsPatch() bool            { return t.IsType(TagTypePatch) }

// IsStable is true for tags without a tag name and for the "stable" tag.
func (t *Tag) IsStable() bool {
	return t.IsType(TagTypeNone) || t.IsType(TagTypeStable)
}

// String renders the normalized tag: the tag name with its number when
// above 1, prefixed by the branch name and the version's separator.
func (t *Tag) String() string {
	name := t.Name()
	if name == "" {
		return t.branch
	}

	if t.number > 1 {
		name += strconv.Itoa(t.number)
	}

	if t.branch != "" {
		name = t.branch + t.version.separator + name
	}

	return name
}

// Info returns a structured summary of the tag.
func (t *Tag) Info() *TagInfo {
	return &TagInfo{
		TagName:    t.Name(),
		TagType:    t.Type(),
		Number:     t.number,
		Branch:     t.branch,
		Weight:     t.Weight(),
		Normalized: t.String(),
	}
}
