package versionparser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// components is the result of resolving a tag string.
type components struct {
	tagName string
	number  int
	branch  string
}

// componentDetector resolves the tag string of a version into its tag name,
// tag number and branch name.
type componentDetector struct {
	tagString string
	original  string
	names     []string
	logger    zerolog.Logger
}

type detectStrategy struct {
	name  string
	match func(d *componentDetector) (*components, bool)
}

// strategies are tried in order, the first match wins.
var strategies = []detectStrategy{
	{"tag-only", (*componentDetector).matchTagOnly},
	{"branch-then-tag", (*componentDetector).matchBranchThenTag},
	{"tag-then-branch", (*componentDetector).matchTagThenBranch},
	{"tag-anywhere", (*componentDetector).matchTagAnywhere},
	{"branch-only", (*componentDetector).matchBranchOnly},
}

func detectComponents(tagString, original string, names []string, logger zerolog.Logger) (*components, bool) {
	d := &componentDetector{
		tagString: tagString,
		original:  original,
		names:     names,
		logger:    logger,
	}

	for _, strategy := range strategies {
		result, ok := strategy.match(d)
		if !ok {
			continue
		}

		d.logger.Trace().
			Str("tagString", tagString).
			Str("strategy", strategy.name).
			Str("tag", result.tagName).
			Int("number", result.number).
			Str("branch", result.branch).
			Msg("detected version components")

		return result, true
	}

	d.logger.Trace().Str("tagString", tagString).Msg("no version components detected")
	return nil, false
}

// matchTagOnly matches "<tag>[-]<digits>" or "<tag>" spanning the whole
// tag string.
func (d *componentDetector) matchTagOnly() (*components, bool) {
	s := d.tagString

	for _, name := range d.names {
		if !hasPrefixFold(s, name) {
			continue
		}
		if number, ok := matchNumberSuffix(s[len(name):]); ok {
			return newComponents(s[:len(name)], number, ""), true
		}
	}

	for _, name := range d.names {
		if equalFoldASCII(s, name) {
			return newComponents(s, 0, ""), true
		}
	}

	return nil, false
}

// matchBranchThenTag matches "<branch>-<tag>[-]<digits>" or "<branch>-<tag>".
// The branch is as long as possible, so the last tag keyword wins.
func (d *componentDetector) matchBranchThenTag() (*components, bool) {
	s := d.tagString
	branchEnd := branchPrefixLength(s)

	try := func(withNumber bool) (*components, bool) {
		for end := min(branchEnd, len(s)-1); end >= 1; end-- {
			if s[end] != '-' {
				continue
			}
			rest := s[end+1:]
			for _, name := range d.names {
				if !hasPrefixFold(rest, name) {
					continue
				}
				number, ok := 0, len(rest) == len(name)
				if withNumber {
					number, ok = matchNumberSuffix(rest[len(name):])
				}
				if ok {
					return newComponents(rest[:len(name)], number, d.originalBranch(s[:end])), true
				}
			}
		}
		return nil, false
	}

	if result, ok := try(true); ok {
		return result, true
	}
	return try(false)
}

// matchTagThenBranch matches "<tag>[-]<digits>-<branch>" or "<tag>-<branch>".
func (d *componentDetector) matchTagThenBranch() (*components, bool) {
	s := d.tagString

	for _, name := range d.names {
		if !hasPrefixFold(s, name) {
			continue
		}

		pos := len(name)
		if pos < len(s) && s[pos] == '-' {
			pos++
		}
		digitsEnd := pos
		for digitsEnd < len(s) && isDigit(s[digitsEnd]) {
			digitsEnd++
		}
		if digitsEnd == pos || digitsEnd >= len(s) || s[digitsEnd] != '-' {
			continue
		}

		branch := s[digitsEnd+1:]
		if !isBranchToken(branch) {
			continue
		}

		number := atoiSaturated(s[pos:digitsEnd])
		return newComponents(s[:len(name)], number, d.originalBranch(branch)), true
	}

	for _, name := range d.names {
		if !hasPrefixFold(s, name) {
			continue
		}
		rest := s[len(name):]
		if len(rest) < 2 || rest[0] != '-' || !isBranchToken(rest[1:]) {
			continue
		}
		return newComponents(s[:len(name)], 0, d.originalBranch(rest[1:])), true
	}

	return nil, false
}

// matchTagAnywhere finds the leftmost "-<tag>[-]<digits>-" or "-<tag>-"
// inside the tag string. What is left after removing it becomes the branch;
// a branch split in two by the tag keyword cannot be restored exactly.
func (d *componentDetector) matchTagAnywhere() (*components, bool) {
	s := d.tagString

	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			continue
		}
		rest := s[i+1:]

		for _, name := range d.names {
			if !hasPrefixFold(rest, name) {
				continue
			}
			pos := len(name)
			if pos < len(rest) && rest[pos] == '-' {
				pos++
			}
			digitsEnd := pos
			for digitsEnd < len(rest) && isDigit(rest[digitsEnd]) {
				digitsEnd++
			}
			if digitsEnd == pos || digitsEnd >= len(rest) || rest[digitsEnd] != '-' {
				continue
			}

			number := atoiSaturated(rest[pos:digitsEnd])
			matched := s[i : i+1+digitsEnd+1]
			return newComponents(rest[:len(name)], number, removeMatch(s, matched)), true
		}

		for _, name := range d.names {
			if !hasPrefixFold(rest, name) || len(rest) <= len(name) || rest[len(name)] != '-' {
				continue
			}
			matched := s[i : i+1+len(name)+1]
			return newComponents(rest[:len(name)], 0, removeMatch(s, matched)), true
		}
	}

	return nil, false
}

// matchBranchOnly treats a tag string without any tag keyword as a branch
// name.
func (d *componentDetector) matchBranchOnly() (*components, bool) {
	if !isBranchToken(d.tagString) {
		return nil, false
	}
	return newComponents("", 0, d.originalBranch(d.tagString)), true
}

// originalBranch looks up the branch name as it was written in the original
// version string. Separators were normalized to dashes while splitting, so
// every dash stands for one or more non-alphanumeric characters. Falls back
// to the normalized name when the original cannot be found.
func (d *componentDetector) originalBranch(branch string) string {
	if branch == "" {
		return ""
	}

	segments := strings.Split(branch, "-")
	quoted := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(segment))
	}
	if len(quoted) == 0 {
		return branch
	}

	skeleton, err := regexp.Compile("(?i)" + strings.Join(quoted, "[^a-zA-Z0-9]+"))
	if err != nil {
		return branch
	}

	if found := skeleton.FindString(d.original); found != "" {
		return found
	}

	d.logger.Trace().
		Str("branch", branch).
		Str("original", d.original).
		Msg("original branch name not found, using normalized name")

	return branch
}

func newComponents(tagName string, number int, branch string) *components {
	tagName = strings.ToLower(tagName)
	if tagName != "" && number == 0 {
		number = 1
	}
	if tagName == "" {
		number = 0
	}
	return &components{
		tagName: tagName,
		number:  number,
		branch:  branch,
	}
}

// matchNumberSuffix matches "[-]<digits>" spanning the whole string.
func matchNumberSuffix(s string) (int, bool) {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
	}
	return atoiSaturated(s), true
}

// atoiSaturated parses a run of ASCII digits, saturating at math.MaxInt.
func atoiSaturated(digits string) int {
	number, err := strconv.Atoi(digits)
	if err != nil {
		return math.MaxInt
	}
	return number
}

// removeMatch replaces every occurrence of matched with a single dash and
// cleans up the dashes left behind.
func removeMatch(s, matched string) string {
	s = strings.ReplaceAll(s, matched, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

// hasPrefixFold reports whether s starts with prefix, ignoring ASCII case.
func hasPrefixFold(s, prefix string) bool {
	return len(prefix) > 0 && len(s) >= len(prefix) && equalFoldASCII(s[:len(prefix)], prefix)
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isBranchChar(c byte) bool {
	return isAlphaNumeric(c) || c == '-'
}

func isBranchToken(s string) bool {
	return s != "" && branchPrefixLength(s) == len(s)
}

func branchPrefixLength(s string) int {
	n := 0
	for n < len(s) && isBranchChar(s[n]) {
		n++
	}
	return n
}
