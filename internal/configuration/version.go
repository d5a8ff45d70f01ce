package configuration

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/mxcd/verparse/pkg/versionparser"
	"github.com/rs/zerolog/log"
)

// VersionParser parses version strings with the tag types and rendering
// options of a configuration.
type VersionParser struct {
	vocabulary *versionparser.Vocabulary
	options    []versionparser.Option
}

// NewVersionParser builds a parser with the bundled tag types plus the
// configured ones. A nil config yields the defaults.
func NewVersionParser(config *Config) (*VersionParser, error) {
	vocabulary := versionparser.NewVocabulary()

	var tagTypes []*TagType
	var rendering *Rendering
	if config != nil {
		tagTypes = config.TagTypes
		rendering = config.Rendering
	}

	for _, tagType := range tagTypes {
		if err := vocabulary.Register(tagType.Name, tagType.Weight, tagType.Short); err != nil {
			return nil, fmt.Errorf("failed to register tag type %q: %w", tagType.Name, err)
		}
		log.Debug().
			Str("name", tagType.Name).
			Int("weight", tagType.Weight).
			Str("short", tagType.Short).
			Msg("Registered tag type")
	}

	options := []versionparser.Option{
		versionparser.WithVocabulary(vocabulary),
		versionparser.WithLogger(log.Logger),
	}
	if rendering != nil {
		if rendering.Separator != "" {
			options = append(options, versionparser.WithSeparator(rendering.Separator))
		}
		options = append(options, versionparser.WithTagUppercase(rendering.TagUppercase))
	}

	return &VersionParser{vocabulary: vocabulary, options: options}, nil
}

// Vocabulary returns the tag types known to the parser.
func (p *VersionParser) Vocabulary() *versionparser.Vocabulary {
	return p.vocabulary
}

// Parse parses a version string. A leading "v" or "V" directly followed by
// a digit is dropped, so git tags like "v1.2.3" keep their numbers.
func (p *VersionParser) Parse(version string) *versionparser.Version {
	return versionparser.ParseWith(TrimVersionPrefix(version), p.options...)
}

// SourceVersion parses a scraped version into its configuration form.
func (p *VersionParser) SourceVersion(version, information string) *PackageSourceVersion {
	return NewPackageSourceVersion(version, p.Parse(version), information)
}

// NewPackageSourceVersion builds the configuration form of an already
// parsed version. version is the string as scraped.
func NewPackageSourceVersion(version string, parsed *versionparser.Version, information string) *PackageSourceVersion {
	return &PackageSourceVersion{
		Version:            version,
		VersionInformation: information,
		Normalized:         parsed.TagVersion(),
		MajorVersion:       parsed.MajorVersion(),
		MinorVersion:       parsed.MinorVersion(),
		PatchVersion:       parsed.PatchVersion(),
		TagType:            parsed.TagType(),
		TagNumber:          parsed.TagNumber(),
		Branch:             parsed.BranchName(),
		BuildNumber:        parsed.BuildNumberInt(),
	}
}

// TrimVersionPrefix removes a "v" or "V" prefix followed by a digit.
func TrimVersionPrefix(version string) string {
	version = strings.TrimSpace(version)
	if len(version) > 1 && (version[0] == 'v' || version[0] == 'V') && version[1] >= '0' && version[1] <= '9' {
		return version[1:]
	}
	return version
}

// ParseConstraint parses a semver range like ">= 2.0, < 3.0". An empty
// string yields nil, which every version satisfies.
func ParseConstraint(constraint string) (*semver.Constraints, error) {
	if strings.TrimSpace(constraint) == "" {
		return nil, nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	return c, nil
}

// SatisfiesConstraint checks the version triple against the constraint.
// Tags and branches are ignored; use the stableOnly filter to drop them.
func SatisfiesConstraint(c *semver.Constraints, version *versionparser.Version) bool {
	if c == nil {
		return true
	}
	numbers := version.Numbers()
	return c.Check(semver.New(uint64(numbers[0]), uint64(numbers[1]), uint64(numbers[2]), "", ""))
}
