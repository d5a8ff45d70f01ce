package scraper

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/mxcd/verparse/internal/configuration"
	"github.com/rs/zerolog/log"
)

// ProcessVersions parses the raw versions of a source, applies its filters
// and returns them ordered newest first. Duplicate version strings are
// dropped.
func ProcessVersions(parser *configuration.VersionParser, source *configuration.PackageSource, raw []RawVersion) ([]*configuration.PackageSourceVersion, error) {
	include, err := compilePattern(source.TagPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid tagPattern: %w", err)
	}
	exclude, err := compilePattern(source.ExcludePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid excludePattern: %w", err)
	}
	constraint, err := configuration.ParseConstraint(source.VersionConstraint)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(raw))
	versions := make([]*configuration.PackageSourceVersion, 0, len(raw))
	skipped := 0

	for _, r := range raw {
		if seen[r.Version] {
			continue
		}
		seen[r.Version] = true

		if include != nil && !include.MatchString(r.Version) {
			skipped++
			continue
		}
		if exclude != nil && exclude.MatchString(r.Version) {
			skipped++
			continue
		}

		parsed := parser.Parse(r.Version)
		if source.StableOnly && (!parsed.IsStable() || parsed.HasBranch()) {
			skipped++
			continue
		}
		if !configuration.SatisfiesConstraint(constraint, parsed) {
			skipped++
			continue
		}

		versions = append(versions, configuration.NewPackageSourceVersion(r.Version, parsed, r.Information))
	}

	SortVersions(versions, source.SortBy)

	log.Trace().
		Str("source", source.Name).
		Int("raw", len(raw)).
		Int("kept", len(versions)).
		Int("skipped", skipped).
		Msg("Processed versions")

	return versions, nil
}

// SortVersions orders versions newest first. Build number order is the
// default; ties fall back to the version string.
func SortVersions(versions []*configuration.PackageSourceVersion, sortBy configuration.SortBy) {
	if sortBy == configuration.SortByAlphabetical {
		sort.SliceStable(versions, func(i, j int) bool {
			return versions[i].Version > versions[j].Version
		})
		return
	}

	sort.SliceStable(versions, func(i, j int) bool {
		if versions[i].BuildNumber != versions[j].BuildNumber {
			return versions[i].BuildNumber > versions[j].BuildNumber
		}
		return versions[i].Version > versions[j].Version
	})
}

// LatestVersion returns the newest version of a scraped source by build
// number, regardless of the source's display order.
func LatestVersion(source *configuration.PackageSource) *configuration.PackageSourceVersion {
	var latest *configuration.PackageSourceVersion
	for _, v := range source.Versions {
		if latest == nil || v.BuildNumber > latest.BuildNumber {
			latest = v
		}
	}
	return latest
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}
