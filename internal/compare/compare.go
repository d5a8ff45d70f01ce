package compare

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mxcd/verparse/internal/configuration"
	"github.com/mxcd/verparse/internal/scraper"
	"github.com/mxcd/verparse/internal/target"
	"github.com/rs/zerolog/log"
)

// ComparisonResult represents the result of comparing a target item with its source
type ComparisonResult struct {
	TargetName      string
	TargetFile      string
	TargetType      configuration.TargetType
	TargetItemName  string // yaml path for yaml-field targets
	SourceName      string
	CurrentVersion  string
	LatestVersion   string
	UpdateType      UpdateType
	NeedsUpdate     bool
	Error           error
	IsWildcardMatch bool
	WildcardPattern string
	Labels          []string // target labels followed by item labels
}

// UpdateType names the most significant part that differs between the
// current and the latest version
type UpdateType string

const (
	UpdateTypeMajor UpdateType = "major"
	UpdateTypeMinor UpdateType = "minor"
	UpdateTypePatch UpdateType = "patch"
	UpdateTypeTag   UpdateType = "tag"
	UpdateTypeNone  UpdateType = "none"
)

// ParseUpdateTypes parses a comma separated filter like "major,minor".
func ParseUpdateTypes(s string) ([]UpdateType, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var types []UpdateType
	for _, part := range strings.Split(s, ",") {
		switch t := UpdateType(strings.ToLower(strings.TrimSpace(part))); t {
		case UpdateTypeMajor, UpdateTypeMinor, UpdateTypePatch, UpdateTypeTag:
			types = append(types, t)
		default:
			return nil, fmt.Errorf("invalid update type '%s' (must be major, minor, patch or tag)", part)
		}
	}
	return types, nil
}

// CompareEngine performs comparison between targets and sources
type CompareEngine struct {
	config        *configuration.Config
	parser        *configuration.VersionParser
	targetFactory *target.TargetFactory
}

func NewCompareEngine(config *configuration.Config, parser *configuration.VersionParser) *CompareEngine {
	return &CompareEngine{
		config:        config,
		parser:        parser,
		targetFactory: target.NewTargetFactory(config),
	}
}

// CompareAll compares all configured target items with their sources.
// Sources are expected to be scraped already.
func (e *CompareEngine) CompareAll() []*ComparisonResult {
	log.Debug().Msg("Starting comparison of all targets")

	results := make([]*ComparisonResult, 0)

	for _, targetConfig := range e.config.Targets {
		for i := range targetConfig.Items {
			results = append(results, e.compareItem(targetConfig, &targetConfig.Items[i]))
		}
	}

	log.Debug().
		Int("total", len(results)).
		Int("needsUpdate", CountNeedingUpdate(results)).
		Msg("Comparison complete")

	return results
}

func (e *CompareEngine) compareItem(targetConfig *configuration.Target, item *configuration.TargetItem) *ComparisonResult {
	targetName := item.Name
	if targetName == "" {
		targetName = targetConfig.Name
	}

	result := &ComparisonResult{
		TargetName:      targetName,
		TargetFile:      targetConfig.File,
		TargetType:      targetConfig.Type,
		TargetItemName:  item.YamlPath,
		SourceName:      item.Source,
		IsWildcardMatch: targetConfig.IsWildcardMatch,
		WildcardPattern: targetConfig.WildcardPattern,
		Labels:          append(slices.Clone(targetConfig.Labels), item.Labels...),
	}

	source := e.findSource(item.Source)
	if source == nil {
		result.Error = fmt.Errorf("source '%s' not found", item.Source)
		log.Error().Str("target", targetName).Str("source", item.Source).Msg("Source not found")
		return result
	}

	latest := scraper.LatestVersion(source)
	if latest == nil {
		result.Error = fmt.Errorf("no versions available for source '%s'", item.Source)
		log.Warn().Str("target", targetName).Str("source", item.Source).Msg("No versions available for source")
		return result
	}
	result.LatestVersion = latest.Version

	clients, err := e.targetFactory.CreateTarget(&configuration.Target{
		Name:  targetConfig.Name,
		Type:  targetConfig.Type,
		File:  targetConfig.File,
		Items: []configuration.TargetItem{*item},
	})
	if err != nil {
		result.Error = fmt.Errorf("failed to create target client: %w", err)
		log.Error().Err(err).Str("target", targetName).Msg("Failed to create target client")
		return result
	}

	currentVersion, err := clients[0].ReadCurrentVersion()
	if err != nil {
		result.Error = fmt.Errorf("failed to read current version: %w", err)
		if targetConfig.IsWildcardMatch {
			// wildcard matches may hit files without the path
			log.Debug().Err(err).Str("target", targetName).Str("file", targetConfig.File).Msg("Failed to read current version from wildcard match")
		} else {
			log.Error().Err(err).Str("target", targetName).Msg("Failed to read current version")
		}
		return result
	}
	result.CurrentVersion = currentVersion

	result.UpdateType = e.DetermineUpdateType(currentVersion, latest.Version)
	result.NeedsUpdate = result.UpdateType != UpdateTypeNone

	log.Debug().
		Str("target", targetName).
		Str("current", currentVersion).
		Str("latest", latest.Version).
		Str("updateType", string(result.UpdateType)).
		Msg("Compared target with source")

	return result
}

// DetermineUpdateType compares two version strings by build number. A
// latest version that is not higher than the current one yields none.
func (e *CompareEngine) DetermineUpdateType(current, latest string) UpdateType {
	currentVersion := e.parser.Parse(current)
	latestVersion := e.parser.Parse(latest)

	if !latestVersion.IsHigherThan(currentVersion) {
		return UpdateTypeNone
	}

	switch {
	case latestVersion.MajorVersion() != currentVersion.MajorVersion():
		return UpdateTypeMajor
	case latestVersion.MinorVersion() != currentVersion.MinorVersion():
		return UpdateTypeMinor
	case latestVersion.PatchVersion() != currentVersion.PatchVersion():
		return UpdateTypePatch
	default:
		return UpdateTypeTag
	}
}

func (e *CompareEngine) findSource(name string) *configuration.PackageSource {
	for _, source := range e.config.PackageSources {
		if source.Name == name {
			return source
		}
	}
	return nil
}

// FilterByUpdateType keeps results needing one of the given update types.
// Without types every result is kept.
func FilterByUpdateType(results []*ComparisonResult, types []UpdateType) []*ComparisonResult {
	if len(types) == 0 {
		return results
	}

	allowed := make(map[UpdateType]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}

	filtered := make([]*ComparisonResult, 0, len(results))
	for _, r := range results {
		if r.Error != nil || allowed[r.UpdateType] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterByLabels keeps results carrying at least one of the given labels.
func FilterByLabels(results []*ComparisonResult, labels []string) []*ComparisonResult {
	if len(labels) == 0 {
		return results
	}

	filtered := make([]*ComparisonResult, 0, len(results))
	for _, r := range results {
		if slices.ContainsFunc(r.Labels, func(l string) bool { return slices.Contains(labels, l) }) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func CountNeedingUpdate(results []*ComparisonResult) int {
	count := 0
	for _, r := range results {
		if r.NeedsUpdate {
			count++
		}
	}
	return count
}

func CountErrors(results []*ComparisonResult) int {
	count := 0
	for _, r := range results {
		if r.Error != nil {
			count++
		}
	}
	return count
}
