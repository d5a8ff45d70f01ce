package actions

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mxcd/verparse/internal/compare"
	"github.com/mxcd/verparse/internal/scraper"
	"github.com/mxcd/verparse/internal/target"
	"github.com/rs/zerolog/log"
)

type CheckOptions struct {
	ConfigPath   string
	OutputFormat string
	Only         string
	Labels       []string
	Concurrency  int
	Flags        *ParserOptions
	Out          io.Writer
	Progress     io.Writer
}

type CheckResult struct {
	Results    []*compare.ComparisonResult
	Scrape     *scraper.ScrapeResult
	HasUpdates bool
}

// checkRow is the structured output form of a comparison result
type checkRow struct {
	Target         string             `json:"target" yaml:"target"`
	File           string             `json:"file,omitempty" yaml:"file,omitempty"`
	YamlPath       string             `json:"yamlPath,omitempty" yaml:"yamlPath,omitempty"`
	Source         string             `json:"source" yaml:"source"`
	CurrentVersion string             `json:"currentVersion,omitempty" yaml:"currentVersion,omitempty"`
	LatestVersion  string             `json:"latestVersion,omitempty" yaml:"latestVersion,omitempty"`
	UpdateType     compare.UpdateType `json:"updateType,omitempty" yaml:"updateType,omitempty"`
	NeedsUpdate    bool               `json:"needsUpdate" yaml:"needsUpdate"`
	Error          string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// Check scrapes all sources and compares each target item's current
// version with the latest version of its source.
func Check(ctx context.Context, options *CheckOptions) (*CheckResult, error) {
	only, err := compare.ParseUpdateTypes(options.Only)
	if err != nil {
		return nil, err
	}

	orchestrator, scrapeResult, err := scrapeSources(ctx, options.ConfigPath, options.Flags, options.Concurrency, options.Progress)
	if err != nil {
		return nil, err
	}

	// partial scrape results still allow comparing the other targets
	results := compare.NewCompareEngine(orchestrator.GetConfig(), orchestrator.Parser()).CompareAll()
	results = compare.FilterByUpdateType(filterWildcardPathErrors(results), only)
	results = compare.FilterByLabels(results, options.Labels)

	w := outputWriter(options.Out)
	if err := outputCheckResults(w, results, options.OutputFormat); err != nil {
		log.Error().Err(err).Msg("Failed to output comparison results")
		return nil, fmt.Errorf("output error: %w", err)
	}

	if scrapeResult.HasErrors() {
		reportScrapeErrors(w, options.OutputFormat, scrapeResult)
	}

	hasUpdates := compare.CountNeedingUpdate(results) > 0
	if hasUpdates {
		log.Info().Msg("Updates are available")
	} else {
		log.Info().Msg("All targets are up to date")
	}

	return &CheckResult{
		Results:    results,
		Scrape:     scrapeResult,
		HasUpdates: hasUpdates,
	}, nil
}

// filterWildcardPathErrors drops missing yaml path errors of wildcard
// matches as long as another file of the same pattern has the path.
func filterWildcardPathErrors(results []*compare.ComparisonResult) []*compare.ComparisonResult {
	found := make(map[string]bool)
	for _, result := range results {
		if result.IsWildcardMatch && !isPathNotFound(result.Error) {
			found[wildcardKey(result)] = true
		}
	}

	filtered := make([]*compare.ComparisonResult, 0, len(results))
	for _, result := range results {
		if result.IsWildcardMatch && isPathNotFound(result.Error) && found[wildcardKey(result)] {
			continue
		}
		filtered = append(filtered, result)
	}
	return filtered
}

func wildcardKey(result *compare.ComparisonResult) string {
	return result.WildcardPattern + "|" + result.TargetItemName
}

func isPathNotFound(err error) bool {
	var notFound *target.YamlFieldNotFoundError
	return errors.As(err, &notFound)
}

func outputCheckResults(w io.Writer, results []*compare.ComparisonResult, format string) error {
	if format == OutputFormatTable {
		outputCheckTable(w, results)
		return nil
	}

	rows := make([]checkRow, len(results))
	for i, result := range results {
		rows[i] = checkRow{
			Target:         result.TargetName,
			File:           result.TargetFile,
			YamlPath:       result.TargetItemName,
			Source:         result.SourceName,
			CurrentVersion: result.CurrentVersion,
			LatestVersion:  result.LatestVersion,
			UpdateType:     result.UpdateType,
			NeedsUpdate:    result.NeedsUpdate,
		}
		if result.Error != nil {
			rows[i].Error = result.Error.Error()
		}
	}

	return encodeStructured(w, format, map[string]interface{}{
		"results":     rows,
		"needsUpdate": compare.CountNeedingUpdate(results),
		"errors":      compare.CountErrors(results),
	})
}

func outputCheckTable(w io.Writer, results []*compare.ComparisonResult) {
	t := newTable(w, "🔍 Version Comparison")
	t.AppendHeader(table.Row{"Target", "Source", "Current", "Latest", "Update Type", "Status"})

	for _, result := range results {
		firstColumn := result.TargetName
		if result.TargetItemName != "" {
			firstColumn = fmt.Sprintf("%s\n  → %s", result.TargetFile, result.TargetItemName)
		}

		if result.Error != nil {
			t.AppendRow(table.Row{firstColumn, result.SourceName, "-", "-", "-", fmt.Sprintf("❌ Error: %v", result.Error)})
			continue
		}

		status := "✅ Up to date"
		if result.NeedsUpdate {
			status = fmt.Sprintf("🔄 Update available (%s)", result.UpdateType)
		}
		t.AppendRow(table.Row{
			firstColumn,
			result.SourceName,
			result.CurrentVersion,
			result.LatestVersion,
			result.UpdateType,
			status,
		})
	}

	t.Render()
	fmt.Fprintln(w)

	if errorCount := compare.CountErrors(results); errorCount > 0 {
		fmt.Fprintf(w, "⚠️  Total: %d target(s) with errors\n", errorCount)
	}
	if updates := compare.CountNeedingUpdate(results); updates > 0 {
		fmt.Fprintf(w, "🔄 Total: %d target(s) need updating\n", updates)
	} else {
		fmt.Fprintln(w, "✅ All targets are up to date")
	}
}
