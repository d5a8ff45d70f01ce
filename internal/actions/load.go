package actions

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mxcd/verparse/internal/configuration"
	"github.com/mxcd/verparse/internal/scraper"
	"github.com/mxcd/verparse/pkg/versionparser"
	"github.com/rs/zerolog/log"
)

type LoadOptions struct {
	ConfigPath   string
	OutputFormat string
	Concurrency  int
	// Flags adds tag types and rendering options on top of the file
	Flags *ParserOptions
	Out   io.Writer
	// Progress receives the scrape progress bar, nil hides it
	Progress io.Writer
}

// Load scrapes all package sources and prints their parsed versions.
// Sources that fail to scrape are reported in the result.
func Load(ctx context.Context, options *LoadOptions) (*scraper.ScrapeResult, error) {
	orchestrator, result, err := scrapeSources(ctx, options.ConfigPath, options.Flags, options.Concurrency, options.Progress)
	if err != nil {
		return nil, err
	}

	w := outputWriter(options.Out)
	if err := outputLoadResults(w, orchestrator.GetConfig(), options.OutputFormat); err != nil {
		log.Error().Err(err).Msg("Failed to output results")
		return nil, fmt.Errorf("output error: %w", err)
	}

	if result.HasErrors() {
		reportScrapeErrors(w, options.OutputFormat, result)
	} else {
		log.Info().Msg("Successfully loaded and scraped all package sources")
	}
	return result, nil
}

func scrapeSources(ctx context.Context, configPath string, flags *ParserOptions, concurrency int, progress io.Writer) (*scraper.Orchestrator, *scraper.ScrapeResult, error) {
	config, err := loadValidConfiguration(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := applyParserFlags(config, flags); err != nil {
		return nil, nil, err
	}

	orchestrator, err := scraper.NewOrchestrator(config)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create scraper orchestrator")
		return nil, nil, fmt.Errorf("orchestrator creation error: %w", err)
	}

	result, err := orchestrator.ScrapeAllSources(ctx, &scraper.ScrapeOptions{
		Concurrency:    concurrency,
		ProgressWriter: progress,
	})
	if err != nil {
		return nil, nil, err
	}

	log.Debug().
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("Scraping complete")

	return orchestrator, result, nil
}

func outputLoadResults(w io.Writer, config *configuration.Config, format string) error {
	if format != OutputFormatTable {
		return encodeStructured(w, format, map[string]interface{}{
			"packageSources": config.PackageSources,
		})
	}

	t := newTable(w, "📦 Package Sources")
	t.AppendHeader(table.Row{"Name", "Provider", "Type", "Version", "Normalized", "Tag", "Build Number", "Version Info"})

	for _, source := range config.PackageSources {
		if len(source.Versions) == 0 {
			t.AppendRow(table.Row{source.Name, source.Provider, source.Type, "-", "-", "-", "-", "No versions found"})
			t.AppendSeparator()
			continue
		}

		for i, version := range source.Versions {
			name, provider, sourceType := source.Name, source.Provider, string(source.Type)
			// source columns only on the first row
			if i > 0 {
				name, provider, sourceType = "", "", ""
			}

			tag := "-"
			if version.TagType != "" && version.TagType != versionparser.TagTypeNone {
				tag = fmt.Sprintf("%s %d", version.TagType, version.TagNumber)
			}

			t.AppendRow(table.Row{
				name,
				provider,
				sourceType,
				version.Version,
				version.Normalized,
				tag,
				version.BuildNumber,
				dash(version.VersionInformation),
			})
		}
		t.AppendSeparator()
	}

	t.Render()
	fmt.Fprintln(w)
	return nil
}

// reportScrapeErrors lists failed sources below table output; structured
// output stays parseable and gets a log line per failure instead
func reportScrapeErrors(w io.Writer, format string, result *scraper.ScrapeResult) {
	if format != OutputFormatTable {
		for _, scrapeErr := range result.Errors {
			log.Warn().Err(scrapeErr.Err).Str("source", scrapeErr.SourceName).Str("provider", scrapeErr.Provider).Msg("Source failed to scrape")
		}
		return
	}

	fmt.Fprintf(w, "\n⚠️  %d of %d source(s) failed to scrape:\n", result.Failed, result.Succeeded+result.Failed)
	for _, scrapeErr := range result.Errors {
		fmt.Fprintf(w, "  ❌ %s (provider: %s): %v\n", scrapeErr.SourceName, scrapeErr.Provider, scrapeErr.Err)
	}
	fmt.Fprintln(w)
}
