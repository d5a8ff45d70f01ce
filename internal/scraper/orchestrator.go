package scraper

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/mxcd/verparse/internal/configuration"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// ScrapeError records a scraping failure for a single source
type ScrapeError struct {
	SourceName string
	Provider   string
	Err        error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("source %s (provider %s): %v", e.SourceName, e.Provider, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// ScrapeResult holds the outcome of a ScrapeAllSources call
type ScrapeResult struct {
	Succeeded int
	Failed    int
	Errors    []*ScrapeError
}

// HasErrors returns true if any sources failed to scrape
func (r *ScrapeResult) HasErrors() bool {
	return len(r.Errors) > 0
}

type ScrapeOptions struct {
	// Concurrency caps parallel source requests, defaults to 4.
	Concurrency int
	// ProgressWriter receives the progress bar, nil disables it.
	ProgressWriter io.Writer
}

type Orchestrator struct {
	config          *configuration.Config
	parser          *configuration.VersionParser
	providerClients map[string]ProviderClient
}

func NewOrchestrator(config *configuration.Config) (*Orchestrator, error) {
	parser, err := configuration.NewVersionParser(config)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		config:          config,
		parser:          parser,
		providerClients: make(map[string]ProviderClient),
	}

	for _, provider := range config.PackageSourceProviders {
		client, err := createProviderClient(provider)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider client for %s: %w", provider.Name, err)
		}
		o.providerClients[provider.Name] = client
	}

	return o, nil
}

func createProviderClient(provider *configuration.PackageSourceProvider) (ProviderClient, error) {
	switch provider.Type {
	case configuration.PackageSourceProviderTypeGitHub:
		return NewGitHubProviderClient(provider), nil
	case configuration.PackageSourceProviderTypeGit:
		return NewGitProviderClient(provider), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", provider.Type)
	}
}

// SetProviderClient replaces the client used for a provider name.
func (o *Orchestrator) SetProviderClient(name string, client ProviderClient) {
	o.providerClients[name] = client
}

// ScrapeAllSources scrapes every package source and stores the processed
// versions on it. Failing sources are collected in the result and do not
// stop the others; only a cancelled context does.
func (o *Orchestrator) ScrapeAllSources(ctx context.Context, options *ScrapeOptions) (*ScrapeResult, error) {
	if options == nil {
		options = &ScrapeOptions{}
	}
	concurrency := options.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	log.Debug().
		Int("count", len(o.config.PackageSources)).
		Int("concurrency", concurrency).
		Msg("Starting to scrape all package sources")

	bar := newProgressBar(len(o.config.PackageSources), options.ProgressWriter)

	result := &ScrapeResult{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, source := range o.config.PackageSources {
		g.Go(func() error {
			err := o.scrapeSource(gctx, source)

			mu.Lock()
			defer mu.Unlock()
			if bar != nil {
				_ = bar.Add(1)
			}

			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Error().
					Err(err).
					Str("source", source.Name).
					Str("provider", source.Provider).
					Msg("Failed to scrape package source")
				result.Failed++
				result.Errors = append(result.Errors, &ScrapeError{
					SourceName: source.Name,
					Provider:   source.Provider,
					Err:        err,
				})
				return nil
			}
			result.Succeeded++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("scraping aborted: %w", err)
	}

	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintf(options.ProgressWriter, "\n")
	}

	if result.HasErrors() {
		log.Warn().
			Int("succeeded", result.Succeeded).
			Int("failed", result.Failed).
			Msg("Scraped package sources with errors")
	} else {
		log.Debug().Msg("Successfully scraped all package sources")
	}
	return result, nil
}

func (o *Orchestrator) scrapeSource(ctx context.Context, source *configuration.PackageSource) error {
	log.Debug().
		Str("source", source.Name).
		Str("provider", source.Provider).
		Str("type", string(source.Type)).
		Str("uri", source.URI).
		Msg("Scraping package source")

	client, exists := o.providerClients[source.Provider]
	if !exists {
		return fmt.Errorf("provider %s not found", source.Provider)
	}

	raw, err := client.ListVersions(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to scrape package source: %w", err)
	}

	versions, err := ProcessVersions(o.parser, source, raw)
	if err != nil {
		return err
	}
	source.Versions = versions

	log.Debug().
		Str("source", source.Name).
		Int("versions", len(versions)).
		Msg("Successfully scraped package source")

	return nil
}

func (o *Orchestrator) GetConfig() *configuration.Config {
	return o.config
}

func (o *Orchestrator) Parser() *configuration.VersionParser {
	return o.parser
}

func newProgressBar(count int, w io.Writer) *progressbar.ProgressBar {
	if w == nil || count == 0 {
		return nil
	}
	return progressbar.NewOptions(count,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Scraping package sources:"),
		progressbar.OptionSetItsString("pkg"),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
