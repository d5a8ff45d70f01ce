package scraper

import (
	"context"

	"github.com/mxcd/verparse/internal/configuration"
)

// RawVersion is a version string as published by a package source,
// before parsing.
type RawVersion struct {
	Version     string
	Information string
}

type ProviderClient interface {
	ListVersions(ctx context.Context, source *configuration.PackageSource) ([]RawVersion, error)
}
