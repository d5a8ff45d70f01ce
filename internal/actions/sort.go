package actions

import (
	"fmt"
	"io"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mxcd/verparse/internal/configuration"
	"github.com/mxcd/verparse/pkg/versionparser"
)

type SortOptions struct {
	Versions     []string
	Reverse      bool
	OutputFormat string
	Parser       *configuration.VersionParser
	Out          io.Writer
}

type sortedVersion struct {
	Version     string  `json:"version" yaml:"version"`
	Normalized  string  `json:"normalized" yaml:"normalized"`
	BuildNumber float64 `json:"buildNumber" yaml:"buildNumber"`
}

// Sort orders the input versions by build number, lowest first. Inputs
// with equal build numbers keep their order.
func Sort(options *SortOptions) ([]string, error) {
	parsed := make([]*versionparser.Version, len(options.Versions))
	inputs := make(map[*versionparser.Version]string, len(options.Versions))
	for i, input := range options.Versions {
		parsed[i] = options.Parser.Parse(input)
		inputs[parsed[i]] = input
	}

	versionparser.Sort(parsed)
	if options.Reverse {
		slices.Reverse(parsed)
	}

	sorted := make([]string, len(parsed))
	rows := make([]sortedVersion, len(parsed))
	for i, v := range parsed {
		sorted[i] = inputs[v]
		rows[i] = sortedVersion{Version: inputs[v], Normalized: v.TagVersion(), BuildNumber: v.BuildNumber()}
	}

	w := outputWriter(options.Out)
	switch options.OutputFormat {
	case OutputFormatTable:
		t := newTable(w, "Sorted Versions")
		t.AppendHeader(table.Row{"#", "Version", "Normalized", "Build Number"})
		for i, row := range rows {
			t.AppendRow(table.Row{i + 1, row.Version, row.Normalized, formatBuildNumber(row.BuildNumber)})
		}
		t.Render()
	case OutputFormatText:
		for _, v := range sorted {
			fmt.Fprintln(w, v)
		}
	default:
		if err := encodeStructured(w, options.OutputFormat, map[string]interface{}{"versions": rows}); err != nil {
			return nil, err
		}
	}

	return sorted, nil
}
