package actions

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mxcd/verparse/internal/configuration"
	"github.com/mxcd/verparse/pkg/versionparser"
	"github.com/rs/zerolog/log"
)

type ParseOptions struct {
	Versions     []string
	OutputFormat string
	Parser       *configuration.VersionParser
	Out          io.Writer
}

// Parse prints the parsed form of every input version
func Parse(options *ParseOptions) ([]*versionparser.Info, error) {
	infos := make([]*versionparser.Info, 0, len(options.Versions))
	for _, input := range options.Versions {
		info := options.Parser.Parse(input).Info()
		// keep the input as given, the parser drops a leading "v"
		info.OriginalVersion = input
		infos = append(infos, info)

		log.Debug().
			Str("input", input).
			Str("normalized", info.TagVersion).
			Int64("buildNumber", info.BuildNumberInt).
			Msg("Parsed version")
	}

	w := outputWriter(options.Out)
	if options.OutputFormat == OutputFormatTable {
		outputParseTable(w, infos)
		return infos, nil
	}

	if err := encodeStructured(w, options.OutputFormat, map[string]interface{}{"versions": infos}); err != nil {
		return nil, err
	}
	return infos, nil
}

func outputParseTable(w io.Writer, infos []*versionparser.Info) {
	t := newTable(w, "Parsed Versions")
	t.AppendHeader(table.Row{"Input", "Version", "Tag", "Type", "Number", "Branch", "Build Number"})

	for _, info := range infos {
		tag, tagType, number, branch := "-", "-", "-", "-"
		if info.Tag != nil {
			tag = dash(info.Tag.TagName)
			tagType = dash(info.Tag.TagType)
			if info.Tag.Number > 0 {
				number = strconv.Itoa(info.Tag.Number)
			}
			branch = dash(info.Tag.Branch)
		}

		t.AppendRow(table.Row{
			info.OriginalVersion,
			info.TagVersion,
			tag,
			tagType,
			number,
			branch,
			formatBuildNumber(info.BuildNumber),
		})
	}

	t.Render()
}

func formatBuildNumber(buildNumber float64) string {
	return fmt.Sprintf("%.6f", buildNumber)
}
