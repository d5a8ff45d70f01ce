package actions

import (
	"fmt"
	"io"

	"github.com/mxcd/verparse/internal/configuration"
	"github.com/mxcd/verparse/pkg/versionparser"
)

const (
	ComparisonHigher = "higher"
	ComparisonLower  = "lower"
	ComparisonEqual  = "equal"
)

type CompareVersionsOptions struct {
	A            string
	B            string
	OutputFormat string
	Parser       *configuration.VersionParser
	Out          io.Writer
}

type VersionComparison struct {
	A            string  `json:"a" yaml:"a"`
	B            string  `json:"b" yaml:"b"`
	Result       string  `json:"result" yaml:"result"`
	BuildNumberA float64 `json:"buildNumberA" yaml:"buildNumberA"`
	BuildNumberB float64 `json:"buildNumberB" yaml:"buildNumberB"`
}

// CompareVersions reports whether A is higher, lower or equal to B
func CompareVersions(options *CompareVersionsOptions) (*VersionComparison, error) {
	a := options.Parser.Parse(options.A)
	b := options.Parser.Parse(options.B)

	comparison := &VersionComparison{
		A:            options.A,
		B:            options.B,
		BuildNumberA: a.BuildNumber(),
		BuildNumberB: b.BuildNumber(),
	}

	switch versionparser.Compare(a, b) {
	case 1:
		comparison.Result = ComparisonHigher
	case -1:
		comparison.Result = ComparisonLower
	default:
		comparison.Result = ComparisonEqual
	}

	w := outputWriter(options.Out)
	switch options.OutputFormat {
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(w, comparison.Result)
	default:
		if err := encodeStructured(w, options.OutputFormat, comparison); err != nil {
			return nil, err
		}
	}

	return comparison, nil
}
