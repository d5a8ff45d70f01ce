package actions

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatSARIF = "sarif"
	OutputFormatText  = "text"
)

// ConfigurationError marks failures to load or validate the configuration
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func outputWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func encodeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func encodeYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// encodeStructured writes v as json or yaml
func encodeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case OutputFormatJSON:
		return encodeJSON(w, v)
	case OutputFormatYAML:
		return encodeYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
