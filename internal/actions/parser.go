package actions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mxcd/verparse/internal/configuration"
	"github.com/rs/zerolog/log"
)

// ParserOptions describe where tag types and rendering options come from.
// Flags are applied on top of the configuration file.
type ParserOptions struct {
	ConfigPath string
	TagTypes   []string
	Separator  string
	Uppercase  bool
}

// BuildParser returns a version parser for ad-hoc commands. The
// configuration file is optional here; only its tag types and rendering
// options are used.
func BuildParser(options *ParserOptions) (*configuration.VersionParser, error) {
	config := &configuration.Config{}

	if options.ConfigPath != "" {
		loaded, err := configuration.LoadConfiguration(options.ConfigPath)
		if err != nil {
			return nil, &ConfigurationError{Err: fmt.Errorf("configuration load error: %w", err)}
		}
		config.TagTypes = loaded.TagTypes
		config.Rendering = loaded.Rendering
	}

	if err := applyParserFlags(config, options); err != nil {
		return nil, err
	}

	parser, err := configuration.NewVersionParser(config)
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	log.Trace().Strs("tagTypes", parser.Vocabulary().Names()).Msg("Version parser ready")
	return parser, nil
}

// applyParserFlags adds the tag type, separator and uppercase flags to the
// configuration. Nil options leave it untouched.
func applyParserFlags(config *configuration.Config, options *ParserOptions) error {
	if options == nil {
		return nil
	}

	for _, flag := range options.TagTypes {
		tagType, err := ParseTagTypeFlag(flag)
		if err != nil {
			return &ConfigurationError{Err: err}
		}
		config.TagTypes = append(config.TagTypes, tagType)
	}

	if options.Separator != "" || options.Uppercase {
		rendering := &configuration.Rendering{}
		if config.Rendering != nil {
			*rendering = *config.Rendering
		}
		if options.Separator != "" {
			rendering.Separator = options.Separator
		}
		if options.Uppercase {
			rendering.TagUppercase = true
		}
		config.Rendering = rendering
	}

	if result := configuration.ValidateVocabulary(config); !result.Valid {
		return &ConfigurationError{Err: fmt.Errorf("invalid parser options: %s", result.Errors[0].Error())}
	}
	return nil
}

// ParseTagTypeFlag parses "name:weight" or "name:weight:short".
func ParseTagTypeFlag(s string) (*configuration.TagType, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("invalid tag type '%s' (expected name:weight[:short])", s)
	}

	weight, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid weight in tag type '%s': %w", s, err)
	}

	tagType := &configuration.TagType{
		Name:   strings.TrimSpace(parts[0]),
		Weight: weight,
	}
	if len(parts) == 3 {
		tagType.Short = strings.TrimSpace(parts[2])
	}
	return tagType, nil
}
