package actions

import (
	"fmt"
	"io"

	"github.com/mxcd/verparse/internal/configuration"
	"github.com/rs/zerolog/log"
)

type ValidateOptions struct {
	ConfigPath   string
	OutputFormat string
	Version      string
	Out          io.Writer
}

// Validate loads and validates the configuration and prints the result. An
// invalid configuration is reported as a ConfigurationError after output.
func Validate(options *ValidateOptions) (*configuration.ValidationResult, error) {
	log.Debug().Str("config", options.ConfigPath).Msg("Loading configuration...")

	config, err := configuration.LoadConfiguration(options.ConfigPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return nil, &ConfigurationError{Err: fmt.Errorf("configuration load error: %w", err)}
	}

	log.Debug().Msg("Configuration loaded successfully")

	validationResult := configuration.ValidateConfiguration(config)

	if err := outputValidationResult(outputWriter(options.Out), validationResult, options); err != nil {
		log.Error().Err(err).Msg("Failed to output validation results")
		return nil, fmt.Errorf("output error: %w", err)
	}

	if !validationResult.Valid {
		return validationResult, &ConfigurationError{Err: fmt.Errorf("configuration validation failed")}
	}

	log.Info().Msg("Configuration is valid")
	return validationResult, nil
}

// loadValidConfiguration loads the configuration and logs every
// validation error when it is invalid
func loadValidConfiguration(configPath string) (*configuration.Config, error) {
	log.Debug().Str("config", configPath).Msg("Loading configuration...")

	config, err := configuration.LoadConfiguration(configPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return nil, &ConfigurationError{Err: fmt.Errorf("configuration load error: %w", err)}
	}

	validationResult := configuration.ValidateConfiguration(config)
	if !validationResult.Valid {
		log.Error().Msg("Configuration validation failed")
		for _, validationErr := range validationResult.Errors {
			log.Error().Str("field", validationErr.Field).Msg(validationErr.Message)
		}
		return nil, &ConfigurationError{Err: fmt.Errorf("configuration validation failed")}
	}

	log.Debug().Msg("Configuration is valid")
	return config, nil
}

func outputValidationResult(w io.Writer, result *configuration.ValidationResult, options *ValidateOptions) error {
	switch options.OutputFormat {
	case OutputFormatTable:
		outputValidationTable(w, result)
		return nil
	case OutputFormatSARIF:
		return encodeJSON(w, validationSARIF(result, options.Version))
	default:
		return encodeStructured(w, options.OutputFormat, map[string]interface{}{
			"valid":      result.Valid,
			"errorCount": len(result.Errors),
			"errors":     result.Errors,
		})
	}
}

func outputValidationTable(w io.Writer, result *configuration.ValidationResult) {
	if result.Valid {
		fmt.Fprintln(w, "✓ Configuration is valid")
		return
	}

	fmt.Fprintln(w, "✗ Configuration validation failed:")
	fmt.Fprintln(w)
	for _, err := range result.Errors {
		fmt.Fprintf(w, "  • %s\n", err.Error())
	}
	fmt.Fprintf(w, "\nTotal errors: %d\n", len(result.Errors))
}

// validationSARIF renders a SARIF 2.1.0 log with one result per error
func validationSARIF(result *configuration.ValidationResult, version string) map[string]interface{} {
	if version == "" {
		version = "development"
	}

	results := make([]interface{}, len(result.Errors))
	for i, err := range result.Errors {
		results[i] = map[string]interface{}{
			"ruleId": "configuration-error",
			"level":  "error",
			"message": map[string]interface{}{
				"text": err.Message,
			},
			"locations": []interface{}{
				map[string]interface{}{
					"logicalLocations": []interface{}{
						map[string]interface{}{
							"fullyQualifiedName": err.Field,
						},
					},
				},
			},
		}
	}

	return map[string]interface{}{
		"version": "2.1.0",
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"runs": []interface{}{
			map[string]interface{}{
				"tool": map[string]interface{}{
					"driver": map[string]interface{}{
						"name":           "verparse-validate",
						"informationUri": "https://github.com/mxcd/verparse",
						"version":        version,
					},
				},
				"results": results,
			},
		},
	}
}
