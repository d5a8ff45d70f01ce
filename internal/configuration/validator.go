package configuration

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mxcd/verparse/pkg/versionparser"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains the results of configuration validation
type ValidationResult struct {
	Valid  bool               `json:"valid" yaml:"valid"`
	Errors []*ValidationError `json:"errors" yaml:"errors"`
}

// AddError adds a validation error to the result
func (r *ValidationResult) AddError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{
		Field:   field,
		Message: message,
	})
}

// ValidateConfiguration checks tag types, providers, sources and targets
// and collects every problem found.
func ValidateConfiguration(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: make([]*ValidationError, 0),
	}

	validateTagTypes(config, result)
	validateRendering(config, result)
	providers := validateProviders(config, result)
	sources := validateSources(config, providers, result)
	validateTargets(config, sources, result)

	return result
}

// ValidateVocabulary checks only tag types and rendering options, for
// commands that parse versions without sources or targets.
func ValidateVocabulary(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: make([]*ValidationError, 0),
	}
	validateTagTypes(config, result)
	validateRendering(config, result)
	return result
}

func validateTagTypes(config *Config, result *ValidationResult) {
	names := make(map[string]bool)
	for i, tagType := range config.TagTypes {
		fieldPrefix := fmt.Sprintf("tagTypes[%d]", i)
		name := strings.ToLower(strings.TrimSpace(tagType.Name))

		if name == "" {
			result.AddError(fieldPrefix+".name", "tag type name cannot be empty")
		} else {
			if names[name] {
				result.AddError(fieldPrefix+".name", fmt.Sprintf("duplicate tag type name: %s", name))
			}
			names[name] = true
		}

		if !isTagKeyword(name) {
			result.AddError(fieldPrefix+".name", fmt.Sprintf("tag type name must be alphanumeric: %s", tagType.Name))
		}

		if tagType.Short != "" && !isTagKeyword(tagType.Short) {
			result.AddError(fieldPrefix+".short", fmt.Sprintf("short name must be alphanumeric: %s", tagType.Short))
		}

		if tagType.Weight < 0 {
			result.AddError(fieldPrefix+".weight", fmt.Sprintf("weight cannot be negative: %d", tagType.Weight))
		}
		if tagType.Weight > versionparser.MaxTagWeight {
			result.AddError(fieldPrefix+".weight", fmt.Sprintf("weight cannot exceed %d: %d", versionparser.MaxTagWeight, tagType.Weight))
		}
	}
}

func validateRendering(config *Config, result *ValidationResult) {
	if config.Rendering == nil || config.Rendering.Separator == "" {
		return
	}
	for _, r := range config.Rendering.Separator {
		if isAlphanumericRune(r) {
			result.AddError("rendering.separator", fmt.Sprintf("separator cannot contain letters or digits: %s", config.Rendering.Separator))
			return
		}
	}
}

func validateProviders(config *Config, result *ValidationResult) map[string]*PackageSourceProvider {
	providers := make(map[string]*PackageSourceProvider)

	for i, provider := range config.PackageSourceProviders {
		fieldPrefix := fmt.Sprintf("packageSourceProviders[%d]", i)

		if strings.TrimSpace(provider.Name) == "" {
			result.AddError(fieldPrefix+".name", "provider name cannot be empty")
		} else {
			if _, ok := providers[provider.Name]; ok {
				result.AddError(fieldPrefix+".name", fmt.Sprintf("duplicate provider name: %s", provider.Name))
			}
			providers[provider.Name] = provider
		}

		if !isValidProviderType(provider.Type) {
			result.AddError(fieldPrefix+".type", fmt.Sprintf("invalid provider type: %s", provider.Type))
		}

		if provider.AuthType != "" && !isValidAuthType(provider.AuthType) {
			result.AddError(fieldPrefix+".authType", fmt.Sprintf("invalid auth type: %s", provider.AuthType))
		}

		switch provider.AuthType {
		case PackageSourceProviderAuthTypeBasic:
			if strings.TrimSpace(provider.Username) == "" {
				result.AddError(fieldPrefix+".username", "username is required for basic auth")
			}
			if strings.TrimSpace(provider.Password) == "" {
				result.AddError(fieldPrefix+".password", "password is required for basic auth")
			}
		case PackageSourceProviderAuthTypeToken:
			if strings.TrimSpace(provider.Token) == "" {
				result.AddError(fieldPrefix+".token", "token is required for token auth")
			}
		}
	}

	return providers
}

func validateSources(config *Config, providers map[string]*PackageSourceProvider, result *ValidationResult) map[string]bool {
	sourceNames := make(map[string]bool)

	for i, source := range config.PackageSources {
		fieldPrefix := fmt.Sprintf("packageSources[%d]", i)

		if strings.TrimSpace(source.Name) == "" {
			result.AddError(fieldPrefix+".name", "source name cannot be empty")
		} else {
			if sourceNames[source.Name] {
				result.AddError(fieldPrefix+".name", fmt.Sprintf("duplicate source name: %s", source.Name))
			}
			sourceNames[source.Name] = true
		}

		var provider *PackageSourceProvider
		if strings.TrimSpace(source.Provider) == "" {
			result.AddError(fieldPrefix+".provider", "provider reference cannot be empty")
		} else if p, ok := providers[source.Provider]; !ok {
			result.AddError(fieldPrefix+".provider", fmt.Sprintf("provider '%s' not found in packageSourceProviders", source.Provider))
		} else {
			provider = p
		}

		if !isValidSourceType(source.Type) {
			result.AddError(fieldPrefix+".type", fmt.Sprintf("invalid source type: %s", source.Type))
		} else if provider != nil {
			if err := validateSourceProviderCombination(source.Type, provider.Type); err != nil {
				result.AddError(fieldPrefix+".type", err.Error())
			}
		}

		if strings.TrimSpace(source.URI) == "" {
			result.AddError(fieldPrefix+".uri", "URI cannot be empty")
		}

		if _, err := ParseConstraint(source.VersionConstraint); err != nil {
			result.AddError(fieldPrefix+".versionConstraint", err.Error())
		}

		if source.TagPattern != "" {
			if _, err := regexp.Compile(source.TagPattern); err != nil {
				result.AddError(fieldPrefix+".tagPattern", fmt.Sprintf("invalid regular expression: %v", err))
			}
		}
		if source.ExcludePattern != "" {
			if _, err := regexp.Compile(source.ExcludePattern); err != nil {
				result.AddError(fieldPrefix+".excludePattern", fmt.Sprintf("invalid regular expression: %v", err))
			}
		}

		if source.TagLimit < 0 {
			result.AddError(fieldPrefix+".tagLimit", "tagLimit cannot be negative")
		}

		if source.SortBy != "" && !isValidSortBy(source.SortBy) {
			result.AddError(fieldPrefix+".sortBy", fmt.Sprintf("invalid sortBy: %s", source.SortBy))
		}
	}

	return sourceNames
}

func validateTargets(config *Config, sourceNames map[string]bool, result *ValidationResult) {
	for i, target := range config.Targets {
		fieldPrefix := fmt.Sprintf("targets[%d]", i)

		if strings.TrimSpace(target.Name) == "" {
			result.AddError(fieldPrefix+".name", "target name cannot be empty")
		}

		if !isValidTargetType(target.Type) {
			result.AddError(fieldPrefix+".type", fmt.Sprintf("invalid target type: %s", target.Type))
		}

		if target.Type == TargetTypeYamlField && strings.TrimSpace(target.File) == "" {
			result.AddError(fieldPrefix+".file", "file path cannot be empty")
		}

		if len(target.Items) == 0 {
			result.AddError(fieldPrefix+".items", "at least one item is required")
		}

		for j, item := range target.Items {
			itemPrefix := fmt.Sprintf("%s.items[%d]", fieldPrefix, j)

			if strings.TrimSpace(item.Source) == "" {
				result.AddError(itemPrefix+".source", "source reference cannot be empty")
			} else if !sourceNames[item.Source] {
				result.AddError(itemPrefix+".source", fmt.Sprintf("source '%s' not found in packageSources", item.Source))
			}

			switch target.Type {
			case TargetTypeLiteral:
				if strings.TrimSpace(item.CurrentVersion) == "" {
					result.AddError(itemPrefix+".currentVersion", "currentVersion is required for literal target")
				}
			case TargetTypeYamlField:
				if strings.TrimSpace(item.YamlPath) == "" {
					result.AddError(itemPrefix+".yamlPath", "yamlPath is required for yaml-field target")
				}
			}
		}
	}
}

func isValidProviderType(providerType PackageSourceProviderType) bool {
	switch providerType {
	case PackageSourceProviderTypeGitHub, PackageSourceProviderTypeGit:
		return true
	default:
		return false
	}
}

func isValidAuthType(authType PackageSourceProviderAuthType) bool {
	switch authType {
	case PackageSourceProviderAuthTypeNone,
		PackageSourceProviderAuthTypeBasic,
		PackageSourceProviderAuthTypeToken:
		return true
	default:
		return false
	}
}

func isValidSourceType(sourceType PackageSourceType) bool {
	switch sourceType {
	case PackageSourceTypeGitRelease,
		PackageSourceTypeGitTag,
		PackageSourceTypeGitRepository:
		return true
	default:
		return false
	}
}

func isValidSortBy(sortBy SortBy) bool {
	return sortBy == SortByBuildNumber || sortBy == SortByAlphabetical
}

// validateSourceProviderCombination validates that the source type is compatible with the provider type
func validateSourceProviderCombination(sourceType PackageSourceType, providerType PackageSourceProviderType) error {
	switch sourceType {
	case PackageSourceTypeGitRelease, PackageSourceTypeGitTag:
		if providerType != PackageSourceProviderTypeGitHub {
			return fmt.Errorf("source type '%s' requires provider type 'github', but provider type is '%s'", sourceType, providerType)
		}
	case PackageSourceTypeGitRepository:
		if providerType != PackageSourceProviderTypeGit {
			return fmt.Errorf("source type '%s' requires provider type 'git', but provider type is '%s'", sourceType, providerType)
		}
	}
	return nil
}

func isValidTargetType(targetType TargetType) bool {
	switch targetType {
	case TargetTypeLiteral, TargetTypeYamlField:
		return true
	default:
		return false
	}
}

// isTagKeyword reports whether s can be matched as a tag keyword: ASCII
// letters and digits, starting with a letter.
func isTagKeyword(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	for i, r := range s {
		if !isAlphanumericRune(r) || (i == 0 && r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func isAlphanumericRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
