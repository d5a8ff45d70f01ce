package configuration

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// placeholderPattern matches ${...} placeholders.
var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// SubstitutionContext resolves ${VAR} and ${SOPS[file].path} placeholders.
// Decrypted SOPS files are cached per context.
type SubstitutionContext struct {
	sopsCache map[string]map[string]interface{}
	decrypt   func(filePath string) (map[string]interface{}, error)
}

func NewSubstitutionContext() *SubstitutionContext {
	return &SubstitutionContext{
		sopsCache: make(map[string]map[string]interface{}),
		decrypt:   DecryptSOPSFile,
	}
}

// SubstituteVariables replaces all placeholders in the input. Unset
// environment variables are an error.
func (ctx *SubstitutionContext) SubstituteVariables(input string) (string, error) {
	result := input

	for _, match := range placeholderPattern.FindAllStringSubmatch(input, -1) {
		placeholder, expression := match[0], match[1]

		var value string
		if strings.HasPrefix(expression, "SOPS[") {
			resolved, err := ctx.resolveSOPSReference(expression)
			if err != nil {
				return "", fmt.Errorf("failed to resolve SOPS reference %s: %w", placeholder, err)
			}
			value = resolved
		} else {
			value = os.Getenv(expression)
			if value == "" {
				return "", fmt.Errorf("environment variable %s is not set", expression)
			}
		}

		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result, nil
}

// resolveSOPSReference resolves SOPS[path/to/file.yml].path.to.value
func (ctx *SubstitutionContext) resolveSOPSReference(expression string) (string, error) {
	closeBracketIdx := strings.Index(expression, "]")
	if closeBracketIdx == -1 {
		return "", fmt.Errorf("invalid SOPS reference format (missing ]): %s", expression)
	}

	filePath := expression[len("SOPS["):closeBracketIdx]
	rest := expression[closeBracketIdx+1:]

	if rest == "" {
		return "", fmt.Errorf("SOPS reference must include a YAML path: %s", expression)
	}
	if rest[0] != '.' {
		return "", fmt.Errorf("invalid SOPS reference format (expected . after ]): %s", expression)
	}
	yamlPath := rest[1:]

	data, ok := ctx.sopsCache[filePath]
	if !ok {
		var err error
		data, err = ctx.decrypt(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to load SOPS file %s: %w", filePath, err)
		}
		ctx.sopsCache[filePath] = data
	}

	value, err := GetYAMLValue(data, yamlPath)
	if err != nil {
		return "", fmt.Errorf("failed to access path %s in SOPS file %s: %w", yamlPath, filePath, err)
	}

	return fmt.Sprintf("%v", value), nil
}

// substitutableField is a config string that may contain placeholders.
type substitutableField struct {
	owner string
	name  string
	value *string
}

func (ctx *SubstitutionContext) substituteFields(fields []substitutableField) error {
	for _, field := range fields {
		if *field.value == "" {
			continue
		}
		substituted, err := ctx.SubstituteVariables(*field.value)
		if err != nil {
			return fmt.Errorf("failed to substitute %s in %s: %w", field.name, field.owner, err)
		}
		*field.value = substituted
	}
	return nil
}

// SubstituteInConfig substitutes placeholders in provider credentials and
// URLs, source URIs and constraints, and target files and current versions.
func (ctx *SubstitutionContext) SubstituteInConfig(config *Config) error {
	var fields []substitutableField

	for _, provider := range config.PackageSourceProviders {
		owner := "provider " + provider.Name
		fields = append(fields,
			substitutableField{owner, "BaseUrl", &provider.BaseUrl},
			substitutableField{owner, "Username", &provider.Username},
			substitutableField{owner, "Password", &provider.Password},
			substitutableField{owner, "Token", &provider.Token},
		)
	}

	for _, source := range config.PackageSources {
		owner := "source " + source.Name
		fields = append(fields,
			substitutableField{owner, "URI", &source.URI},
			substitutableField{owner, "VersionConstraint", &source.VersionConstraint},
		)
	}

	for _, target := range config.Targets {
		owner := "target " + target.Name
		fields = append(fields, substitutableField{owner, "File", &target.File})
		for i := range target.Items {
			fields = append(fields, substitutableField{owner, "CurrentVersion", &target.Items[i].CurrentVersion})
		}
	}

	return ctx.substituteFields(fields)
}

// GetYAMLValue retrieves a value from a nested YAML structure using dot notation
// Example: "credentials.token" accesses data["credentials"]["token"]
func GetYAMLValue(data map[string]interface{}, path string) (interface{}, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	var current interface{} = data
	for i, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, fmt.Errorf("invalid path: empty segment at position %d", i)
		}

		var value interface{}
		var ok bool
		switch v := current.(type) {
		case map[string]interface{}:
			value, ok = v[part]
		case map[interface{}]interface{}:
			value, ok = v[part]
		default:
			return nil, fmt.Errorf("path not found: %s (cannot traverse into non-map at '%s')", path, part)
		}
		if !ok {
			return nil, fmt.Errorf("path not found: %s (missing key '%s')", path, part)
		}
		current = value
	}

	return current, nil
}
