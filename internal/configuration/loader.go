package configuration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// LoadConfiguration reads the configuration from a file, or from all .yml
// and .yaml files of a directory merged into one. Environment and SOPS
// placeholders are substituted and wildcard target files expanded.
func LoadConfiguration(configPath string) (*Config, error) {
	fileInfo, err := os.Stat(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access configuration path: %w", err)
	}

	var config *Config
	if fileInfo.IsDir() {
		config, err = loadConfigurationFromDirectory(configPath)
	} else {
		config, err = loadConfigurationFile(configPath)
	}
	if err != nil {
		return nil, err
	}

	ctx := NewSubstitutionContext()
	if err := ctx.SubstituteInConfig(config); err != nil {
		return nil, fmt.Errorf("failed to substitute variables: %w", err)
	}

	if err := ExpandWildcardTargets(config); err != nil {
		return nil, fmt.Errorf("failed to expand wildcard targets: %w", err)
	}

	return config, nil
}

func loadConfigurationFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration YAML: %w", err)
	}

	return &config, nil
}

func loadConfigurationFromDirectory(dirPath string) (*Config, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration directory: %w", err)
	}

	var configFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yml" || ext == ".yaml" {
			configFiles = append(configFiles, filepath.Join(dirPath, entry.Name()))
		}
	}

	if len(configFiles) == 0 {
		return nil, fmt.Errorf("no .yml or .yaml files found in directory: %s", dirPath)
	}

	log.Debug().
		Str("directory", dirPath).
		Int("fileCount", len(configFiles)).
		Msg("Loading configuration from directory")

	configs := make([]*Config, 0, len(configFiles))
	for _, filePath := range configFiles {
		config, err := loadConfigurationFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filePath, err)
		}
		configs = append(configs, config)
	}

	merged, err := mergeConfigurations(configs)
	if err != nil {
		return nil, fmt.Errorf("failed to merge configurations: %w", err)
	}

	return merged, nil
}

// uniqueNames tracks names per section while merging.
type uniqueNames struct {
	section string
	seen    map[string]bool
}

func newUniqueNames(section string) *uniqueNames {
	return &uniqueNames{section: section, seen: make(map[string]bool)}
}

func (u *uniqueNames) add(name string) error {
	if u.seen[name] {
		return fmt.Errorf("duplicate %s name: %s", u.section, name)
	}
	u.seen[name] = true
	return nil
}

// mergeConfigurations concatenates all sections. Names must be unique across
// files; the rendering section of the last file that has one wins.
func mergeConfigurations(configs []*Config) (*Config, error) {
	switch len(configs) {
	case 0:
		return &Config{}, nil
	case 1:
		return configs[0], nil
	}

	merged := &Config{
		TagTypes:               make([]*TagType, 0),
		PackageSourceProviders: make([]*PackageSourceProvider, 0),
		PackageSources:         make([]*PackageSource, 0),
		Targets:                make([]*Target, 0),
	}

	tagTypeNames := newUniqueNames("tag type")
	providerNames := newUniqueNames("package source provider")
	sourceNames := newUniqueNames("package source")
	targetNames := newUniqueNames("target")

	for _, config := range configs {
		for _, tagType := range config.TagTypes {
			if err := tagTypeNames.add(strings.ToLower(tagType.Name)); err != nil {
				return nil, err
			}
			merged.TagTypes = append(merged.TagTypes, tagType)
		}

		for _, provider := range config.PackageSourceProviders {
			if err := providerNames.add(provider.Name); err != nil {
				return nil, err
			}
			merged.PackageSourceProviders = append(merged.PackageSourceProviders, provider)
		}

		for _, source := range config.PackageSources {
			if err := sourceNames.add(source.Name); err != nil {
				return nil, err
			}
			merged.PackageSources = append(merged.PackageSources, source)
		}

		for _, target := range config.Targets {
			if err := targetNames.add(target.Name); err != nil {
				return nil, err
			}
			merged.Targets = append(merged.Targets, target)
		}

		if config.Rendering != nil {
			merged.Rendering = config.Rendering
		}
	}

	return merged, nil
}

// ExpandWildcardTargets replaces targets whose file contains a glob pattern
// with one target per matched file. "**" matches any number of directories.
// Patterns that fail or match nothing are kept as they are.
func ExpandWildcardTargets(config *Config) error {
	expanded := make([]*Target, 0, len(config.Targets))

	for _, target := range config.Targets {
		if !strings.ContainsAny(target.File, "*?[") {
			expanded = append(expanded, target)
			continue
		}

		var matches []string
		var err error
		if strings.Contains(target.File, "**") {
			matches, err = recursiveGlob(target.File)
		} else {
			matches, err = filepath.Glob(target.File)
		}

		if err != nil {
			log.Warn().Err(err).Str("pattern", target.File).Msg("Failed to expand wildcard pattern")
			expanded = append(expanded, target)
			continue
		}
		if len(matches) == 0 {
			log.Warn().Str("pattern", target.File).Msg("Wildcard pattern matched no files")
			expanded = append(expanded, target)
			continue
		}

		log.Debug().
			Str("pattern", target.File).
			Int("matches", len(matches)).
			Msg("Expanded wildcard pattern")

		for _, match := range matches {
			expanded = append(expanded, &Target{
				Name:            target.Name,
				Type:            target.Type,
				File:            match,
				Items:           target.Items,
				Labels:          target.Labels,
				WildcardPattern: target.File,
				IsWildcardMatch: true,
			})
		}
	}

	config.Targets = expanded
	return nil
}

func recursiveGlob(pattern string) ([]string, error) {
	parts := strings.Split(filepath.ToSlash(pattern), "/")

	recursiveIndex := -1
	for i, part := range parts {
		if part == "**" {
			recursiveIndex = i
			break
		}
	}
	if recursiveIndex == -1 {
		return filepath.Glob(pattern)
	}

	baseDir := "."
	if recursiveIndex > 0 {
		baseDir = filepath.Join(parts[:recursiveIndex]...)
		if strings.HasPrefix(pattern, string(filepath.Separator)) {
			baseDir = string(filepath.Separator) + baseDir
		}
	}

	var afterPattern string
	if recursiveIndex < len(parts)-1 {
		afterPattern = filepath.Join(parts[recursiveIndex+1:]...)
	}

	var matches []string
	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable directories are skipped
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		if afterPattern == "" {
			matches = append(matches, path)
			return nil
		}

		relPath, err := filepath.Rel(baseDir, path)
		if err != nil {
			return nil
		}
		if matchesAfterPattern(relPath, afterPattern) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return matches, nil
}

// matchesAfterPattern matches the part of a "**" pattern after the
// recursive segment against a relative path, either as a suffix, the whole
// path or the base name.
func matchesAfterPattern(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if !strings.ContainsAny(pattern, "*?[") {
		return path == pattern || strings.HasSuffix(path, "/"+pattern)
	}

	if matched, _ := filepath.Match(pattern, path); matched {
		return true
	}

	matched, _ := filepath.Match(pattern, filepath.Base(path))
	return matched
}
