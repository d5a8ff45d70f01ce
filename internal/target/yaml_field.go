package target

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mxcd/verparse/internal/configuration"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// YamlFieldTarget reads a version from a scalar in a YAML file. Files with
// several documents are searched in order, the first match wins.
type YamlFieldTarget struct {
	config    *configuration.Target
	item      *configuration.TargetItem
	documents []*yaml.Node
}

func NewYamlFieldTarget(config *configuration.Target, item *configuration.TargetItem) (*YamlFieldTarget, error) {
	if item.YamlPath == "" {
		return nil, fmt.Errorf("yamlPath is required for yaml-field target")
	}

	target := &YamlFieldTarget{
		config: config,
		item:   item,
	}

	if err := target.load(); err != nil {
		return nil, err
	}

	return target, nil
}

func (t *YamlFieldTarget) load() error {
	file, err := os.Open(t.config.File)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileNotFoundError{Path: t.config.File}
		}
		return fmt.Errorf("failed to read file %s: %w", t.config.File, err)
	}
	defer file.Close()

	documents, err := decodeDocuments(file)
	if err != nil {
		return fmt.Errorf("failed to parse YAML file %s: %w", t.config.File, err)
	}
	if len(documents) == 0 {
		return fmt.Errorf("no YAML documents found in file %s", t.config.File)
	}

	t.documents = documents
	return nil
}

func decodeDocuments(r io.Reader) ([]*yaml.Node, error) {
	var documents []*yaml.Node
	decoder := yaml.NewDecoder(r)
	for {
		document := &yaml.Node{}
		if err := decoder.Decode(document); err != nil {
			if errors.Is(err, io.EOF) {
				return documents, nil
			}
			return nil, err
		}
		documents = append(documents, document)
	}
}

func (t *YamlFieldTarget) lookup(segments []string) (*yaml.Node, error) {
	var lastErr error
	for _, document := range t.documents {
		node, err := lookupNode(document, segments)
		if err == nil {
			return node, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// lookupNode follows dot-path segments through mappings, sequence indices
// and aliases.
func lookupNode(node *yaml.Node, segments []string) (*yaml.Node, error) {
	current := node
	if current.Kind == yaml.DocumentNode {
		if len(current.Content) == 0 {
			return nil, fmt.Errorf("empty document")
		}
		current = current.Content[0]
	}

	for _, segment := range segments {
		for current.Kind == yaml.AliasNode {
			current = current.Alias
		}

		switch current.Kind {
		case yaml.MappingNode:
			next, ok := mappingValue(current, segment)
			if !ok {
				return nil, fmt.Errorf("key '%s' not found", segment)
			}
			current = next

		case yaml.SequenceNode:
			idx, err := strconv.Atoi(segment)
			if err != nil {
				return nil, fmt.Errorf("expected numeric index for sequence, got '%s'", segment)
			}
			if idx < 0 || idx >= len(current.Content) {
				return nil, fmt.Errorf("index %d out of range (length %d)", idx, len(current.Content))
			}
			current = current.Content[idx]

		default:
			return nil, fmt.Errorf("cannot navigate into scalar at segment '%s'", segment)
		}
	}

	for current.Kind == yaml.AliasNode {
		current = current.Alias
	}
	return current, nil
}

// mappingValue returns the value for key; content holds key/value pairs
func mappingValue(mapping *yaml.Node, key string) (*yaml.Node, bool) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1], true
		}
	}
	return nil, false
}

// imageTag returns the tag of an image reference like "nginx:1.25.0" or
// "registry:5000/app:2.1". Values that are not image references are
// returned as is.
func imageTag(value string) string {
	lastColon := strings.LastIndex(value, ":")
	if lastColon <= 0 || strings.Contains(value, "://") {
		return value
	}
	tag := value[lastColon+1:]
	if tag == "" || strings.ContainsAny(tag, "/ ") {
		return value
	}
	return tag
}

func (t *YamlFieldTarget) ReadCurrentVersion() (string, error) {
	log.Debug().
		Str("file", t.config.File).
		Str("yamlPath", t.item.YamlPath).
		Msg("Reading current version from YAML file")

	node, err := t.lookup(strings.Split(t.item.YamlPath, "."))
	if err != nil {
		return "", &YamlFieldNotFoundError{Path: t.item.YamlPath, File: t.config.File, Err: err}
	}

	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("yaml path '%s' in file %s points to a non-scalar node", t.item.YamlPath, t.config.File)
	}

	value := imageTag(node.Value)

	log.Debug().
		Str("file", t.config.File).
		Str("yamlPath", t.item.YamlPath).
		Str("version", value).
		Msg("Found current version")

	return value, nil
}

func (t *YamlFieldTarget) GetTargetInfo() *TargetInfo {
	currentVersion, err := t.ReadCurrentVersion()
	if err != nil {
		log.Warn().Err(err).Str("file", t.config.File).Str("yamlPath", t.item.YamlPath).Msg("Failed to read current version for target info")
	}
	return &TargetInfo{
		Name:         itemName(t.config, t.item),
		Target:       t.config.Name,
		Type:         t.config.Type,
		File:         t.config.File,
		YamlPath:     t.item.YamlPath,
		Source:       t.item.Source,
		CurrentValue: currentVersion,
	}
}

// Validate re-reads the file. A missing path is not an error here since
// wildcard targets may match files without it.
func (t *YamlFieldTarget) Validate() error {
	fileName := strings.ToLower(t.config.File)
	if !strings.HasSuffix(fileName, ".yaml") && !strings.HasSuffix(fileName, ".yml") {
		return &InvalidFileFormatError{
			File:   t.config.File,
			Reason: "file must have .yaml or .yml extension",
		}
	}

	return t.load()
}
