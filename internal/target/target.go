package target

import (
	"github.com/mxcd/verparse/internal/configuration"
)

// TargetClient reads the version currently in use for one target item
type TargetClient interface {
	// ReadCurrentVersion returns the version string as found in the target
	ReadCurrentVersion() (string, error)

	GetTargetInfo() *TargetInfo

	// Validate checks if the target is valid and accessible
	Validate() error
}

// TargetInfo contains metadata about a target item
type TargetInfo struct {
	Name         string                   `json:"name" yaml:"name"`
	Target       string                   `json:"target" yaml:"target"`
	Type         configuration.TargetType `json:"type" yaml:"type"`
	File         string                   `json:"file,omitempty" yaml:"file,omitempty"`
	YamlPath     string                   `json:"yamlPath,omitempty" yaml:"yamlPath,omitempty"`
	Source       string                   `json:"source" yaml:"source"`
	CurrentValue string                   `json:"currentValue" yaml:"currentValue"`
}

// TargetFactory creates target clients based on configuration
type TargetFactory struct {
	config *configuration.Config
}

func NewTargetFactory(config *configuration.Config) *TargetFactory {
	return &TargetFactory{
		config: config,
	}
}

// CreateTarget creates one client per item of the target
func (f *TargetFactory) CreateTarget(target *configuration.Target) ([]TargetClient, error) {
	clients := make([]TargetClient, 0, len(target.Items))
	for i := range target.Items {
		client, err := f.createItem(target, &target.Items[i])
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, nil
}

func (f *TargetFactory) createItem(target *configuration.Target, item *configuration.TargetItem) (TargetClient, error) {
	switch target.Type {
	case configuration.TargetTypeLiteral:
		return NewLiteralTarget(target, item), nil
	case configuration.TargetTypeYamlField:
		return NewYamlFieldTarget(target, item)
	default:
		return nil, &UnsupportedTargetTypeError{Type: target.Type}
	}
}

// CreateAllTargets creates target clients for all configured targets
func (f *TargetFactory) CreateAllTargets() ([]TargetClient, error) {
	clients := make([]TargetClient, 0, len(f.config.Targets))
	for _, targetConfig := range f.config.Targets {
		targetClients, err := f.CreateTarget(targetConfig)
		if err != nil {
			return nil, err
		}
		clients = append(clients, targetClients...)
	}
	return clients, nil
}

func itemName(target *configuration.Target, item *configuration.TargetItem) string {
	if item.Name != "" {
		return item.Name
	}
	return target.Name
}
