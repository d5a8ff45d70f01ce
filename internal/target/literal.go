package target

import (
	"fmt"

	"github.com/mxcd/verparse/internal/configuration"
)

// LiteralTarget holds its current version directly in the configuration
type LiteralTarget struct {
	config *configuration.Target
	item   *configuration.TargetItem
}

func NewLiteralTarget(config *configuration.Target, item *configuration.TargetItem) *LiteralTarget {
	return &LiteralTarget{config: config, item: item}
}

func (t *LiteralTarget) ReadCurrentVersion() (string, error) {
	if t.item.CurrentVersion == "" {
		return "", fmt.Errorf("currentVersion is required for literal target %s", itemName(t.config, t.item))
	}
	return t.item.CurrentVersion, nil
}

func (t *LiteralTarget) GetTargetInfo() *TargetInfo {
	return &TargetInfo{
		Name:         itemName(t.config, t.item),
		Target:       t.config.Name,
		Type:         t.config.Type,
		Source:       t.item.Source,
		CurrentValue: t.item.CurrentVersion,
	}
}

func (t *LiteralTarget) Validate() error {
	_, err := t.ReadCurrentVersion()
	return err
}
