package versionparser

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Well-known tag types.
const (
	TagTypeNone             = "none"
	TagTypeStable           = "stable"
	TagTypeBeta             = "beta"
	TagTypeBetaShort        = "b"
	TagTypeAlpha            = "alpha"
	TagTypeAlphaShort       = "a"
	TagTypeReleaseCandidate = "rc"
	TagTypeSnapshot         = "snapshot"
	TagTypeSnapshotShort    = "s"
	TagTypeDev              = "dev"
	TagTypeDevShort         = "d"
	TagTypePatch            = "patch"
	TagTypePatchShort       = "p"
)

// MaxTagWeight keeps the padded tag field within the exact integer range
// of a float64.
const MaxTagWeight = 15

var (
	ErrEmptyTagName   = errors.New("tag name cannot be empty")
	ErrNegativeWeight = errors.New("tag weight cannot be negative")
	ErrWeightTooLarge = fmt.Errorf("tag weight cannot exceed %d", MaxTagWeight)
)

type weightEntry struct {
	name   string
	weight int
}

// defaultWeights lists the bundled tag weights in matching order: long
// names first, short aliases after them.
var defaultWeights = []weightEntry{
	{TagTypeDev, 8},
	{TagTypeSnapshot, 8},
	{TagTypeAlpha, 6},
	{TagTypeBeta, 4},
	{TagTypeReleaseCandidate, 2},
	{TagTypePatch, 1},
	{TagTypeStable, 0},
	{TagTypeNone, 0},
	{TagTypeAlphaShort, 6},
	{TagTypeBetaShort, 4},
	{TagTypePatchShort, 1},
	{TagTypeSnapshotShort, 8},
	{TagTypeDevShort, 8},
}

type weightAlias struct {
	long  string
	short string
}

// defaultShortTags maps long tag types to their short aliases.
var defaultShortTags = []weightAlias{
	{TagTypeAlpha, TagTypeAlphaShort},
	{TagTypeBeta, TagTypeBetaShort},
	{TagTypePatch, TagTypePatchShort},
	{TagTypeSnapshot, TagTypeSnapshotShort},
	{TagTypeDev, TagTypeDevShort},
}

// Vocabulary is a registry of tag keywords and their weights. The higher the
// weight, the further a tagged version sinks below its untagged release:
// alpha (6) ranks below beta (4), which ranks below rc (2).
//
// The zero value is not usable, create instances with NewVocabulary.
type Vocabulary struct {
	mu      sync.RWMutex
	order   []string
	weights map[string]int
	shorts  []weightAlias
}

// NewVocabulary returns a vocabulary holding the bundled tag types.
func NewVocabulary() *Vocabulary {
	v := &Vocabulary{}
	v.reset()
	return v
}

// Reset restores the bundled tag types, dropping all registrations.
func (v *Vocabulary) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reset()
}

func (v *Vocabulary) reset() {
	v.order = make([]string, 0, len(defaultWeights))
	v.weights = make(map[string]int, len(defaultWeights))
	for _, entry := range defaultWeights {
		v.order = append(v.order, entry.name)
		v.weights[entry.name] = entry.weight
	}
	v.shorts = append([]weightAlias(nil), defaultShortTags...)
}

// Register adds a tag type, or changes the weight of an existing one. The
// optional short name is registered as an alias with the same weight.
// Names are matched case-insensitively and stored in lowercase.
func (v *Vocabulary) Register(name string, weight int, shortName string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	shortName = strings.ToLower(strings.TrimSpace(shortName))

	if name == "" {
		return ErrEmptyTagName
	}
	if weight < 0 {
		return fmt.Errorf("%w: %s=%d", ErrNegativeWeight, name, weight)
	}
	if weight > MaxTagWeight {
		return fmt.Errorf("%w: %s=%d", ErrWeightTooLarge, name, weight)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.set(name, weight)

	if shortName != "" {
		v.setShort(name, shortName)
		v.set(shortName, weight)
	}

	return nil
}

func (v *Vocabulary) set(name string, weight int) {
	if _, ok := v.weights[name]; !ok {
		v.order = append(v.order, name)
	}
	v.weights[name] = weight
}

func (v *Vocabulary) setShort(long, short string) {
	for i := range v.shorts {
		if v.shorts[i].long == long {
			v.shorts[i].short = short
			return
		}
	}
	v.shorts = append(v.shorts, weightAlias{long: long, short: short})
}

// Weight returns the weight of a tag name, 0 for unknown names.
func (v *Vocabulary) Weight(name string) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.weights[strings.ToLower(name)]
}

// Names returns the known tag names, including short aliases, in
// matching order.
func (v *Vocabulary) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]string(nil), v.order...)
}

// Weights returns a copy of the name to weight map.
func (v *Vocabulary) Weights() map[string]int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	weights := make(map[string]int, len(v.weights))
	for name, weight := range v.weights {
		weights[name] = weight
	}
	return weights
}

// ShortName returns the short alias registered for a long tag type.
func (v *Vocabulary) ShortName(long string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	long = strings.ToLower(long)
	for _, alias := range v.shorts {
		if alias.long == long {
			return alias.short, true
		}
	}
	return "", false
}

// TypeOf resolves a tag name to its tag type: short aliases resolve to
// their long name, the empty name to TagTypeNone.
func (v *Vocabulary) TypeOf(name string) string {
	name = strings.ToLower(name)
	if name == "" {
		return TagTypeNone
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, alias := range v.shorts {
		if alias.short == name {
			return alias.long
		}
	}
	return name
}

var defaultVocabulary = NewVocabulary()

// DefaultVocabulary returns the process-wide vocabulary used by Parse.
func DefaultVocabulary() *Vocabulary {
	return defaultVocabulary
}

// RegisterTagType registers a tag type in the default vocabulary.
func RegisterTagType(name string, weight int, shortName string) error {
	return defaultVocabulary.Register(name, weight, shortName)
}

// ResetTagTypes restores the default vocabulary to the bundled tag types.
func ResetTagTypes() {
	defaultVocabulary.Reset()
}
