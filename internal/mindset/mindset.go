// Package mindset loads declarative .jellyfish (JellyDSL) model descriptors
// — the component spec.md calls the Mindset Loader.
package mindset

import (
	"fmt"

	"github.com/fossillogic/jellyfish/internal/chain"
	"github.com/go-playground/validator/v10"
)

// Model is a mindset descriptor: metadata about a named chain plus the
// tags/model references used to select it, and the Chain itself once
// realized from a .fish file.
type Model struct {
	Name                 string `validate:"required,max=63"`
	Description          string
	ActivationCondition  string
	SourceURI            string
	OriginDeviceID       string
	Version              string
	ContentHash          string
	StateMachine         string
	CreatedAt            uint64
	UpdatedAt            uint64
	TrustScore           float64 `validate:"gte=0,lte=1"`
	Immutable            bool
	Priority             int `validate:"gte=0"`
	ConfidenceThreshold  float64 `validate:"gte=0,lte=1"`
	Tags                 []string `validate:"max=16"`
	Models               []string `validate:"max=16"`

	Chain *chain.Chain
}

var validate = validator.New()

// Validate checks Model field constraints (priority/trust_score/
// confidence_threshold ranges, tag/model-reference counts, required name).
func (m *Model) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("mindset: invalid model %q: %w", m.Name, err)
	}
	return nil
}

// HasTag reports whether tag is one of m's tags.
func (m *Model) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Registry holds every Model parsed from a directory of .jellyfish files,
// keyed by name.
type Registry struct {
	Models map[string]*Model
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{Models: make(map[string]*Model)}
}

// FilterByTag returns the chains of every model carrying tag. This mirrors
// fossil_jellyfish_filter_by_tag, generalized across the whole registry
// instead of a single model.
func (r *Registry) FilterByTag(tag string) []*chain.Chain {
	var out []*chain.Chain
	for _, m := range r.Models {
		if m.HasTag(tag) && m.Chain != nil {
			out = append(out, m.Chain)
		}
	}
	return out
}
