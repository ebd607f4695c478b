package mindset

import (
	"testing"

	"github.com/fossillogic/jellyfish/internal/chain"
)

func TestValidateRequiresName(t *testing.T) {
	m := &Model{}
	if err := m.Validate(); err == nil {
		t.Fatal("expected an error for a model with no name")
	}
}

func TestValidateRejectsOutOfRangeScores(t *testing.T) {
	m := &Model{Name: "x", TrustScore: 1.5}
	if err := m.Validate(); err == nil {
		t.Fatal("expected an error for trust_score > 1")
	}
}

func TestValidateAcceptsWellFormedModel(t *testing.T) {
	m := &Model{Name: "x", TrustScore: 0.5, ConfidenceThreshold: 0.3, Priority: 1}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestHasTag(t *testing.T) {
	m := &Model{Tags: []string{"a", "b"}}
	if !m.HasTag("a") {
		t.Error("expected HasTag(a) = true")
	}
	if m.HasTag("c") {
		t.Error("expected HasTag(c) = false")
	}
}

func TestRegistryFilterByTag(t *testing.T) {
	r := NewRegistry()
	c1 := chain.New([chain.DeviceIDSize]byte{1})
	c2 := chain.New([chain.DeviceIDSize]byte{2})

	r.Models["a"] = &Model{Name: "a", Tags: []string{"support"}, Chain: c1}
	r.Models["b"] = &Model{Name: "b", Tags: []string{"billing"}, Chain: c2}
	r.Models["c"] = &Model{Name: "c", Tags: []string{"support"}, Chain: nil}

	got := r.FilterByTag("support")
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1 (model c has no realized chain)", len(got))
	}
	if got[0] != c1 {
		t.Error("FilterByTag returned the wrong chain")
	}
}
