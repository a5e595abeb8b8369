package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store exposes persona profile retrieval.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Persona
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied profiles.
func NewMemoryStore(items []Persona) *MemoryStore {
	return &MemoryStore{items: append([]Persona(nil), items...)}
}

// List returns the loaded profiles.
func (s *MemoryStore) List() []Persona {
	return append([]Persona(nil), s.items...)
}

// FindByID looks up a profile by identifier.
func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Persona{}, false
}

// LoadFile reads persona profiles from a YAML document.
func LoadFile(path string) ([]Persona, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona file: %w", err)
	}

	var doc struct {
		Personas []Persona `yaml:"personas"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse persona file %s: %w", path, err)
	}
	if len(doc.Personas) == 0 {
		return nil, fmt.Errorf("persona file %s defines no profiles", path)
	}
	return doc.Personas, nil
}
