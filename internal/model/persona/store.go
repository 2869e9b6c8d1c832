package persona

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store exposes persona and profile retrieval for services and HTTP handlers.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
	Default() Persona
	Profile() Profile
}

// Catalog is the on-disk shape of a profile file.
type Catalog struct {
	Personas []Persona `yaml:"personas"`
	Profile  Profile   `yaml:"profile"`
}

// MemoryStore implements Store with in-memory data. The first persona is the default.
type MemoryStore struct {
	items   []Persona
	profile Profile
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied personas and profile.
func NewMemoryStore(items []Persona, profile Profile) *MemoryStore {
	return &MemoryStore{items: append([]Persona(nil), items...), profile: profile}
}

// NewSeedStore returns a MemoryStore holding the built-in persona and profile.
func NewSeedStore() *MemoryStore {
	return NewMemoryStore(Seed(), SeedProfile())
}

// List returns the persona list.
func (s *MemoryStore) List() []Persona {
	return append([]Persona(nil), s.items...)
}

// FindByID looks up a persona by identifier.
func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Persona{}, false
}

// Default returns the first persona, or the zero Persona when the store is empty.
func (s *MemoryStore) Default() Persona {
	if len(s.items) == 0 {
		return Persona{}
	}
	return s.items[0]
}

// Profile returns the profile facts.
func (s *MemoryStore) Profile() Profile {
	return s.profile
}

// LoadFile reads a YAML catalog. Missing sections fall back to the seed data.
func LoadFile(path string) (*MemoryStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("decode profile file %s: %w", path, err)
	}

	personas := catalog.Personas
	if len(personas) == 0 {
		personas = Seed()
	}
	for i, p := range personas {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("persona %d: %w", i, err)
		}
	}

	profile := catalog.Profile
	if strings.TrimSpace(profile.Name) == "" {
		profile = SeedProfile()
	}

	return NewMemoryStore(personas, profile), nil
}

func validate(p Persona) error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.New("id is required")
	case strings.TrimSpace(p.Name) == "":
		return errors.New("name is required")
	case strings.TrimSpace(p.Greeting) == "":
		return errors.New("greeting is required")
	}
	return nil
}
