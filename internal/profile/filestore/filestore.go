// Package filestore serves import profiles from a YAML file, for setups
// without a profile table.
package filestore

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/bankimport/internal/profile"
)

type document struct {
	Profiles []*profile.Profile `yaml:"profiles"`
}

// Store holds the profiles read from one file. It never writes back.
type Store struct {
	profiles []*profile.Profile
}

// Open reads the YAML profile file at path.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening profiles file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read decodes profiles from r. Duplicate ids are rejected.
func Read(r io.Reader) (*Store, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(doc.Profiles))

	for i, p := range doc.Profiles {
		if p.ID == uuid.Nil {
			return nil, fmt.Errorf("profile %d (%q): id is required", i, p.Name)
		}

		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("profile %d (%q): duplicate id %s", i, p.Name, p.ID)
		}

		seen[p.ID] = struct{}{}
	}

	return &Store{profiles: doc.Profiles}, nil
}

func (s *Store) Get(_ context.Context, id uuid.UUID) (*profile.Profile, error) {
	for _, p := range s.profiles {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}

	return nil, profile.ErrNotFound
}

func (s *Store) List(_ context.Context) ([]*profile.Profile, error) {
	out := make([]*profile.Profile, len(s.profiles))
	for i, p := range s.profiles {
		cp := *p
		out[i] = &cp
	}

	return out, nil
}
