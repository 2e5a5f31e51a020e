package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=profile
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
}

// Service reads import profiles. Creating and editing them happens elsewhere.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the profile with the given id, rejecting incomplete profiles.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting profile %s: %w", id, err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Lookup resolves a profile by id or, failing that, by exact name.
func (s *Service) Lookup(ctx context.Context, ref string) (*Profile, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.Get(ctx, id)
	}

	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	for _, p := range profiles {
		if p.Name == ref {
			return s.Get(ctx, p.ID)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

func (s *Service) List(ctx context.Context) ([]*Profile, error) {
	return s.repo.List(ctx)
}
