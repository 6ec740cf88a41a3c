package importer

import (
	"context"
	"fmt"

	"github.com/meeplekeep/meeplekeep-api/internal/models"
	"github.com/meeplekeep/meeplekeep-api/internal/repository"
)

// Resolver finds or creates the reference entities a candidate game
// points at by name. Lookups use exact name equality and immediately
// precede every creation, so resolving the same name twice in one
// batch creates at most one row.
type Resolver struct {
	repos *repository.Repositories
}

// NewResolver creates a Resolver over the given repositories.
func NewResolver(repos *repository.Repositories) *Resolver {
	return &Resolver{repos: repos}
}

// Mechanic returns the id of the mechanic with the given name,
// creating it when absent.
func (r *Resolver) Mechanic(ctx context.Context, name string) (string, error) {
	existing, err := r.repos.Mechanic.GetByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("looking up mechanic %q: %w", name, err)
	}
	if existing != nil {
		return existing.ID, nil
	}
	mechanic := &models.Mechanic{Name: name}
	if err := r.repos.Mechanic.Create(ctx, mechanic); err != nil {
		return "", fmt.Errorf("creating mechanic %q: %w", name, err)
	}
	return mechanic.ID, nil
}

// Publisher returns the id of the publisher with the given name,
// creating it when absent.
func (r *Resolver) Publisher(ctx context.Context, name string) (string, error) {
	existing, err := r.repos.Publisher.GetByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("looking up publisher %q: %w", name, err)
	}
	if existing != nil {
		return existing.ID, nil
	}
	publisher := &models.Publisher{Name: name}
	if err := r.repos.Publisher.Create(ctx, publisher); err != nil {
		return "", fmt.Errorf("creating publisher %q: %w", name, err)
	}
	return publisher.ID, nil
}

// Parent looks an existing game up by exact title for expansion
// linking. An absent parent is a miss reported as ("", nil), not an
// error; expansions may import without a resolvable parent.
func (r *Resolver) Parent(ctx context.Context, title string) (string, error) {
	game, err := r.repos.Game.GetByTitle(ctx, title)
	if err != nil {
		return "", fmt.Errorf("looking up parent game %q: %w", title, err)
	}
	if game == nil {
		return "", nil
	}
	return game.ID, nil
}
