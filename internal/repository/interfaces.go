// Package repository provides data access interfaces and SQLite/libsql
// implementations.
package repository

import (
	"context"
	"database/sql"

	"github.com/meeplekeep/meeplekeep-api/internal/models"
)

// GameRepository manages persisted games.
type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id string) (*models.Game, error)
	GetByTitle(ctx context.Context, title string) (*models.Game, error)
	GetBySlug(ctx context.Context, slug string) (*models.Game, error)
	List(ctx context.Context, limit, offset int) ([]*models.Game, error)
	Count(ctx context.Context) (int, error)
	LinkMechanic(ctx context.Context, gameID, mechanicID string) error
	MechanicsForGame(ctx context.Context, gameID string) ([]*models.Mechanic, error)
}

// MechanicRepository manages the mechanics reference table.
type MechanicRepository interface {
	GetByName(ctx context.Context, name string) (*models.Mechanic, error)
	Create(ctx context.Context, mechanic *models.Mechanic) error
	List(ctx context.Context) ([]*models.Mechanic, error)
}

// PublisherRepository manages the publishers reference table.
type PublisherRepository interface {
	GetByName(ctx context.Context, name string) (*models.Publisher, error)
	Create(ctx context.Context, publisher *models.Publisher) error
	List(ctx context.Context) ([]*models.Publisher, error)
}

// WishlistRepository manages wishlist items.
type WishlistRepository interface {
	Create(ctx context.Context, item *models.WishlistItem) error
	List(ctx context.Context) ([]*models.WishlistItem, error)
	Delete(ctx context.Context, id string) error
}

// MessageRepository manages contact/sale messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	List(ctx context.Context, limit, offset int) ([]*models.Message, error)
}

// APIKeyRepository manages admin API keys.
type APIKeyRepository interface {
	Create(ctx context.Context, key *models.APIKey) error
	GetByHash(ctx context.Context, hash string) (*models.APIKey, error)
	List(ctx context.Context) ([]*models.APIKey, error)
	TouchLastUsed(ctx context.Context, id string) error
	Revoke(ctx context.Context, id string) error
}

// Repositories bundles all repository implementations.
type Repositories struct {
	Game      GameRepository
	Mechanic  MechanicRepository
	Publisher PublisherRepository
	Wishlist  WishlistRepository
	Message   MessageRepository
	APIKey    APIKeyRepository
}

// NewRepositories creates all repositories backed by the given database.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Game:      NewSQLiteGameRepository(db),
		Mechanic:  NewSQLiteMechanicRepository(db),
		Publisher: NewSQLitePublisherRepository(db),
		Wishlist:  NewSQLiteWishlistRepository(db),
		Message:   NewSQLiteMessageRepository(db),
		APIKey:    NewSQLiteAPIKeyRepository(db),
	}
}
