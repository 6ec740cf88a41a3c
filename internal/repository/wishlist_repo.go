package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/models"
)

// SQLiteWishlistRepository implements WishlistRepository for SQLite/libsql.
type SQLiteWishlistRepository struct {
	db *sql.DB
}

// NewSQLiteWishlistRepository creates a new SQLite wishlist repository.
func NewSQLiteWishlistRepository(db *sql.DB) *SQLiteWishlistRepository {
	return &SQLiteWishlistRepository{db: db}
}

// Create inserts a new wishlist item.
func (r *SQLiteWishlistRepository) Create(ctx context.Context, item *models.WishlistItem) error {
	if item.ID == "" {
		item.ID = ulid.Make().String()
	}
	item.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wishlist_items (id, title, notes, bgg_url, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, item.ID, item.Title, item.Notes, item.BGGURL, item.Priority,
		item.CreatedAt.Format(time.RFC3339))

	return err
}

// List returns wishlist items, highest priority first.
func (r *SQLiteWishlistRepository) List(ctx context.Context) ([]*models.WishlistItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, notes, bgg_url, priority, created_at
		FROM wishlist_items
		ORDER BY priority DESC, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.WishlistItem
	for rows.Next() {
		var item models.WishlistItem
		var notes, bggURL sql.NullString
		var createdAt string
		if err := rows.Scan(&item.ID, &item.Title, &notes, &bggURL, &item.Priority, &createdAt); err != nil {
			return nil, err
		}
		item.Notes = notes.String
		item.BGGURL = bggURL.String
		item.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		items = append(items, &item)
	}
	return items, rows.Err()
}

// Delete removes a wishlist item.
func (r *SQLiteWishlistRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM wishlist_items WHERE id = ?`, id)
	return err
}
