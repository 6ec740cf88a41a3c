package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/models"
)

// SQLiteAPIKeyRepository implements APIKeyRepository for SQLite/libsql.
type SQLiteAPIKeyRepository struct {
	db *sql.DB
}

// NewSQLiteAPIKeyRepository creates a new SQLite API key repository.
func NewSQLiteAPIKeyRepository(db *sql.DB) *SQLiteAPIKeyRepository {
	return &SQLiteAPIKeyRepository{db: db}
}

// Create inserts a new API key record.
func (r *SQLiteAPIKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	if key.ID == "" {
		key.ID = ulid.Make().String()
	}
	key.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_keys (id, name, key_hash, key_prefix, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, key.ID, key.Name, key.KeyHash, key.KeyPrefix,
		key.CreatedAt.Format(time.RFC3339))

	return err
}

// GetByHash retrieves a non-revoked API key by its hash. Returns nil
// when absent or revoked.
func (r *SQLiteAPIKeyRepository) GetByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	var key models.APIKey
	var lastUsedAt, revokedAt sql.NullString
	var createdAt string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, key_hash, key_prefix, last_used_at, created_at, revoked_at
		FROM api_keys
		WHERE key_hash = ? AND revoked_at IS NULL
	`, hash).Scan(&key.ID, &key.Name, &key.KeyHash, &key.KeyPrefix,
		&lastUsedAt, &createdAt, &revokedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if lastUsedAt.Valid {
		t, _ := time.Parse(time.RFC3339, lastUsedAt.String)
		key.LastUsedAt = &t
	}
	key.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &key, nil
}

// List returns all keys, newest first, revoked ones included.
func (r *SQLiteAPIKeyRepository) List(ctx context.Context) ([]*models.APIKey, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, key_prefix, last_used_at, created_at, revoked_at
		FROM api_keys
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []*models.APIKey
	for rows.Next() {
		var key models.APIKey
		var lastUsedAt, revokedAt sql.NullString
		var createdAt string
		if err := rows.Scan(&key.ID, &key.Name, &key.KeyPrefix, &lastUsedAt, &createdAt, &revokedAt); err != nil {
			return nil, err
		}
		if lastUsedAt.Valid {
			t, _ := time.Parse(time.RFC3339, lastUsedAt.String)
			key.LastUsedAt = &t
		}
		if revokedAt.Valid {
			t, _ := time.Parse(time.RFC3339, revokedAt.String)
			key.RevokedAt = &t
		}
		key.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		keys = append(keys, &key)
	}
	return keys, rows.Err()
}

// TouchLastUsed records that the key was just used.
func (r *SQLiteAPIKeyRepository) TouchLastUsed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = ? WHERE id = ?`,
		time.Now().Format(time.RFC3339), id)
	return err
}

// Revoke marks a key as revoked.
func (r *SQLiteAPIKeyRepository) Revoke(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET revoked_at = ? WHERE id = ?`,
		time.Now().Format(time.RFC3339), id)
	return err
}
