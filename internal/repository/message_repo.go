package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/models"
)

// SQLiteMessageRepository implements MessageRepository for SQLite/libsql.
type SQLiteMessageRepository struct {
	db *sql.DB
}

// NewSQLiteMessageRepository creates a new SQLite message repository.
func NewSQLiteMessageRepository(db *sql.DB) *SQLiteMessageRepository {
	return &SQLiteMessageRepository{db: db}
}

// Create inserts a new message.
func (r *SQLiteMessageRepository) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = ulid.Make().String()
	}
	msg.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, name, email, game_id, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.Name, msg.Email, msg.GameID, msg.Body,
		msg.CreatedAt.Format(time.RFC3339))

	return err
}

// List returns messages, newest first.
func (r *SQLiteMessageRepository) List(ctx context.Context, limit, offset int) ([]*models.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, game_id, body, created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var msg models.Message
		var gameID sql.NullString
		var createdAt string
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &gameID, &msg.Body, &createdAt); err != nil {
			return nil, err
		}
		if gameID.Valid {
			msg.GameID = &gameID.String
		}
		msg.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}
