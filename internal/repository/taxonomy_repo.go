package repository

import (
	"context"
	"database/sql"

	"github.com/oklog/ulid/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/models"
)

// SQLiteMechanicRepository implements MechanicRepository for SQLite/libsql.
type SQLiteMechanicRepository struct {
	db *sql.DB
}

// NewSQLiteMechanicRepository creates a new SQLite mechanic repository.
func NewSQLiteMechanicRepository(db *sql.DB) *SQLiteMechanicRepository {
	return &SQLiteMechanicRepository{db: db}
}

// GetByName retrieves a mechanic by exact name. Returns nil when absent.
func (r *SQLiteMechanicRepository) GetByName(ctx context.Context, name string) (*models.Mechanic, error) {
	var m models.Mechanic
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM mechanics WHERE name = ?`, name).Scan(&m.ID, &m.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new mechanic, generating its ID when empty.
func (r *SQLiteMechanicRepository) Create(ctx context.Context, mechanic *models.Mechanic) error {
	if mechanic.ID == "" {
		mechanic.ID = ulid.Make().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mechanics (id, name) VALUES (?, ?)`, mechanic.ID, mechanic.Name)
	return err
}

// List returns all mechanics ordered by name.
func (r *SQLiteMechanicRepository) List(ctx context.Context) ([]*models.Mechanic, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM mechanics ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mechanics []*models.Mechanic
	for rows.Next() {
		var m models.Mechanic
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		mechanics = append(mechanics, &m)
	}
	return mechanics, rows.Err()
}

// SQLitePublisherRepository implements PublisherRepository for SQLite/libsql.
type SQLitePublisherRepository struct {
	db *sql.DB
}

// NewSQLitePublisherRepository creates a new SQLite publisher repository.
func NewSQLitePublisherRepository(db *sql.DB) *SQLitePublisherRepository {
	return &SQLitePublisherRepository{db: db}
}

// GetByName retrieves a publisher by exact name. Returns nil when absent.
func (r *SQLitePublisherRepository) GetByName(ctx context.Context, name string) (*models.Publisher, error) {
	var p models.Publisher
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM publishers WHERE name = ?`, name).Scan(&p.ID, &p.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new publisher, generating its ID when empty.
func (r *SQLitePublisherRepository) Create(ctx context.Context, publisher *models.Publisher) error {
	if publisher.ID == "" {
		publisher.ID = ulid.Make().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO publishers (id, name) VALUES (?, ?)`, publisher.ID, publisher.Name)
	return err
}

// List returns all publishers ordered by name.
func (r *SQLitePublisherRepository) List(ctx context.Context) ([]*models.Publisher, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM publishers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var publishers []*models.Publisher
	for rows.Next() {
		var p models.Publisher
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		publishers = append(publishers, &p)
	}
	return publishers, rows.Err()
}
