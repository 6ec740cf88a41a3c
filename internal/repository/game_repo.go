package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/models"
)

// SQLiteGameRepository implements GameRepository for SQLite/libsql.
type SQLiteGameRepository struct {
	db *sql.DB
}

// NewSQLiteGameRepository creates a new SQLite game repository.
func NewSQLiteGameRepository(db *sql.DB) *SQLiteGameRepository {
	return &SQLiteGameRepository{db: db}
}

const gameColumns = `id, slug, title, description, image_url,
	min_players, max_players, suggested_age,
	difficulty, play_time, game_type,
	publisher_id, is_expansion, parent_game_id, in_base_game_box,
	is_coming_soon, is_for_sale, sale_price, sale_condition,
	location_room, location_shelf, location_misc,
	sleeved, upgraded_components, crowdfunded, inserts,
	bgg_id, bgg_url, created_at, updated_at`

// Create inserts a new game row. The ID and slug are generated when
// empty.
func (r *SQLiteGameRepository) Create(ctx context.Context, game *models.Game) error {
	now := time.Now()
	if game.ID == "" {
		game.ID = ulid.Make().String()
	}
	if game.Slug == "" {
		game.Slug = models.Slugify(game.Title)
	}
	game.CreatedAt = now
	game.UpdatedAt = now

	var saleCondition *string
	if game.SaleCondition != nil {
		s := string(*game.SaleCondition)
		saleCondition = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO games (`+gameColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		game.ID,
		game.Slug,
		game.Title,
		game.Description,
		game.ImageURL,
		game.MinPlayers,
		game.MaxPlayers,
		game.SuggestedAge,
		string(game.Difficulty),
		string(game.PlayTime),
		string(game.GameType),
		game.PublisherID,
		game.IsExpansion,
		game.ParentGameID,
		game.InBaseGameBox,
		game.IsComingSoon,
		game.IsForSale,
		game.SalePrice,
		saleCondition,
		game.LocationRoom,
		game.LocationShelf,
		game.LocationMisc,
		game.Sleeved,
		game.UpgradedComponents,
		game.Crowdfunded,
		game.Inserts,
		game.BGGID,
		game.BGGURL,
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)

	return err
}

// GetByID retrieves a game by ID.
func (r *SQLiteGameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	return r.scanGame(row)
}

// GetByTitle retrieves a game by exact, case-sensitive title match.
func (r *SQLiteGameRepository) GetByTitle(ctx context.Context, title string) (*models.Game, error) {
	// SQLite's = is case-insensitive for ASCII under NOCASE collations;
	// the schema uses the default BINARY collation so this match is exact.
	row := r.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE title = ?`, title)
	return r.scanGame(row)
}

// GetBySlug retrieves a game by slug.
func (r *SQLiteGameRepository) GetBySlug(ctx context.Context, slug string) (*models.Game, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE slug = ?`, slug)
	return r.scanGame(row)
}

// List returns games ordered by title.
func (r *SQLiteGameRepository) List(ctx context.Context, limit, offset int) ([]*models.Game, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games ORDER BY title LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := r.scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// Count returns the total number of games.
func (r *SQLiteGameRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&count)
	return count, err
}

// LinkMechanic attaches a mechanic to a game. Re-linking the same pair
// is a no-op.
func (r *SQLiteGameRepository) LinkMechanic(ctx context.Context, gameID, mechanicID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO game_mechanics (game_id, mechanic_id) VALUES (?, ?)
	`, gameID, mechanicID)
	return err
}

// MechanicsForGame returns the mechanics linked to a game.
func (r *SQLiteGameRepository) MechanicsForGame(ctx context.Context, gameID string) ([]*models.Mechanic, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.name FROM mechanics m
		JOIN game_mechanics gm ON gm.mechanic_id = m.id
		WHERE gm.game_id = ?
		ORDER BY m.name
	`, gameID)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteGameRepository) scanGame(row rowScanner) (*models.Game, error) {
	var game models.Game
	var description, imageURL, suggestedAge sql.NullString
	var publisherID, parentGameID sql.NullString
	var salePrice sql.NullFloat64
	var saleCondition sql.NullString
	var locationRoom, locationShelf, locationMisc sql.NullString
	var bggID, bggURL sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&game.ID,
		&game.Slug,
		&game.Title,
		&description,
		&imageURL,
		&game.MinPlayers,
		&game.MaxPlayers,
		&suggestedAge,
		&game.Difficulty,
		&game.PlayTime,
		&game.GameType,
		&publisherID,
		&game.IsExpansion,
		&parentGameID,
		&game.InBaseGameBox,
		&game.IsComingSoon,
		&game.IsForSale,
		&salePrice,
		&saleCondition,
		&locationRoom,
		&locationShelf,
		&locationMisc,
		&game.Sleeved,
		&game.UpgradedComponents,
		&game.Crowdfunded,
		&game.Inserts,
		&bggID,
		&bggURL,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	game.Description = description.String
	game.ImageURL = imageURL.String
	game.SuggestedAge = suggestedAge.String
	if publisherID.Valid {
		game.PublisherID = &publisherID.String
	}
	if parentGameID.Valid {
		game.ParentGameID = &parentGameID.String
	}
	if salePrice.Valid {
		game.SalePrice = &salePrice.Float64
	}
	if saleCondition.Valid {
		if cond, ok := models.ParseSaleCondition(saleCondition.String); ok {
			game.SaleCondition = &cond
		}
	}
	game.LocationRoom = locationRoom.String
	game.LocationShelf = locationShelf.String
	game.LocationMisc = locationMisc.String
	game.BGGID = bggID.String
	game.BGGURL = bggURL.String
	game.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	game.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &game, nil
}
