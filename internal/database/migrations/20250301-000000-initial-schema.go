package migrations

func init() {
	Register(Migration{
		Timestamp:   "20250301-000000",
		Description: "Initial schema",
		Up: []string{
			`CREATE TABLE IF NOT EXISTS publishers (
				id TEXT PRIMARY KEY,
				name TEXT UNIQUE NOT NULL
			)`,

			`CREATE TABLE IF NOT EXISTS mechanics (
				id TEXT PRIMARY KEY,
				name TEXT UNIQUE NOT NULL
			)`,

			`CREATE TABLE IF NOT EXISTS games (
				id TEXT PRIMARY KEY,
				slug TEXT NOT NULL,
				title TEXT NOT NULL,
				description TEXT,
				image_url TEXT,
				min_players INTEGER NOT NULL DEFAULT 1,
				max_players INTEGER NOT NULL DEFAULT 1,
				suggested_age TEXT,
				difficulty TEXT NOT NULL,
				play_time TEXT NOT NULL,
				game_type TEXT NOT NULL,
				publisher_id TEXT REFERENCES publishers(id),
				is_expansion INTEGER NOT NULL DEFAULT 0,
				parent_game_id TEXT REFERENCES games(id),
				in_base_game_box INTEGER NOT NULL DEFAULT 0,
				bgg_id TEXT,
				bgg_url TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_games_title ON games(title)`,
			`CREATE INDEX IF NOT EXISTS idx_games_slug ON games(slug)`,
			`CREATE INDEX IF NOT EXISTS idx_games_publisher_id ON games(publisher_id)`,

			`CREATE TABLE IF NOT EXISTS game_mechanics (
				game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
				mechanic_id TEXT NOT NULL REFERENCES mechanics(id) ON DELETE CASCADE,
				PRIMARY KEY (game_id, mechanic_id)
			)`,

			`CREATE TABLE IF NOT EXISTS wishlist_items (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				notes TEXT,
				bgg_url TEXT,
				priority INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL
			)`,

			`CREATE TABLE IF NOT EXISTS messages (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				game_id TEXT REFERENCES games(id),
				body TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,

			`CREATE TABLE IF NOT EXISTS api_keys (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				key_hash TEXT UNIQUE NOT NULL,
				key_prefix TEXT NOT NULL,
				last_used_at TEXT,
				created_at TEXT NOT NULL,
				revoked_at TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_api_keys_key_hash ON api_keys(key_hash)`,
		},
	})
}
