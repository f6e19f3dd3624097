package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts are stored as TEXT so decimals round-trip exactly.
// Entry IDs are unique per game only: an imported snapshot keeps its IDs.
const schema = `
CREATE TABLE IF NOT EXISTS games (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    currency TEXT NOT NULL,
    default_buy_in TEXT NOT NULL,
    passcode_hash TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
    game_id TEXT NOT NULL,
    player_key TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (game_id, player_key),
    FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS entries (
    id TEXT NOT NULL,
    game_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    player_key TEXT NOT NULL,
    player TEXT NOT NULL,
    kind TEXT NOT NULL CHECK (kind IN ('buy_in', 'rebuy', 'cash_out')),
    amount TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (game_id, id),
    FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE,
    FOREIGN KEY (game_id, player_key) REFERENCES players(game_id, player_key)
);

CREATE INDEX IF NOT EXISTS idx_players_game_id ON players(game_id, position);
CREATE INDEX IF NOT EXISTS idx_entries_game_id ON entries(game_id, seq);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
