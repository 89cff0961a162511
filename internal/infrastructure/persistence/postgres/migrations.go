package postgres

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// Schema notes:
//   - matches is insert-only; recorded games are never edited or removed.
//   - player_season_elo is the write-once rating baseline; the ON CONFLICT
//     DO NOTHING in the repository enforces write-once at the database level.
//   - season_player_stats is derived state, always rebuildable from matches.
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_players",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_matches",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_seasons",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}

const migration001Up = `
CREATE TABLE players (
	id          TEXT PRIMARY KEY,
	telegram_id BIGINT NOT NULL DEFAULT 0,
	username    TEXT NOT NULL UNIQUE,
	alias       TEXT NOT NULL DEFAULT '',
	current_elo INTEGER NOT NULL DEFAULT 1000 CHECK (current_elo >= 0),
	created_at  TIMESTAMP WITH TIME ZONE NOT NULL,
	updated_at  TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE UNIQUE INDEX idx_players_telegram_id ON players (telegram_id) WHERE telegram_id <> 0;

CREATE TABLE player_season_elo (
	player_id TEXT NOT NULL REFERENCES players(id),
	season_id TEXT NOT NULL,
	start_elo INTEGER NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	PRIMARY KEY (player_id, season_id)
);
`

const migration001Down = `
DROP TABLE IF EXISTS player_season_elo;
DROP TABLE IF EXISTS players;
`

const migration002Up = `
CREATE TABLE matches (
	id                TEXT PRIMARY KEY,
	season_id         TEXT NOT NULL,
	winner1_id        TEXT NOT NULL REFERENCES players(id),
	winner2_id        TEXT NOT NULL REFERENCES players(id),
	loser1_id         TEXT NOT NULL REFERENCES players(id),
	loser2_id         TEXT NOT NULL REFERENCES players(id),
	winner1_elo_change INTEGER NOT NULL,
	winner2_elo_change INTEGER NOT NULL,
	loser1_elo_change  INTEGER NOT NULL,
	loser2_elo_change  INTEGER NOT NULL,
	is_dry_win        BOOLEAN NOT NULL DEFAULT FALSE,
	played_at         TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE INDEX idx_matches_season ON matches (season_id, played_at);
CREATE INDEX idx_matches_winner1 ON matches (winner1_id, season_id);
CREATE INDEX idx_matches_winner2 ON matches (winner2_id, season_id);
CREATE INDEX idx_matches_loser1 ON matches (loser1_id, season_id);
CREATE INDEX idx_matches_loser2 ON matches (loser2_id, season_id);
`

const migration002Down = `
DROP TABLE IF EXISTS matches;
`

const migration003Up = `
CREATE TABLE seasons (
	id         TEXT PRIMARY KEY,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL,
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE TABLE season_player_stats (
	season_id      TEXT NOT NULL REFERENCES seasons(id),
	player_id      TEXT NOT NULL REFERENCES players(id),
	elo_gains      INTEGER NOT NULL DEFAULT 0,
	matches_played INTEGER NOT NULL DEFAULT 0,
	dry_wins       INTEGER NOT NULL DEFAULT 0,
	total_wins     INTEGER NOT NULL DEFAULT 0,
	longest_streak INTEGER NOT NULL DEFAULT 0,
	total_points   INTEGER NOT NULL DEFAULT 0,
	updated_at     TIMESTAMP WITH TIME ZONE NOT NULL,
	PRIMARY KEY (season_id, player_id)
);
`

const migration003Down = `
DROP TABLE IF EXISTS season_player_stats;
DROP TABLE IF EXISTS seasons;
`
