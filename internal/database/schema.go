package database

import (
	"context"
	"database/sql"
	"fmt"
)

// The schema is small enough to live here.  Both dialects share column
// names and types; only index and engine syntax differ.  All DATETIME
// columns hold UTC instants.

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		name          VARCHAR(120) NOT NULL,
		email         VARCHAR(190) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'USER',
		is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at    DATETIME     NOT NULL,
		updated_at    DATETIME     NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id         CHAR(36)     NOT NULL PRIMARY KEY,
		name       VARCHAR(190) NOT NULL UNIQUE,
		capacity   INT          NOT NULL,
		building   VARCHAR(120) NOT NULL,
		location   VARCHAR(120) NULL,
		category   VARCHAR(60)  NULL,
		created_at DATETIME     NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id                CHAR(36)     NOT NULL PRIMARY KEY,
		room_id           CHAR(36)     NOT NULL,
		user_id           CHAR(36)     NOT NULL,
		date              DATETIME     NOT NULL,
		start_time        DATETIME     NOT NULL,
		end_time          DATETIME     NOT NULL,
		title             VARCHAR(80)  NOT NULL,
		objective         VARCHAR(80)  NOT NULL,
		participant_group VARCHAR(80)  NOT NULL,
		note              VARCHAR(280) NULL,
		created_at        DATETIME     NOT NULL,
		updated_at        DATETIME     NOT NULL,
		INDEX idx_reservations_room_date (room_id, date, start_time),
		INDEX idx_reservations_date (date, start_time),
		INDEX idx_reservations_user (user_id, start_time),
		CONSTRAINT fk_reservations_room FOREIGN KEY (room_id) REFERENCES rooms(id) ON DELETE CASCADE,
		CONSTRAINT fk_reservations_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		CONSTRAINT chk_reservations_order CHECK (start_time < end_time)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         CHAR(36) NOT NULL PRIMARY KEY,
		user_id    CHAR(36) NOT NULL,
		token_hash CHAR(64) NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL,
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT     NOT NULL PRIMARY KEY,
		name          TEXT     NOT NULL,
		email         TEXT     NOT NULL UNIQUE,
		password_hash TEXT     NOT NULL,
		role          TEXT     NOT NULL DEFAULT 'USER',
		is_active     BOOLEAN  NOT NULL DEFAULT 1,
		created_at    DATETIME NOT NULL,
		updated_at    DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id         TEXT     NOT NULL PRIMARY KEY,
		name       TEXT     NOT NULL UNIQUE,
		capacity   INTEGER  NOT NULL,
		building   TEXT     NOT NULL,
		location   TEXT,
		category   TEXT,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id                TEXT     NOT NULL PRIMARY KEY,
		room_id           TEXT     NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		user_id           TEXT     NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date              DATETIME NOT NULL,
		start_time        DATETIME NOT NULL,
		end_time          DATETIME NOT NULL,
		title             TEXT     NOT NULL,
		objective         TEXT     NOT NULL,
		participant_group TEXT     NOT NULL,
		note              TEXT,
		created_at        DATETIME NOT NULL,
		updated_at        DATETIME NOT NULL,
		CHECK (start_time < end_time)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_room_date ON reservations (room_id, date, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations (date, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_user ON reservations (user_id, start_time)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         TEXT     NOT NULL PRIMARY KEY,
		user_id    TEXT     NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash TEXT     NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME,
		created_at DATETIME NOT NULL
	)`,
}

// Migrate creates any missing tables and indexes.  It is idempotent.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts := mysqlSchema
	if driver == DriverSQLite {
		stmts = sqliteSchema
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}
