// Package testfixtures provides a migrated SQLite database and seed rows
// for store-backed tests.
package testfixtures

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/model"
)

// Password is the plain password of every seeded user.
const Password = "correct horse battery"

// OpenDB opens a fresh file-backed SQLite database under t.TempDir with
// the production schema applied.  It is closed when the test ends.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "reservations.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedRoom inserts a room and returns its id.
func SeedRoom(t testing.TB, db *sql.DB, name string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO rooms (id, name, capacity, building, location, category, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, name, 40, "Bâtiment A", "1er étage", "Salle de cours", time.Now().UTC().Truncate(time.Second))
	if err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return id
}

// SeedUser inserts an active user with Password and returns its id.
func SeedUser(t testing.TB, db *sql.DB, email, role string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if role == "" {
		role = model.RoleUser
	}
	id := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)
	_, err = db.Exec(
		`INSERT INTO users (id, name, email, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, email, email, string(hash), role, true, now, now)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

// At returns the instant of a wall clock on a day, in UTC.
func At(day, hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", day+" "+hhmm)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}
