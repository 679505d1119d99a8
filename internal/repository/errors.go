// Package repository defines the SQL data access for rooms, users, refresh
// tokens and reservations, along with the error values shared between
// them.  Higher layers use these sentinels to tell failure scenarios apart;
// only the booking orchestrator turns them into its own taxonomy.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// ErrReservationNotFound is returned when a reservation id matches no row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrRoomNotFound is returned when a room id matches no row.
var ErrRoomNotFound = errors.New("room not found")

// ErrUserNotFound is returned when a user lookup fails.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when a user is created with a taken email.
var ErrEmailExists = errors.New("email already exists")

// IsTransient reports whether err is a lock or contention failure that
// aborted the transaction and may succeed if the whole operation is
// retried: MySQL deadlocks (1213) and lock wait timeouts (1205), SQLite
// busy/locked.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// isDuplicate reports a unique key violation in either dialect.
func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate")
}
