package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/room-reservation/internal/model"
)

// RoomRepo reads the room directory and takes the per-room locks that
// serialize reservation writes.
type RoomRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB, dialect Dialect) *RoomRepo {
	return &RoomRepo{db: db, dialect: dialect}
}

const roomColumns = "id, name, capacity, building, location, category, created_at"

// Create inserts a room and fills in its ID and CreatedAt.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	room.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (`+roomColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		room.ID, room.Name, room.Capacity, room.Building, room.Location, room.Category, room.CreatedAt)
	return err
}

// GetByID returns a single room or ErrRoomNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	room, err := scanRoom(r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	return room, err
}

// GetByName returns a room by its unique name or ErrRoomNotFound.
func (r *RoomRepo) GetByName(ctx context.Context, name string) (*model.Room, error) {
	room, err := scanRoom(r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	return room, err
}

// List returns every room ordered by name.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *room)
	}
	return out, rows.Err()
}

// LockTx takes an exclusive row lock on each room for the rest of tx.
// Rooms are locked in id order so two transactions touching the same pair
// of rooms cannot deadlock.  Returns ErrRoomNotFound for an unknown id.
func (r *RoomRepo) LockTx(ctx context.Context, tx *sql.Tx, ids ...string) error {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Strings(uniq)

	q := `SELECT id FROM rooms WHERE id = ?` + r.dialect.lockClause()
	for _, id := range uniq {
		var got string
		if err := tx.QueryRowContext(ctx, q, id).Scan(&got); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoomNotFound
			}
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(s rowScanner) (*model.Room, error) {
	var room model.Room
	var location, category sql.NullString
	if err := s.Scan(&room.ID, &room.Name, &room.Capacity, &room.Building, &location, &category, &room.CreatedAt); err != nil {
		return nil, err
	}
	room.Location = nullString(location)
	room.Category = nullString(category)
	return &room, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
