package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/room-reservation/internal/model"
)

// ReservationRepo provides the reads and transactional writes on the
// reservations table.  Every write method takes the *sql.Tx it must run in;
// callers open it through WithTx so the overlap check and the write share
// one transaction.  All instants are stored in UTC.
type ReservationRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB, dialect Dialect) *ReservationRepo {
	return &ReservationRepo{db: db, dialect: dialect}
}

// DB exposes the underlying handle for standalone reads.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// WithTx runs fn in a mutation transaction with the isolation level the
// dialect needs for the overlap check.
func (r *ReservationRepo) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return WithTx(ctx, r.db, r.dialect.txOptions(), fn)
}

// OverlapQuery describes a candidate booking.  ExcludeID, when set, leaves
// that reservation out of the check so an update is only compared against
// the room's other bookings.
type OverlapQuery struct {
	RoomID    string
	Day       time.Time
	Start     time.Time
	End       time.Time
	ExcludeID string
}

// HasOverlapTx reports whether any reservation of the room on that day
// intersects [Start, End).  Intervals that only touch at an endpoint do
// not overlap.
func (r *ReservationRepo) HasOverlapTx(ctx context.Context, q Querier, oq OverlapQuery) (bool, error) {
	query := `SELECT id FROM reservations
		WHERE room_id = ? AND date = ? AND start_time < ? AND end_time > ?`
	args := []any{oq.RoomID, oq.Day.UTC(), oq.End.UTC(), oq.Start.UTC()}
	if oq.ExcludeID != "" {
		query += ` AND id <> ?`
		args = append(args, oq.ExcludeID)
	}
	query += ` LIMIT 1`

	var id string
	err := q.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const reservationColumns = `id, room_id, user_id, date, start_time, end_time,
	title, objective, participant_group, note, created_at, updated_at`

// CreateTx inserts res inside tx.  ID, CreatedAt and UpdatedAt are set on
// the record.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	now := time.Now().UTC().Truncate(time.Second)
	res.ID = uuid.NewString()
	res.CreatedAt, res.UpdatedAt = now, now
	_, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (`+reservationColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.RoomID, res.UserID, res.Date.UTC(), res.StartTime.UTC(), res.EndTime.UTC(),
		res.Title, res.Objective, res.ParticipantGroup, res.Note, res.CreatedAt, res.UpdatedAt)
	return err
}

// GetForUpdateTx loads a reservation inside tx, locking its row on MySQL.
// Returns ErrReservationNotFound when the id matches nothing.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?` + r.dialect.lockClause()
	res, err := scanReservation(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// GetByID loads a reservation outside any transaction.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// UpdateTx writes the room, times and content of res.  UpdatedAt is
// refreshed on the record.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	res.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	result, err := tx.ExecContext(ctx,
		`UPDATE reservations
		 SET room_id = ?, date = ?, start_time = ?, end_time = ?,
		     title = ?, objective = ?, participant_group = ?, note = ?, updated_at = ?
		 WHERE id = ?`,
		res.RoomID, res.Date.UTC(), res.StartTime.UTC(), res.EndTime.UTC(),
		res.Title, res.Objective, res.ParticipantGroup, res.Note, res.UpdatedAt, res.ID)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// DeleteTx removes the reservation with the given id.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id string) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func expectOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

const detailSelect = `SELECT r.id, r.room_id, r.user_id, r.date, r.start_time, r.end_time,
	r.title, r.objective, r.participant_group, r.note, r.created_at, r.updated_at,
	ro.name, ro.building, ro.capacity, ro.location, ro.category,
	u.name, u.email
	FROM reservations r
	JOIN rooms ro ON ro.id = r.room_id
	JOIN users u ON u.id = r.user_id`

// GetDetail loads a reservation with its room and owner joined.  Pass the
// open transaction to read a row written earlier in it.
func (r *ReservationRepo) GetDetail(ctx context.Context, q Querier, id string) (*model.ReservationDetail, error) {
	if q == nil {
		q = r.db
	}
	d, err := scanDetail(q.QueryRowContext(ctx, detailSelect+` WHERE r.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return d, err
}

// ListRange returns reservations whose day falls in [from, to), optionally
// restricted to one room, ordered by day then start time.
func (r *ReservationRepo) ListRange(ctx context.Context, from, to time.Time, roomID string) ([]model.ReservationDetail, error) {
	q := detailSelect + ` WHERE r.date >= ? AND r.date < ?`
	args := []any{from.UTC(), to.UTC()}
	if roomID != "" {
		q += ` AND r.room_id = ?`
		args = append(args, roomID)
	}
	q += ` ORDER BY r.date, r.start_time`
	return r.listDetails(ctx, q, args...)
}

// ListByUser returns a user's reservations, most recent first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.ReservationDetail, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.listDetails(ctx, detailSelect+` WHERE r.user_id = ? ORDER BY r.start_time DESC LIMIT ?`, userID, limit)
}

// ListUpcoming returns the next reservations starting strictly after now.
func (r *ReservationRepo) ListUpcoming(ctx context.Context, now time.Time, limit int) ([]model.ReservationDetail, error) {
	return r.listDetails(ctx, detailSelect+` WHERE r.start_time > ? ORDER BY r.start_time LIMIT ?`, now.UTC(), limit)
}

// OccupiedRoomIDs returns the distinct rooms with a reservation in
// progress at instant now.
func (r *ReservationRepo) OccupiedRoomIDs(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT room_id FROM reservations WHERE start_time <= ? AND end_time > ?`,
		now.UTC(), now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ReservationRepo) listDetails(ctx context.Context, q string, args ...any) ([]model.ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ReservationDetail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func scanReservation(s rowScanner) (*model.Reservation, error) {
	var res model.Reservation
	var note sql.NullString
	err := s.Scan(&res.ID, &res.RoomID, &res.UserID, &res.Date, &res.StartTime, &res.EndTime,
		&res.Title, &res.Objective, &res.ParticipantGroup, &note, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	res.Note = nullString(note)
	return &res, nil
}

func scanDetail(s rowScanner) (*model.ReservationDetail, error) {
	var d model.ReservationDetail
	var note, location, category sql.NullString
	err := s.Scan(&d.ID, &d.RoomID, &d.UserID, &d.Date, &d.StartTime, &d.EndTime,
		&d.Title, &d.Objective, &d.ParticipantGroup, &note, &d.CreatedAt, &d.UpdatedAt,
		&d.Room.Name, &d.Room.Building, &d.Room.Capacity, &location, &category,
		&d.Owner.Name, &d.Owner.Email)
	if err != nil {
		return nil, err
	}
	d.Note = nullString(note)
	d.Room.Location = nullString(location)
	d.Room.Category = nullString(category)
	return &d, nil
}
