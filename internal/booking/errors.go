package booking

import (
	"errors"

	"github.com/iliyamo/room-reservation/internal/ratelimit"
)

// Failures of a reservation operation.  Validation failures are reported as
// *validation.Error or wrap validation.ErrEmptyAfterSanitization, rate
// limiting as *ratelimit.Error.  Any other error comes from the store
// unchanged; the operation left no partial state and may be retried.
var (
	ErrUnauthenticated = errors.New("invalid session, please sign in again")
	ErrForbidden       = errors.New("action not allowed")
	ErrNotFound        = errors.New("reservation not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrSlotConflict    = errors.New("slot already booked for this room")
)

// ErrTooManyRequests matches rate limit rejections with errors.Is.
var ErrTooManyRequests = ratelimit.ErrTooManyRequests
