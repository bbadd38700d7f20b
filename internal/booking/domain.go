package booking

import (
	"errors"
	"fmt"
	"time"

	"rentshare/internal/item"
	"rentshare/internal/user"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("booking not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrItemUnavailable = errors.New("item is not available for booking")
	ErrAlreadyResolved = errors.New("booking was already approved or rejected")
)

// Status is a booking's approval status. It starts at StatusWaiting and
// transitions exactly once, to StatusApproved or StatusRejected.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// State selects which subset of a user's bookings a listing returns.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState converts a query parameter into a State. An empty value means
// StateAll.
func ParseState(s string) (State, error) {
	switch State(s) {
	case "":
		return StateAll, nil
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return State(s), nil
	default:
		return "", fmt.Errorf("unknown state %q", s)
	}
}

// Matches reports whether a booking falls under this filter at the given
// instant. The CURRENT window is inclusive at both ends.
func (s State) Matches(b *Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StatePast:
		return b.End.Before(now)
	case StateCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	}
	return false
}

// Booking reserves an item for a time window. Item and Booker are snapshots
// loaded per call, never shared across requests.
type Booking struct {
	ID        uuid.UUID `json:"id"`
	Item      item.Item `json:"item"`
	Booker    user.User `json:"booker"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    Status    `json:"status"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// BookingCreatedEvent is appended when a booking is placed.
type BookingCreatedEvent struct {
	ID       uuid.UUID `json:"id"`
	ItemID   uuid.UUID `json:"item_id"`
	BookerID uuid.UUID `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// BookingResolvedEvent is appended when the owner approves or rejects.
type BookingResolvedEvent struct {
	ID     uuid.UUID `json:"id"`
	Status Status    `json:"status"`
}
