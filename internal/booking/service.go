package booking

import (
	"context"
	"time"

	"rentshare/internal/item"
	"rentshare/internal/user"
	"rentshare/pkg/eventstore"

	"github.com/google/uuid"
)

// CreateInput carries the fields for a new booking request.
type CreateInput struct {
	ItemID uuid.UUID
	Start  time.Time
	End    time.Time
}

// Service defines the interface for the booking service.
type Service interface {
	AddBooking(ctx context.Context, requesterID uuid.UUID, input CreateInput) (*Booking, error)
	ApproveBooking(ctx context.Context, ownerID, bookingID uuid.UUID, approved bool) (*Booking, error)
	GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, state State) ([]Booking, error)
	GetUserItemsBookings(ctx context.Context, userID uuid.UUID, state State) ([]Booking, error)
}

// Repository is the store contract for bookings. Listing queries filter by
// state against the given instant and order by start descending.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	Save(ctx context.Context, b *Booking) (*Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, version int) (*Booking, error)
	ByBooker(ctx context.Context, bookerID uuid.UUID, state State, now time.Time) ([]Booking, error)
	ByItemOwner(ctx context.Context, ownerID uuid.UUID, state State, now time.Time) ([]Booking, error)
}

// UserDirectory resolves the requester or acting owner.
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// ItemDirectory resolves the item being booked.
type ItemDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*item.Item, error)
}

// EventLog is the slice of the event store the service appends to.
type EventLog interface {
	Append(ctx context.Context, aggregateID uuid.UUID, aggregateType string, expectedVersion int, events []eventstore.Event) error
}
