package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rentshare/internal/audit"
	"rentshare/pkg/eventstore"

	"github.com/google/uuid"
)

// service implements the Service interface.
type service struct {
	repo   Repository
	users  UserDirectory
	items  ItemDirectory
	events EventLog
	audit  audit.Recorder
}

// NewService creates a new booking service instance.
func NewService(repo Repository, users UserDirectory, items ItemDirectory, events EventLog, rec audit.Recorder) Service {
	return &service{
		repo:   repo,
		users:  users,
		items:  items,
		events: events,
		audit:  rec,
	}
}

// AddBooking places a new booking with status WAITING. All checks run before
// anything is written: the requester and item must exist, owners cannot book
// their own items, and the item must be available.
func (s *service) AddBooking(ctx context.Context, requesterID uuid.UUID, input CreateInput) (*Booking, error) {
	booker, err := s.users.FindByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("get booker %s: %w", requesterID, err)
	}

	bookedItem, err := s.items.FindByID(ctx, input.ItemID)
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", input.ItemID, err)
	}

	if bookedItem.OwnerID == booker.ID {
		return nil, fmt.Errorf("owner cannot book own item: %w", ErrAccessDenied)
	}
	if !bookedItem.Available {
		return nil, fmt.Errorf("item %s: %w", bookedItem.ID, ErrItemUnavailable)
	}

	id := uuid.New()
	eventData, err := json.Marshal(BookingCreatedEvent{
		ID:       id,
		ItemID:   bookedItem.ID,
		BookerID: booker.ID,
		Start:    input.Start,
		End:      input.End,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal event data: %w", err)
	}

	event := eventstore.Event{EventType: "BookingCreated", EventData: eventData}
	if err := s.events.Append(ctx, id, "booking", 0, []eventstore.Event{event}); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}

	b := &Booking{
		ID:      id,
		Item:    *bookedItem,
		Booker:  *booker,
		Start:   input.Start,
		End:     input.End,
		Status:  StatusWaiting,
		Version: 1,
	}
	created, err := s.repo.Save(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}

	s.audit.Record(ctx, "booking.created", map[string]any{
		"booking_id": created.ID.String(),
		"item_id":    created.Item.ID.String(),
		"booker_id":  created.Booker.ID.String(),
	})
	return created, nil
}

// ApproveBooking resolves a WAITING booking to APPROVED or REJECTED. Only the
// item's owner may resolve, and only once: the event store's version check
// turns a concurrent resolution into ErrAlreadyResolved.
func (s *service) ApproveBooking(ctx context.Context, ownerID, bookingID uuid.UUID, approved bool) (*Booking, error) {
	b, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}

	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get owner %s: %w", ownerID, err)
	}

	if b.Item.OwnerID != owner.ID {
		return nil, fmt.Errorf("only the item owner can resolve a booking: %w", ErrAccessDenied)
	}
	if b.Status != StatusWaiting {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrAlreadyResolved)
	}

	status := StatusRejected
	if approved {
		status = StatusApproved
	}

	eventData, err := json.Marshal(BookingResolvedEvent{ID: bookingID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("marshal event data: %w", err)
	}

	event := eventstore.Event{EventType: "BookingResolved", EventData: eventData}
	if err := s.events.Append(ctx, bookingID, "booking", b.Version, []eventstore.Event{event}); err != nil {
		if errors.Is(err, eventstore.ErrVersionConflict) {
			return nil, fmt.Errorf("booking %s: %w", bookingID, ErrAlreadyResolved)
		}
		return nil, fmt.Errorf("append event: %w", err)
	}

	resolved, err := s.repo.UpdateStatus(ctx, bookingID, status, b.Version+1)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	s.audit.Record(ctx, "booking.resolved", map[string]any{
		"booking_id": resolved.ID.String(),
		"status":     string(resolved.Status),
	})
	return resolved, nil
}

// GetBooking returns a booking to its booker or to the item's owner.
func (s *service) GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error) {
	b, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}

	caller, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}

	if b.Item.OwnerID != caller.ID && b.Booker.ID != caller.ID {
		return nil, fmt.Errorf("only the item owner or the booker can view a booking: %w", ErrAccessDenied)
	}

	return b, nil
}

// GetUserBookings lists the bookings a user placed, filtered by state and
// ordered by start descending.
func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, state State) ([]Booking, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}

	bookings, err := s.repo.ByBooker(ctx, userID, state, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list bookings for booker %s: %w", userID, err)
	}
	return bookings, nil
}

// GetUserItemsBookings lists the bookings placed on a user's items, filtered
// by state and ordered by start descending.
func (s *service) GetUserItemsBookings(ctx context.Context, userID uuid.UUID, state State) ([]Booking, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}

	bookings, err := s.repo.ByItemOwner(ctx, userID, state, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list bookings for owner %s: %w", userID, err)
	}
	return bookings, nil
}
