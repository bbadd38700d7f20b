package item

import (
	"context"

	"rentshare/internal/user"
	"rentshare/pkg/eventstore"

	"github.com/google/uuid"
)

// CreateInput carries the fields for a new item listing.
type CreateInput struct {
	Name        string
	Description string
	Available   bool
}

// UpdateInput is a partial update. Nil fields keep the stored value.
type UpdateInput struct {
	Name        *string
	Description *string
	Available   *bool
}

// Service defines the interface for the item service.
type Service interface {
	AddItem(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	GetOwnerItems(ctx context.Context, ownerID uuid.UUID) ([]Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, input UpdateInput) (*Item, error)
	SearchItems(ctx context.Context, text string) ([]Item, error)
}

// Repository is the store contract for items.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]Item, error)
	Save(ctx context.Context, i *Item) (*Item, error)
	Update(ctx context.Context, i *Item) (*Item, error)
	Search(ctx context.Context, text string) ([]Item, error)
}

// UserDirectory resolves users; the owner must exist before an item is listed.
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// EventLog is the slice of the event store the service appends to.
type EventLog interface {
	Append(ctx context.Context, aggregateID uuid.UUID, aggregateType string, expectedVersion int, events []eventstore.Event) error
}
