package item

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rentshare/internal/audit"
	"rentshare/pkg/eventstore"

	"github.com/google/uuid"
)

// service implements the Service interface.
type service struct {
	repo   Repository
	users  UserDirectory
	events EventLog
	audit  audit.Recorder
}

// NewService creates a new item service instance.
func NewService(repo Repository, users UserDirectory, events EventLog, rec audit.Recorder) Service {
	return &service{
		repo:   repo,
		users:  users,
		events: events,
		audit:  rec,
	}
}

// AddItem lists a new item for an existing owner.
func (s *service) AddItem(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*Item, error) {
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get owner %s: %w", ownerID, err)
	}

	id := uuid.New()
	eventData, err := json.Marshal(ItemAddedEvent{
		ID:        id,
		OwnerID:   owner.ID,
		Name:      input.Name,
		Available: input.Available,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal event data: %w", err)
	}

	event := eventstore.Event{EventType: "ItemAdded", EventData: eventData}
	if err := s.events.Append(ctx, id, "item", 0, []eventstore.Event{event}); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}

	i := &Item{
		ID:          id,
		OwnerID:     owner.ID,
		Name:        input.Name,
		Description: input.Description,
		Available:   input.Available,
		Version:     1,
	}
	created, err := s.repo.Save(ctx, i)
	if err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}

	s.audit.Record(ctx, "item.added", map[string]any{
		"item_id":  created.ID.String(),
		"owner_id": created.OwnerID.String(),
	})
	return created, nil
}

// GetItem returns a single item by id.
func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	return i, nil
}

// GetOwnerItems returns all items listed by one owner.
func (s *service) GetOwnerItems(ctx context.Context, ownerID uuid.UUID) ([]Item, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("get owner %s: %w", ownerID, err)
	}

	items, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items for owner %s: %w", ownerID, err)
	}
	return items, nil
}

// UpdateItem applies a partial update; only the item's owner may edit it.
func (s *service) UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, input UpdateInput) (*Item, error) {
	existing, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", itemID, err)
	}
	if existing.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}

	updated := *existing
	if input.Name != nil {
		updated.Name = *input.Name
	}
	if input.Description != nil {
		updated.Description = *input.Description
	}
	if input.Available != nil {
		updated.Available = *input.Available
	}
	updated.Version = existing.Version + 1

	eventData, err := json.Marshal(ItemUpdatedEvent{
		ID:        itemID,
		Name:      updated.Name,
		Available: updated.Available,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal event data: %w", err)
	}

	event := eventstore.Event{EventType: "ItemUpdated", EventData: eventData}
	if err := s.events.Append(ctx, itemID, "item", existing.Version, []eventstore.Event{event}); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}

	saved, err := s.repo.Update(ctx, &updated)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.audit.Record(ctx, "item.updated", map[string]any{
		"item_id":   saved.ID.String(),
		"available": saved.Available,
	})
	return saved, nil
}

// SearchItems finds available items matching the text. A blank query returns
// an empty result rather than the whole catalog.
func (s *service) SearchItems(ctx context.Context, text string) ([]Item, error) {
	if strings.TrimSpace(text) == "" {
		return []Item{}, nil
	}

	items, err := s.repo.Search(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return items, nil
}
