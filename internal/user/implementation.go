package user

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rentshare/internal/audit"
	"rentshare/pkg/eventstore"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// service implements the Service interface.
type service struct {
	repo        Repository
	events      EventLog
	audit       audit.Recorder
	rateLimiter *rate.Limiter
}

// NewService creates a new user service instance.
func NewService(repo Repository, events EventLog, rec audit.Recorder) Service {
	return &service{
		repo:        repo,
		events:      events,
		audit:       rec,
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 10),
	}
}

// GetAllUsers returns every user in the store's natural order.
func (s *service) GetAllUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser returns a single user by id.
func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

// CreateUser registers a new user and, when a password was supplied, its
// credential record.
func (s *service) CreateUser(ctx context.Context, input CreateInput) (*User, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}

	id := uuid.New()

	eventData, err := json.Marshal(UserCreatedEvent{ID: id, Email: input.Email, Name: input.Name})
	if err != nil {
		return nil, fmt.Errorf("marshal event data: %w", err)
	}

	event := eventstore.Event{EventType: "UserCreated", EventData: eventData}
	if err := s.events.Append(ctx, id, "user", 0, []eventstore.Event{event}); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}

	u := &User{
		ID:      id,
		Name:    input.Name,
		Email:   input.Email,
		Version: 1,
	}
	created, err := s.repo.Save(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	if input.Password != "" {
		hash, salt, err := hashPassword(input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		cred := &Credential{UserID: id, PasswordHash: hash, Salt: salt}
		if err := s.repo.SaveCredential(ctx, cred); err != nil {
			return nil, fmt.Errorf("save credential: %w", err)
		}
	}

	s.audit.Record(ctx, "user.created", map[string]any{
		"user_id": created.ID.String(),
		"email":   created.Email,
	})
	return created, nil
}

// UpdateUser applies a partial update. Fields left nil in input keep the
// stored values; the target id is always the id passed here.
func (s *service) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateInput) (*User, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}

	updated := *existing
	if input.Name != nil {
		updated.Name = *input.Name
	}
	if input.Email != nil {
		updated.Email = *input.Email
	}
	updated.Version = existing.Version + 1

	eventData, err := json.Marshal(UserUpdatedEvent{ID: id, Email: updated.Email, Name: updated.Name})
	if err != nil {
		return nil, fmt.Errorf("marshal event data: %w", err)
	}

	event := eventstore.Event{EventType: "UserUpdated", EventData: eventData}
	if err := s.events.Append(ctx, id, "user", existing.Version, []eventstore.Event{event}); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}

	saved, err := s.repo.Update(ctx, &updated)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.audit.Record(ctx, "user.updated", map[string]any{
		"user_id": saved.ID.String(),
		"email":   saved.Email,
	})
	return saved, nil
}

// DeleteUser removes a user. Deleting an unknown id reports ErrNotFound.
func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get user %s: %w", id, err)
	}

	eventData, err := json.Marshal(UserDeletedEvent{ID: id})
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	event := eventstore.Event{EventType: "UserDeleted", EventData: eventData}
	if err := s.events.Append(ctx, id, "user", existing.Version, []eventstore.Event{event}); err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.audit.Record(ctx, "user.deleted", map[string]any{"user_id": id.String()})
	return nil
}

// Authenticate verifies a user's credentials and returns the user.
func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", ErrInvalidCredentials)
	}

	cred, err := s.repo.CredentialByUserID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", ErrInvalidCredentials)
	}

	ok, err := verifyPassword(password, cred.Salt, cred.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("authentication failed: %w", ErrInvalidCredentials)
	}

	s.audit.Record(ctx, "user.authenticated", map[string]any{"user_id": u.ID.String()})
	return u, nil
}
