package user

import (
	"context"

	"rentshare/pkg/eventstore"

	"github.com/google/uuid"
)

// CreateInput carries the fields for a new user. Password is optional; when
// set, a credential record is stored alongside the user.
type CreateInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateInput is a partial update. Nil fields keep the stored value.
type UpdateInput struct {
	Name  *string
	Email *string
}

// Service defines the interface for the user service.
type Service interface {
	GetAllUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	CreateUser(ctx context.Context, input CreateInput) (*User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateInput) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	Authenticate(ctx context.Context, email, password string) (*User, error)
}

// Repository is the store contract for users and credentials.
type Repository interface {
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, u *User) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SaveCredential(ctx context.Context, c *Credential) error
	CredentialByUserID(ctx context.Context, id uuid.UUID) (*Credential, error)
}

// EventLog is the slice of the event store the service appends to.
type EventLog interface {
	Append(ctx context.Context, aggregateID uuid.UUID, aggregateType string, expectedVersion int, events []eventstore.Event) error
}
