package user

import (
	"context"
	"testing"

	"rentshare/internal/audit"
	"rentshare/pkg/eventstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type fakeRepo struct {
	users map[uuid.UUID]User
	creds map[uuid.UUID]Credential
	order []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: make(map[uuid.UUID]User),
		creds: make(map[uuid.UUID]Credential),
	}
}

func (r *fakeRepo) FindAll(_ context.Context) ([]User, error) {
	var out []User
	for _, id := range r.order {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) Save(_ context.Context, u *User) (*User, error) {
	r.users[u.ID] = *u
	r.order = append(r.order, u.ID)
	return u, nil
}

func (r *fakeRepo) Update(_ context.Context, u *User) (*User, error) {
	if _, ok := r.users[u.ID]; !ok {
		return nil, ErrNotFound
	}
	r.users[u.ID] = *u
	return u, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeRepo) SaveCredential(_ context.Context, c *Credential) error {
	r.creds[c.UserID] = *c
	return nil
}

func (r *fakeRepo) CredentialByUserID(_ context.Context, id uuid.UUID) (*Credential, error) {
	c, ok := r.creds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

type fakeEventLog struct {
	versions map[uuid.UUID]int
}

func newFakeEventLog() *fakeEventLog {
	return &fakeEventLog{versions: make(map[uuid.UUID]int)}
}

func (l *fakeEventLog) Append(_ context.Context, aggregateID uuid.UUID, _ string, expectedVersion int, events []eventstore.Event) error {
	if l.versions[aggregateID] != expectedVersion {
		return eventstore.ErrVersionConflict
	}
	l.versions[aggregateID] += len(events)
	return nil
}

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, newFakeEventLog(), audit.Nop{}), repo
}

func TestCreateAndGetUser(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateUser(context.Background(), CreateInput{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := svc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestGetUserNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAllUsersOrder(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.CreateUser(context.Background(), CreateInput{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	second, err := svc.CreateUser(context.Background(), CreateInput{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	all, err := svc.GetAllUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}

func TestUpdateUserPartial(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateUser(context.Background(), CreateInput{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	newName := "Alicia"
	updated, err := svc.UpdateUser(context.Background(), created.ID, UpdateInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email, "omitted email keeps the stored value")
	assert.Equal(t, created.ID, updated.ID)

	newEmail := "alicia@example.com"
	updated, err = svc.UpdateUser(context.Background(), created.ID, UpdateInput{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name, "omitted name keeps the stored value")
	assert.Equal(t, "alicia@example.com", updated.Email)
}

func TestUpdateUserNotFound(t *testing.T) {
	svc, _ := newTestService()

	name := "Nobody"
	_, err := svc.UpdateUser(context.Background(), uuid.New(), UpdateInput{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

// Any combination of set and omitted fields overwrites exactly the set ones.
func TestUpdateUserPartialProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		svc, _ := newTestService()

		origName := rapid.StringMatching(`[a-z]{1,12}`).Draw(t, "origName")
		origEmail := rapid.StringMatching(`[a-z]{1,8}@example\.com`).Draw(t, "origEmail")

		created, err := svc.CreateUser(context.Background(), CreateInput{Name: origName, Email: origEmail})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		var input UpdateInput
		wantName, wantEmail := origName, origEmail
		if rapid.Bool().Draw(t, "setName") {
			n := rapid.StringMatching(`[a-z]{1,12}`).Draw(t, "newName")
			input.Name = &n
			wantName = n
		}
		if rapid.Bool().Draw(t, "setEmail") {
			e := rapid.StringMatching(`[a-z]{1,8}@example\.com`).Draw(t, "newEmail")
			input.Email = &e
			wantEmail = e
		}

		updated, err := svc.UpdateUser(context.Background(), created.ID, input)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Name != wantName {
			t.Fatalf("name = %q, want %q", updated.Name, wantName)
		}
		if updated.Email != wantEmail {
			t.Fatalf("email = %q, want %q", updated.Email, wantEmail)
		}
		if updated.ID != created.ID {
			t.Fatalf("id changed on update")
		}
	})
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateUser(context.Background(), CreateInput{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), created.ID))

	_, err = svc.GetUser(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserNotFound(t *testing.T) {
	svc, _ := newTestService()

	err := svc.DeleteUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateUser(context.Background(), CreateInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "alice@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = svc.Authenticate(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
