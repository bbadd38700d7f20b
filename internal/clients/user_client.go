// Package clients holds HTTP implementations of the booking service's user
// and item lookup interfaces, for deployments where the booking service does
// not share a database with the user and item services.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"rentshare/internal/user"

	"github.com/google/uuid"
)

type UserClient struct {
	baseURL string
}

func NewUserClient(baseURL string) *UserClient {
	return &UserClient{baseURL: baseURL}
}

func (c *UserClient) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/users/%s", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, user.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var u user.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, err
	}

	return &u, nil
}
