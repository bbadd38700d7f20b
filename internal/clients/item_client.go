package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"rentshare/internal/item"

	"github.com/google/uuid"
)

type ItemClient struct {
	baseURL string
}

func NewItemClient(baseURL string) *ItemClient {
	return &ItemClient{baseURL: baseURL}
}

func (c *ItemClient) FindByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/items/%s", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, item.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var i item.Item
	if err := json.NewDecoder(resp.Body).Decode(&i); err != nil {
		return nil, err
	}

	return &i, nil
}
