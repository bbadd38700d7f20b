package booking

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentshare/internal/item"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleBookingFlow(t *testing.T) {
	f := newFixture(t)
	server := httptest.NewServer(NewHandler(f.svc).Routes())
	defer server.Close()

	start := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	end := time.Now().Add(3 * time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"item_id":%q,"start":%q,"end":%q}`, f.item.ID, start, end)

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/bookings", strings.NewReader(body))
	req.Header.Set(item.UserIDHeader, f.booker.ID.String())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created Booking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, StatusWaiting, created.Status)

	// Owner approves.
	req, _ = http.NewRequest(http.MethodPatch, server.URL+"/bookings/"+created.ID.String()+"?approved=true", nil)
	req.Header.Set(item.UserIDHeader, f.owner.ID.String())
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var resolved Booking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&resolved))
	resp.Body.Close()
	assert.Equal(t, StatusApproved, resolved.Status)

	// A second resolution is rejected.
	req, _ = http.NewRequest(http.MethodPatch, server.URL+"/bookings/"+created.ID.String()+"?approved=false", nil)
	req.Header.Set(item.UserIDHeader, f.owner.ID.String())
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleAddBookingEndBeforeStart(t *testing.T) {
	f := newFixture(t)
	server := httptest.NewServer(NewHandler(f.svc).Routes())
	defer server.Close()

	start := time.Now().Add(3 * time.Hour).UTC().Format(time.RFC3339)
	end := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"item_id":%q,"start":%q,"end":%q}`, f.item.ID, start, end)

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/bookings", strings.NewReader(body))
	req.Header.Set(item.UserIDHeader, f.booker.ID.String())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleListBookingsBadState(t *testing.T) {
	f := newFixture(t)
	server := httptest.NewServer(NewHandler(f.svc).Routes())
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/bookings?state=BOGUS", nil)
	req.Header.Set(item.UserIDHeader, f.booker.ID.String())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleApproveMissingHeader(t *testing.T) {
	f := newFixture(t)
	server := httptest.NewServer(NewHandler(f.svc).Routes())
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPatch, server.URL+"/bookings/6f1c5fbd-99a8-4b63-9f3c-0d1f37a9a001?approved=true", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
