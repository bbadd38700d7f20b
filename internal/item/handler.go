package item

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentshare/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// UserIDHeader carries the acting user's id on item and booking requests.
const UserIDHeader = "X-User-ID"

type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/items", h.handleAddItem)
	r.Get("/items", h.handleOwnerItems)
	r.Get("/items/search", h.handleSearch)
	r.Get("/items/{itemID}", h.handleGetItem)
	r.Patch("/items/{itemID}", h.handleUpdateItem)
	return r
}

type createItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Available   *bool  `json:"available" validate:"required"`
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// ActingUser parses the X-User-ID header.
func ActingUser(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.Header.Get(UserIDHeader))
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ActingUser(r)
	if err != nil {
		http.Error(w, "missing or invalid "+UserIDHeader+" header", http.StatusBadRequest)
		return
	}

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	i, err := h.service.AddItem(r.Context(), ownerID, CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, i)
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	i, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, i)
}

func (h *Handler) handleOwnerItems(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ActingUser(r)
	if err != nil {
		http.Error(w, "missing or invalid "+UserIDHeader+" header", http.StatusBadRequest)
		return
	}

	items, err := h.service.GetOwnerItems(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ActingUser(r)
	if err != nil {
		http.Error(w, "missing or invalid "+UserIDHeader+" header", http.StatusBadRequest)
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	i, err := h.service.UpdateItem(r.Context(), ownerID, itemID, UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, i)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.SearchItems(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, user.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrAccessDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
