package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"rentshare/internal/item"
	"rentshare/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/bookings", h.handleAddBooking)
	r.Get("/bookings", h.handleUserBookings)
	r.Get("/bookings/owner", h.handleOwnerBookings)
	r.Get("/bookings/{bookingID}", h.handleGetBooking)
	r.Patch("/bookings/{bookingID}", h.handleApproveBooking)
	return r
}

type createBookingRequest struct {
	ItemID uuid.UUID `json:"item_id" validate:"required"`
	Start  time.Time `json:"start" validate:"required"`
	End    time.Time `json:"end" validate:"required,gtfield=Start"`
}

func (h *Handler) handleAddBooking(w http.ResponseWriter, r *http.Request) {
	requesterID, err := item.ActingUser(r)
	if err != nil {
		http.Error(w, "missing or invalid "+item.UserIDHeader+" header", http.StatusBadRequest)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.service.AddBooking(r.Context(), requesterID, CreateInput{
		ItemID: req.ItemID,
		Start:  req.Start,
		End:    req.End,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) handleApproveBooking(w http.ResponseWriter, r *http.Request) {
	ownerID, err := item.ActingUser(r)
	if err != nil {
		http.Error(w, "missing or invalid "+item.UserIDHeader+" header", http.StatusBadRequest)
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		http.Error(w, "invalid booking ID", http.StatusBadRequest)
		return
	}

	var approved bool
	switch r.URL.Query().Get("approved") {
	case "true":
		approved = true
	case "false":
		approved = false
	default:
		http.Error(w, "approved must be true or false", http.StatusBadRequest)
		return
	}

	b, err := h.service.ApproveBooking(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := item.ActingUser(r)
	if err != nil {
		http.Error(w, "missing or invalid "+item.UserIDHeader+" header", http.StatusBadRequest)
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		http.Error(w, "invalid booking ID", http.StatusBadRequest)
		return
	}

	b, err := h.service.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) handleUserBookings(w http.ResponseWriter, r *http.Request) {
	h.handleList(w, r, h.service.GetUserBookings)
}

func (h *Handler) handleOwnerBookings(w http.ResponseWriter, r *http.Request) {
	h.handleList(w, r, h.service.GetUserItemsBookings)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID uuid.UUID, state State) ([]Booking, error)) {
	userID, err := item.ActingUser(r)
	if err != nil {
		http.Error(w, "missing or invalid "+item.UserIDHeader+" header", http.StatusBadRequest)
		return
	}

	state, err := ParseState(r.URL.Query().Get("state"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bookings, err := list(r.Context(), userID, state)
	if err != nil {
		writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, user.ErrNotFound), errors.Is(err, item.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrAccessDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrItemUnavailable), errors.Is(err, ErrAlreadyResolved):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
