package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shoplinehq/commerce-manager/internal/cache"
	"github.com/shoplinehq/commerce-manager/internal/entity"
)

type errResponse struct {
	Error string `json:"error"`
}

func respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("can't encode response", "err", err)
	}
}

// respondError maps the error taxonomy onto status codes. Anything outside
// the taxonomy is logged with the operation tag and surfaced as an opaque
// server error.
func respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *entity.ValidationError
	var te *entity.InvalidTransitionError
	switch {
	case errors.As(err, &ve):
		respond(w, http.StatusBadRequest, errResponse{Error: ve.Message})
	case errors.Is(err, cache.ErrFull):
		respond(w, http.StatusBadRequest, errResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrDuplicateEntry):
		respond(w, http.StatusConflict, errResponse{Error: "duplicate entry"})
	case errors.Is(err, entity.ErrNotFound):
		respond(w, http.StatusNotFound, errResponse{Error: "not found"})
	case errors.As(err, &te):
		respond(w, http.StatusUnprocessableEntity, errResponse{Error: te.Error()})
	default:
		slog.ErrorContext(r.Context(), "request failed", "op", op, "err", err)
		respond(w, http.StatusInternalServerError, errResponse{Error: "internal error"})
	}
}

// decodeBody reads the JSON request body; malformed bodies surface as
// validation failures.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &entity.ValidationError{Message: "malformed request body"}
	}
	return nil
}

// pageRequest reads page and limit query parameters, falling back to page 1
// and the per-entity default limit.
func pageRequest(r *http.Request, defaultLimit int) entity.PageRequest {
	pr := entity.PageRequest{
		Page:  intQuery(r, "page"),
		Limit: intQuery(r, "limit"),
	}
	pr.Normalize(defaultLimit)
	return pr
}

func intQuery(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

// requireUserID reads the userId query parameter shared by the per-user
// list endpoints.
func requireUserID(r *http.Request) (string, error) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		return "", &entity.ValidationError{Message: "userId is required"}
	}
	return userID, nil
}

// requireIntQuery reads a required integer query parameter.
func requireIntQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, &entity.ValidationError{Message: name + " is required"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &entity.ValidationError{Message: name + " must be a positive integer"}
	}
	return n, nil
}
