package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/balancewheel/internal/ctxkeys"
	"github.com/templui/balancewheel/internal/hierarchy"
	"github.com/templui/balancewheel/internal/model"
	"github.com/templui/balancewheel/internal/repository"
	"github.com/templui/balancewheel/internal/service"
	"github.com/templui/balancewheel/internal/validation"
)

// maxBodyBytes caps request bodies; goal payloads are tiny.
const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

var errBadJSON = errors.New("invalid JSON body")

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadJSON, err)
	}
	return nil
}

var badRequestErrors = []error{
	errBadJSON,
	errBadDate,
	model.ErrUnknownCategory,
	validation.ErrEmailRequired,
	validation.ErrEmailTooLong,
	validation.ErrEmailInvalid,
	validation.ErrPasswordTooShort,
	validation.ErrPasswordTooLong,
	validation.ErrPasswordCommon,
	validation.ErrTitleRequired,
	validation.ErrTitleTooLong,
	validation.ErrInvalidYear,
	validation.ErrInvalidMonth,
	validation.ErrInvalidDay,
}

var notFoundErrors = []error{
	repository.ErrUserNotFound,
	repository.ErrLifeGoalNotFound,
	repository.ErrYearlyGoalNotFound,
	repository.ErrMonthlyGoalNotFound,
	repository.ErrDailyGoalNotFound,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeServiceError maps service errors to statuses. Unexpected errors are
// logged at error level and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case isAny(err, badRequestErrors):
		writeError(w, http.StatusBadRequest, err.Error())
	case isAny(err, notFoundErrors):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, hierarchy.ErrMissingAncestor), errors.Is(err, hierarchy.ErrInconsistentHierarchy):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrStorageDisabled), errors.Is(err, service.ErrEmailNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error(msg, "error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

var errBadDate = errors.New("date must be YYYY-MM-DD")

// referenceTime reads ?key=YYYY-MM-DD as midnight in the request's timezone, defaulting to the
// current time.
func referenceTime(r *http.Request, key string) (time.Time, error) {
	loc := ctxkeys.Location(r.Context())
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Now().In(loc), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, v, loc)
	if err != nil {
		return time.Time{}, errBadDate
	}
	return t, nil
}
