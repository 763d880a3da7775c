package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/go-chi/chi/v5"
)

func checkJSONDecodeError(err error) error {
	var e *json.UnmarshalTypeError
	if errors.As(err, &e) {
		return fmt.Errorf("%w: %s must be of type %s, got %s",
			errs.ErrInvalidRequest, e.Field, e.Type, e.Value)
	}
	var me *http.MaxBytesError
	if errors.As(err, &me) {
		return fmt.Errorf("%w: limit is %d bytes", errs.ErrBodyTooLarge, me.Limit)
	}
	var se *json.SyntaxError
	if errors.As(err, &se) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: malformed JSON", errs.ErrInvalidRequest)
	}
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty body", errs.ErrInvalidRequest)
	}

	return err
}

// statusCode maps sentinel errors onto HTTP status codes.
func statusCode(err error) int {
	switch {
	// Status Bad Request (400).
	case errors.Is(err, errs.ErrInvalidRequest),
		errors.Is(err, errs.ErrUnknownStatus),
		errors.Is(err, errs.ErrUnknownDepartment),
		errors.Is(err, errs.ErrUnknownReviewAction),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrAlreadyProcessed):
		return http.StatusBadRequest

	// Status Unauthorized (401).
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Status Forbidden (403).
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden

	// Status Not Found (404).
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound

	// Status Conflict (409).
	case errors.Is(err, errs.ErrDataConflict):
		return http.StatusConflict

	// Status Request Entity Too Large (413).
	case errors.Is(err, errs.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge

	// Status Too Many Requests (429).
	case errors.Is(err, errs.ErrRateLimit):
		return http.StatusTooManyRequests
	}

	return http.StatusInternalServerError
}

// writeError sends err in the JSON format with the matching status code.
func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err = json.NewEncoder(w).Encode(errs.JSON{Error: err.Error()}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// orderIDParam reads the {orderID} URL parameter.
func orderIDParam(r *http.Request) (entities.OrderID, error) {
	raw := chi.URLParam(r, "orderID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid order id %q", errs.ErrInvalidRequest, raw)
	}
	return entities.OrderID(id), nil
}
