package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/niksmo/choco-shop/internal/core/domain"
)

const maxBodySize = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

var errStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrOutOfStock, http.StatusConflict},
	{domain.ErrInvalidTransition, http.StatusConflict},
	{domain.ErrCartEmpty, http.StatusUnprocessableEntity},
	{domain.ErrDiscountRejected, http.StatusUnprocessableEntity},
}

// errorStatus maps the error to the status code and the message
// safe to show to the client.
func errorStatus(err error) (int, string) {
	var (
		vErr domain.ValidationError
		sErr domain.StockError
		dErr domain.DiscountRejectedError
	)
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Error()
	case errors.As(err, &sErr):
		return http.StatusConflict, sErr.Error()
	case errors.As(err, &dErr):
		return http.StatusUnprocessableEntity, dErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "service unavailable"
	}

	for _, es := range errStatuses {
		if errors.Is(err, es.err) {
			return es.status, es.err.Error()
		}
	}
	return http.StatusInternalServerError, "internal error"
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "err", err)
	} else {
		log.Warn("request rejected", "status", status, "err", err)
	}
	writeJSON(w, log, status, errorResponse{msg})
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

// decodeJSON reads the request body into v and answers 400 on failure.
func decodeJSON(
	w http.ResponseWriter, r *http.Request, log *slog.Logger, v any,
) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		msg := "invalid JSON data"
		if errors.Is(err, io.EOF) {
			msg = "empty body"
		}
		log.Warn("failed to parse JSON", "err", err)
		writeJSON(w, log, http.StatusBadRequest, errorResponse{msg})
		return false
	}
	return true
}
