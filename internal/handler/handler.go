package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"restaurant-admin/internal/i18n"
	"restaurant-admin/internal/middleware"
	"restaurant-admin/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// statusFor maps an error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON, model.ErrCodeMissingField, model.ErrCodeInvalidParameter, model.ErrCodeUnknownField, model.ErrCodeInvalidMode:
		return http.StatusBadRequest
	case model.ErrCodeNotFound, model.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case model.ErrCodeInvalidTransition, model.ErrCodeOperationInFlight:
		return http.StatusConflict
	case model.ErrCodeOperationFailed:
		return http.StatusBadGateway
	case model.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case model.ErrCodeSessionLimitReached:
		return http.StatusServiceUnavailable
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// errorWriter renders errors as localized model.ErrorResponse bodies.
type errorWriter struct {
	translator *i18n.Translator
	logger     zerolog.Logger
}

// write renders err. Domain errors keep their code and fields; anything else
// is reported as an internal error without detail. state, when not nil, is
// returned with the error so clients see the session after the failure.
func (e errorWriter) write(w http.ResponseWriter, r *http.Request, err error, state *model.SessionState) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		e.logger.Error().
			Err(err).
			Str("path", r.URL.Path).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Msg("handler error")
		e.writeCode(w, r, model.ErrCodeInternalError, "error.internal")
		return
	}

	status := statusFor(de.Code)
	event := e.logger.Debug()
	if status >= http.StatusInternalServerError {
		event = e.logger.Error()
	}
	event.Err(err).
		Str("code", de.Code).
		Int("status", status).
		Str("path", r.URL.Path).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Msg("handler error")

	tag := e.translator.Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	resp := model.ErrorResponse{
		Error:         de.Code,
		Message:       e.translator.Text(tag, de.Key),
		Detail:        de.Message,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
		State:         state,
	}
	for _, f := range de.Fields {
		f.Message = e.translator.Text(tag, f.Key)
		resp.Fields = append(resp.Fields, f)
	}
	writeJSON(w, status, resp)
}

// writeCode renders a transport-level error that has no domain error behind it.
func (e errorWriter) writeCode(w http.ResponseWriter, r *http.Request, code, key string) {
	tag := e.translator.Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	writeJSON(w, statusFor(code), model.ErrorResponse{
		Error:         code,
		Message:       e.translator.Text(tag, key),
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}
