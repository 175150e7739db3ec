package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/sprayshop/pkg/admin"
	"github.com/dmitrymomot/sprayshop/pkg/cart"
	"github.com/dmitrymomot/sprayshop/pkg/catalog"
	"github.com/dmitrymomot/sprayshop/pkg/identity"
	"github.com/dmitrymomot/sprayshop/pkg/logger"
)

const maxBodySize = 1 << 20

var (
	ErrInvalidRequest  = errors.New("web.invalid_request")
	ErrUnauthenticated = errors.New("web.unauthenticated")
	ErrItemNotFound    = errors.New("web.item_not_found")
	ErrInternal        = errors.New("web.internal_error")
	ErrSessionNotReady = errors.New("web.session_not_initialized")
)

// Response is the envelope of every JSON body.
type Response struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorMapping struct {
	err     error
	status  int
	message string
}

// Identity errors carry their own user messages; see identity.Message.
var errorMappings = []errorMapping{
	{identity.ErrEmailInUse, http.StatusConflict, ""},
	{identity.ErrInvalidEmail, http.StatusBadRequest, ""},
	{identity.ErrWeakPassword, http.StatusBadRequest, ""},
	{identity.ErrOperationNotAllowed, http.StatusForbidden, ""},
	{identity.ErrUserDisabled, http.StatusForbidden, ""},
	{identity.ErrUserNotFound, http.StatusUnauthorized, ""},
	{identity.ErrWrongPassword, http.StatusUnauthorized, ""},
	{identity.ErrInvalidCredential, http.StatusUnauthorized, ""},
	{identity.ErrTooManyRequests, http.StatusTooManyRequests, ""},
	{identity.ErrNetwork, http.StatusBadGateway, ""},
	{identity.ErrOAuthCancelled, http.StatusBadRequest, ""},
	{identity.ErrInvalidState, http.StatusBadRequest, ""},
	{admin.ErrUnauthenticated, http.StatusUnauthorized, "Sign in to continue"},
	{admin.ErrForbidden, http.StatusForbidden, "Administrator access required"},
	{admin.ErrInvalidRole, http.StatusUnprocessableEntity, "Unknown role"},
	{admin.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{catalog.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{catalog.ErrProductExists, http.StatusConflict, "A product with this id already exists"},
	{catalog.ErrInvalidProduct, http.StatusUnprocessableEntity, "The product is missing required fields"},
	{cart.ErrNoUser, http.StatusUnauthorized, "Sign in to use the cart"},
	{cart.ErrInvalidQuantity, http.StatusUnprocessableEntity, "Invalid quantity"},
	{ErrUnauthenticated, http.StatusUnauthorized, "Sign in to continue"},
	{ErrInvalidRequest, http.StatusBadRequest, "Malformed request"},
	{ErrItemNotFound, http.StatusNotFound, "The product is not in the cart"},
}

// errorCode strips the package prefix from a sentinel error message.
func errorCode(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '.'); i >= 0 {
		return msg[i+1:]
	}
	return msg
}

func writeJSON(w http.ResponseWriter, status int, v Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) respond(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Data: data})
}

// fail renders err as a JSON error. Unknown errors are logged and reported
// as internal errors without details.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = identity.Message(err)
		}
		writeJSON(w, m.status, Response{Error: &ErrorDetail{Code: errorCode(m.err), Message: msg}})
		return
	}

	s.logger.ErrorContext(r.Context(), "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, Response{Error: &ErrorDetail{
		Code:    errorCode(ErrInternal),
		Message: identity.DefaultMessage,
	}})
}

// decode reads a JSON request body into v.
func decode(r *http.Request, w http.ResponseWriter, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(ErrInvalidRequest, err)
	}
	return nil
}
