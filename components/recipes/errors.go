// components/recipes/errors.go
//
// Error → HTTP status mapping for every recipes endpoint.
//
//	handle.ErrHandleCollisionExhausted → 409
//	content.ErrStoreUnavailable        → 503
//	content.ErrNotFound                → 404
//	locale.ErrUnsupportedLocale        → 404
//	errBadRequest                      → 400
//	anything else                      → 500

package recipes

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/mise/internal/content"
	"github.com/yanizio/mise/internal/handle"
	"github.com/yanizio/mise/internal/locale"
)

var errBadRequest = errors.New("recipes: bad request")

type errorBody struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, handle.ErrHandleCollisionExhausted):
		return http.StatusConflict
	case errors.Is(err, content.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, content.ErrNotFound), errors.Is(err, locale.ErrUnsupportedLocale):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		zap.L().Warn("recipes request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	msg := http.StatusText(status)
	if status == http.StatusConflict || status == http.StatusBadRequest {
		msg = err.Error()
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("response encode failed", zap.Error(err))
	}
}
