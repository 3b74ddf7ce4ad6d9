// internal/middleware/accesslog.go
//
// One INFO line per request through the global zap logger.  Fields come
// from the response writer wrapper (status, bytes), the locale the router
// settled on, and requestinfo.
//
// Notes
// -----
// • Mount it inside requestinfo.Enrich and the locale router, since it reads
//   their context values.  Router redirects never reach it; the router logs
//   those itself.

package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/mise/internal/locale"
	"github.com/yanizio/mise/internal/requestinfo"
)

// AccessLog logs method, path, status, size, and latency.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("took", time.Since(start)),
		}
		if info := requestinfo.FromContext(r.Context()); info != nil {
			fields = append(fields,
				zap.Bool("bot", info.UA.IsBot),
				zap.String("device", info.UA.Device),
				zap.String("country", info.Geo.CountryISO))
		}
		if l, ok := locale.FromContext(r.Context()); ok {
			fields = append(fields, zap.String("locale", l.String()))
		}
		zap.L().Info("http request", fields...)
	})
}
