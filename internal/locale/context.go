// internal/locale/context.go
//
// Request-scoped locale.  The routing middleware stores the resolved locale
// once; handlers and link builders read it back instead of re-parsing the
// path prefix themselves.

package locale

import "context"

type ctxKey struct{}

// WithLocale returns a derived context that carries l.
func WithLocale(ctx context.Context, l Locale) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the locale stored by WithLocale.  ok is false when the
// middleware has not run for this request.
func FromContext(ctx context.Context) (l Locale, ok bool) {
	l, ok = ctx.Value(ctxKey{}).(Locale)
	return l, ok && l != ""
}
