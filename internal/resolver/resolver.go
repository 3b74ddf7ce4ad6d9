// internal/resolver/resolver.go
//
// Cross-locale handle resolution.
//
// Context
// -------
// A visitor on /fr/recettes/tarte-citron hits "English".  We need the English
// handle for the same recipe without knowing its content ID, and navigation
// must never fail because a translation is missing or the store is slow.
//
// Branches
// --------
//
//	source == target                 → current
//	target default, source not       → translation(source, current) → canonical.default_handle
//	source default, target not       → canonical(current) → translation(target).handle
//	neither default                  → translation(source, current) → translation(target).handle
//
// Any miss, store error, or context deadline along the way returns current.
//
// Notes
// -----
// • At most two sequential store round trips; the second depends on the
//   first and cannot run in parallel.
// • Creates nothing.  Callers that want a row use handle.Generator.
package resolver

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/yanizio/mise/internal/content"
	"github.com/yanizio/mise/internal/locale"
	"github.com/yanizio/mise/internal/metrics"
)

// Fallback reasons recorded on mise_resolver_fallback_total.
const (
	ReasonNotFound    = "not_found"
	ReasonStoreError  = "store_error"
	ReasonTimeout     = "timeout"
	ReasonUnsupported = "unsupported"
)

// Resolver maps a handle between locales.  Safe for concurrent use.
type Resolver struct {
	store content.Store
	table *locale.Table
}

// New returns a Resolver reading from store.
func New(store content.Store, table *locale.Table) *Resolver {
	return &Resolver{store: store, table: table}
}

// Resolve returns the handle for the same content item in target, or current
// when no better answer is available.  It never fails.
func (r *Resolver) Resolve(ctx context.Context, current string, source, target locale.Locale) string {
	if source == target {
		return current
	}
	if !r.table.IsSupported(source) || !r.table.IsSupported(target) {
		r.fallback(ReasonUnsupported, current, source, target, nil)
		return current
	}

	def := r.table.Default()
	switch {
	case target == def:
		tr, err := r.store.TranslationByHandle(ctx, current, source)
		if err != nil {
			return r.degrade(ctx, err, current, source, target)
		}
		c, err := r.store.CanonicalContent(ctx, tr.ContentID)
		if err != nil {
			return r.degrade(ctx, err, current, source, target)
		}
		return c.DefaultHandle

	case source == def:
		c, err := r.store.CanonicalContentByDefaultHandle(ctx, current)
		if err != nil {
			return r.degrade(ctx, err, current, source, target)
		}
		return r.translated(ctx, c.ID, current, source, target)

	default:
		tr, err := r.store.TranslationByHandle(ctx, current, source)
		if err != nil {
			return r.degrade(ctx, err, current, source, target)
		}
		return r.translated(ctx, tr.ContentID, current, source, target)
	}
}

func (r *Resolver) translated(ctx context.Context, contentID int64, current string, source, target locale.Locale) string {
	tr, err := r.store.Translation(ctx, contentID, target)
	if err != nil {
		return r.degrade(ctx, err, current, source, target)
	}
	return tr.Handle
}

func (r *Resolver) degrade(ctx context.Context, err error, current string, source, target locale.Locale) string {
	switch {
	case content.IsMiss(err):
		r.fallback(ReasonNotFound, current, source, target, nil)
	case ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		r.fallback(ReasonTimeout, current, source, target, err)
	default:
		r.fallback(ReasonStoreError, current, source, target, err)
	}
	return current
}

func (r *Resolver) fallback(reason, current string, source, target locale.Locale, err error) {
	metrics.ResolverFallbackTotal.WithLabelValues(reason).Inc()
	if err == nil {
		zap.L().Debug("resolver fallback",
			zap.String("reason", reason),
			zap.String("handle", current),
			zap.String("source", source.String()),
			zap.String("target", target.String()))
		return
	}
	zap.L().Warn("resolver fallback",
		zap.String("reason", reason),
		zap.String("handle", current),
		zap.String("source", source.String()),
		zap.String("target", target.String()),
		zap.Error(err))
}
