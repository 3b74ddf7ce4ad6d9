// internal/handle/unique.go
//
// Per-locale handle uniqueness and the translation lifecycle built on it.
//
// Context
// -------
// Handles share one slug space per locale: every translation row in that
// locale and, for the default locale, every canonical default handle.
// EnsureUnique probes that space with base, base-1, base-2, … and gives up at
// a fixed ceiling instead of handing back a duplicate.
//
// Workflow (GetOrCreateTranslation)
// ---------------------------------
//  1. Existing (content, locale) row → return it.
//  2. Base handle from the title, or the canonical default handle when the
//     title is blank.
//  3. EnsureUnique → Insert.
//  4. ErrDuplicateHandle from the store (someone took the handle between
//     3's check and insert) → back to 3, bounded by insertRetries.
//  5. ErrDuplicateTranslation (a concurrent creator won) → re-read and
//     return the winner's row.
//
// Notes
// -----
// • The store's (locale, handle) unique key is the final arbiter; the probe
//   only keeps the common case to one insert.
// • Store failures come back wrapped in content.ErrStoreUnavailable.
package handle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/mise/internal/content"
	"github.com/yanizio/mise/internal/locale"
	"github.com/yanizio/mise/internal/metrics"
)

// Defaults used when Options leaves a field at zero.
const (
	DefaultMaxAttempts   = 100
	DefaultInsertRetries = 5
)

// ErrHandleCollisionExhausted is returned once every candidate up to the
// attempt ceiling is taken.
var ErrHandleCollisionExhausted = errors.New("handle: collision attempts exhausted")

// CollisionError carries the failing base handle.  It unwraps to
// ErrHandleCollisionExhausted.
type CollisionError struct {
	Base     string
	Locale   locale.Locale
	Attempts int
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("handle: %q in %s still taken after %d attempts", e.Base, e.Locale, e.Attempts)
}

func (e *CollisionError) Unwrap() error { return ErrHandleCollisionExhausted }

// Options tunes the Generator.
type Options struct {
	MaxAttempts   int // candidates probed per EnsureUnique call
	InsertRetries int // extra write attempts after a unique violation
}

// Generator owns handle assignment for translation rows.
type Generator struct {
	store         content.Store
	table         *locale.Table
	maxAttempts   int
	insertRetries int
}

// NewGenerator wires a Generator to a store and locale table.
func NewGenerator(store content.Store, table *locale.Table, opts Options) *Generator {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.InsertRetries < 0 {
		opts.InsertRetries = 0
	} else if opts.InsertRetries == 0 {
		opts.InsertRetries = DefaultInsertRetries
	}
	return &Generator{
		store:         store,
		table:         table,
		maxAttempts:   opts.MaxAttempts,
		insertRetries: opts.InsertRetries,
	}
}

/*──────────────────────────── uniqueness ───────────────────────────────────*/

// EnsureUnique returns the first free candidate for base in locale l.
// Handles owned by excludeContentID count as free (0 excludes nothing).
func (g *Generator) EnsureUnique(ctx context.Context, base string, l locale.Locale, excludeContentID int64) (string, error) {
	if base == "" {
		base = Fallback
	}
	for i := 0; i < g.maxAttempts; i++ {
		candidate := base
		if i > 0 {
			candidate = base + "-" + strconv.Itoa(i)
		}
		taken, err := g.taken(ctx, candidate, l, excludeContentID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		metrics.HandleCollisionsTotal.Inc()
	}
	return "", &CollisionError{Base: base, Locale: l, Attempts: g.maxAttempts}
}

func (g *Generator) taken(ctx context.Context, candidate string, l locale.Locale, exclude int64) (bool, error) {
	tr, err := g.store.TranslationByHandle(ctx, candidate, l)
	switch {
	case err == nil:
		if exclude == 0 || tr.ContentID != exclude {
			return true, nil
		}
	case !content.IsMiss(err):
		return false, err
	}

	if l != g.table.Default() {
		return false, nil
	}
	c, err := g.store.CanonicalContentByDefaultHandle(ctx, candidate)
	switch {
	case err == nil:
		return exclude == 0 || c.ID != exclude, nil
	case content.IsMiss(err):
		return false, nil
	default:
		return false, err
	}
}

/*──────────────────────────── lifecycle ────────────────────────────────────*/

// GetOrCreateTranslation returns the (contentID, l) translation, creating it
// when absent.  created reports whether this call inserted the row.
func (g *Generator) GetOrCreateTranslation(ctx context.Context, contentID int64, l locale.Locale, title, description string) (tr *content.Translation, created bool, err error) {
	if !g.table.IsSupported(l) {
		return nil, false, fmt.Errorf("%w: %q", locale.ErrUnsupportedLocale, l)
	}

	tr, err = g.store.Translation(ctx, contentID, l)
	if err == nil {
		return tr, false, nil
	}
	if !content.IsMiss(err) {
		return nil, false, err
	}

	canon, err := g.store.CanonicalContent(ctx, contentID)
	if err != nil {
		return nil, false, err
	}
	base := g.base(title, canon)

	for try := 0; ; try++ {
		h, err := g.EnsureUnique(ctx, base, l, contentID)
		if err != nil {
			return nil, false, err
		}

		tr, err = g.store.InsertTranslation(ctx, content.Translation{
			ContentID:   contentID,
			Locale:      l,
			Handle:      h,
			Title:       title,
			Description: description,
		})
		switch {
		case err == nil:
			return tr, true, nil

		case errors.Is(err, content.ErrDuplicateTranslation):
			tr, err = g.store.Translation(ctx, contentID, l)
			if err != nil {
				return nil, false, err
			}
			return tr, false, nil

		case errors.Is(err, content.ErrDuplicateHandle):
			if try >= g.insertRetries {
				return nil, false, &CollisionError{Base: base, Locale: l, Attempts: try + 1}
			}
			metrics.HandleInsertRetriesTotal.Inc()
			zap.L().Warn("handle taken at insert, retrying",
				zap.Int64("content_id", contentID),
				zap.String("locale", l.String()),
				zap.String("handle", h),
				zap.Int("try", try+1))

		default:
			return nil, false, err
		}
	}
}

// Retitle updates an existing translation's text and re-slugs it when the
// title changed.  The row's own handle never counts as a collision.
func (g *Generator) Retitle(ctx context.Context, contentID int64, l locale.Locale, title, description string) (*content.Translation, error) {
	if !g.table.IsSupported(l) {
		return nil, fmt.Errorf("%w: %q", locale.ErrUnsupportedLocale, l)
	}

	cur, err := g.store.Translation(ctx, contentID, l)
	if err != nil {
		return nil, err
	}
	if cur.Title == title {
		cur.Description = description
		return g.store.UpdateTranslation(ctx, *cur)
	}

	canon, err := g.store.CanonicalContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	base := g.base(title, canon)

	for try := 0; ; try++ {
		h, err := g.EnsureUnique(ctx, base, l, contentID)
		if err != nil {
			return nil, err
		}

		rec := *cur
		rec.Handle, rec.Title, rec.Description = h, title, description
		out, err := g.store.UpdateTranslation(ctx, rec)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, content.ErrDuplicateHandle) {
			return nil, err
		}
		if try >= g.insertRetries {
			return nil, &CollisionError{Base: base, Locale: l, Attempts: try + 1}
		}
		metrics.HandleInsertRetriesTotal.Inc()
		zap.L().Warn("handle taken at update, retrying",
			zap.Int64("content_id", contentID),
			zap.String("locale", l.String()),
			zap.String("handle", h))
	}
}

func (g *Generator) base(title string, canon *content.CanonicalContent) string {
	if strings.TrimSpace(title) == "" {
		return canon.DefaultHandle
	}
	return Generate(title)
}
