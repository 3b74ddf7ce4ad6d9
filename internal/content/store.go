// internal/content/store.go
//
// Store contract for the external content-translation store.

package content

import (
	"context"
	"errors"

	"github.com/yanizio/mise/internal/locale"
)

var (
	// ErrNotFound is returned by lookups that match no row.  For
	// translations this is the normal "not translated yet" case.
	ErrNotFound = errors.New("content: not found")

	// ErrDuplicateHandle signals a (locale, handle) unique violation.
	ErrDuplicateHandle = errors.New("content: handle already used in locale")

	// ErrDuplicateTranslation signals a (content_id, locale) unique
	// violation, i.e. a concurrent creator got there first.
	ErrDuplicateTranslation = errors.New("content: translation already exists")

	// ErrStoreUnavailable wraps transport and driver failures.  Creation
	// paths propagate it; read paths degrade to fallback behaviour.
	ErrStoreUnavailable = errors.New("content: store unavailable")
)

// Store is the narrow interface this subsystem needs.  Every method must
// enforce the uniqueness rules described in model.go, and every method is a
// suspension point that should honour ctx.
type Store interface {
	CanonicalContent(ctx context.Context, id int64) (*CanonicalContent, error)
	CanonicalContentByDefaultHandle(ctx context.Context, handle string) (*CanonicalContent, error)
	Translation(ctx context.Context, contentID int64, l locale.Locale) (*Translation, error)
	TranslationByHandle(ctx context.Context, handle string, l locale.Locale) (*Translation, error)

	// InsertTranslation stores rec and returns it with ID and timestamps
	// filled.  rec.ID is ignored.
	InsertTranslation(ctx context.Context, rec Translation) (*Translation, error)

	// UpdateTranslation rewrites handle, title, and description of the row
	// identified by (rec.ContentID, rec.Locale).
	UpdateTranslation(ctx context.Context, rec Translation) (*Translation, error)
}

// IsMiss reports whether err is a plain "no such row" result.
func IsMiss(err error) bool { return errors.Is(err, ErrNotFound) }
