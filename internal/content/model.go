// internal/content/model.go
//
// Content records consumed by the handle generator, resolver, and URL
// builder.
//
// Context
// -------
// CanonicalContent is created once by the authoring workflow (outside this
// module) and carries the handle used in the default locale.  Translation
// rows are owned here: created lazily or by an editor, re-slugged when the
// title changes, never auto-deleted.
//
// Uniqueness
// ----------
//   - (content_id, locale)  – one translation per item and locale.
//   - (locale, handle)      – one global slug space per locale.
//
// Schema reference (2026-10-01)
//
//	CREATE TABLE canonical_content (
//	    id              BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    default_handle  VARCHAR(191) NOT NULL UNIQUE,
//	    default_locale  VARCHAR(16)  NOT NULL,
//	    created_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
//	CREATE TABLE content_translation (
//	    id           BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    content_id   BIGINT UNSIGNED NOT NULL,
//	    locale       VARCHAR(16)  NOT NULL,
//	    handle       VARCHAR(191) NOT NULL,
//	    title        VARCHAR(255) NOT NULL DEFAULT '',
//	    description  TEXT         NOT NULL,
//	    created_at   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    UNIQUE KEY uq_translation_content_locale (content_id, locale),
//	    UNIQUE KEY uq_translation_locale_handle  (locale, handle)
//	);
//
// Notes
// -----
// • These structs contain no behaviour; pure data for sqlx scans.
package content

import (
	"time"

	"github.com/yanizio/mise/internal/locale"
)

// CanonicalContent mirrors one row in `canonical_content`.
type CanonicalContent struct {
	ID            int64         `db:"id"             json:"id"`
	DefaultHandle string        `db:"default_handle" json:"default_handle"`
	DefaultLocale locale.Locale `db:"default_locale" json:"default_locale"`
	CreatedAt     time.Time     `db:"created_at"     json:"created_at"`
}

// Translation mirrors one row in `content_translation`.
type Translation struct {
	ID          int64         `db:"id"          json:"id"`
	ContentID   int64         `db:"content_id"  json:"content_id"`
	Locale      locale.Locale `db:"locale"      json:"locale"`
	Handle      string        `db:"handle"      json:"handle"`
	Title       string        `db:"title"       json:"title"`
	Description string        `db:"description" json:"description"`
	CreatedAt   time.Time     `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"  json:"updated_at"`
}
