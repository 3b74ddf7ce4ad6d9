// internal/content/sqlstore/store.go
//
// MySQL implementation of content.Store.
//
// Context
// -------
// Tables are described in internal/content/model.go.  Queries are plain
// parameterised SQL run through sqlx; the two unique keys on
// content_translation are the only concurrency control we rely on.
//
// Error mapping
// -------------
//   - sql.ErrNoRows                          → content.ErrNotFound
//   - 1062 on uq_translation_locale_handle   → content.ErrDuplicateHandle
//   - 1062 on uq_translation_content_locale  → content.ErrDuplicateTranslation
//   - anything else                          → wrapped content.ErrStoreUnavailable
//
// Notes
// -----
// • The DSN must carry parseTime=true so TIMESTAMP columns scan into time.Time.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/mise/internal/content"
	"github.com/yanizio/mise/internal/locale"
)

const (
	keyLocaleHandle  = "uq_translation_locale_handle"
	keyContentLocale = "uq_translation_content_locale"
	mysqlDupEntry    = 1062
)

const (
	canonicalCols   = `id, default_handle, default_locale, created_at`
	translationCols = `id, content_id, locale, handle, title, description, created_at, updated_at`
)

// Store talks to one MySQL schema.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ content.Store = (*Store)(nil)

// New wraps an open pool.  The caller keeps ownership of db.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) CanonicalContent(ctx context.Context, id int64) (*content.CanonicalContent, error) {
	const q = `SELECT ` + canonicalCols + `
                 FROM canonical_content
                WHERE id = ?`
	var c content.CanonicalContent
	if err := s.db.GetContext(ctx, &c, q, id); err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

func (s *Store) CanonicalContentByDefaultHandle(ctx context.Context, handle string) (*content.CanonicalContent, error) {
	const q = `SELECT ` + canonicalCols + `
                 FROM canonical_content
                WHERE default_handle = ?`
	var c content.CanonicalContent
	if err := s.db.GetContext(ctx, &c, q, handle); err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

func (s *Store) Translation(ctx context.Context, contentID int64, l locale.Locale) (*content.Translation, error) {
	const q = `SELECT ` + translationCols + `
                 FROM content_translation
                WHERE content_id = ? AND locale = ?`
	var tr content.Translation
	if err := s.db.GetContext(ctx, &tr, q, contentID, string(l)); err != nil {
		return nil, classify(err)
	}
	return &tr, nil
}

func (s *Store) TranslationByHandle(ctx context.Context, handle string, l locale.Locale) (*content.Translation, error) {
	const q = `SELECT ` + translationCols + `
                 FROM content_translation
                WHERE locale = ? AND handle = ?`
	var tr content.Translation
	if err := s.db.GetContext(ctx, &tr, q, string(l), handle); err != nil {
		return nil, classify(err)
	}
	return &tr, nil
}

// InsertTranslation relies on the unique keys to reject races; the caller
// decides whether to retry.
func (s *Store) InsertTranslation(ctx context.Context, rec content.Translation) (*content.Translation, error) {
	const q = `INSERT INTO content_translation
                      (content_id, locale, handle, title, description, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?)`

	now := s.now()
	res, err := s.db.ExecContext(ctx, q,
		rec.ContentID, string(rec.Locale), rec.Handle, rec.Title, rec.Description, now, now)
	if err != nil {
		return nil, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, classify(err)
	}
	rec.ID = id
	rec.CreatedAt, rec.UpdatedAt = now, now
	return &rec, nil
}

// UpdateTranslation writes then re-reads the row so callers always see the
// stored state.  A missing row surfaces as ErrNotFound from the re-read.
func (s *Store) UpdateTranslation(ctx context.Context, rec content.Translation) (*content.Translation, error) {
	const q = `UPDATE content_translation
                  SET handle = ?, title = ?, description = ?, updated_at = ?
                WHERE content_id = ? AND locale = ?`

	if _, err := s.db.ExecContext(ctx, q,
		rec.Handle, rec.Title, rec.Description, s.now(), rec.ContentID, string(rec.Locale)); err != nil {
		return nil, classify(err)
	}
	return s.Translation(ctx, rec.ContentID, rec.Locale)
}

// classify maps driver errors onto the content sentinels.
func classify(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return content.ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDupEntry {
		switch {
		case strings.Contains(me.Message, keyLocaleHandle):
			return fmt.Errorf("%w: %s", content.ErrDuplicateHandle, me.Message)
		case strings.Contains(me.Message, keyContentLocale):
			return fmt.Errorf("%w: %s", content.ErrDuplicateTranslation, me.Message)
		}
	}
	return fmt.Errorf("%w: %v", content.ErrStoreUnavailable, err)
}
