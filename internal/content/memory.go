// internal/content/memory.go
//
// In-process Store used by tests and by cmd/web when no database DSN is
// configured.  It enforces the same unique keys as the MySQL schema.

package content

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yanizio/mise/internal/locale"
)

type translationKey struct {
	contentID int64
	locale    locale.Locale
}

type handleKey struct {
	locale locale.Locale
	handle string
}

// MemoryStore is safe for concurrent use.  Zero value is unusable;
// construct with NewMemoryStore.
type MemoryStore struct {
	mu sync.RWMutex

	nextCanonical   int64
	nextTranslation int64

	canonical       map[int64]CanonicalContent
	canonicalByName map[string]int64
	translations    map[translationKey]Translation
	byHandle        map[handleKey]translationKey

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		canonical:       make(map[int64]CanonicalContent),
		canonicalByName: make(map[string]int64),
		translations:    make(map[translationKey]Translation),
		byHandle:        make(map[handleKey]translationKey),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// PutCanonical seeds a canonical record.  A zero ID is assigned the next
// free one.  The authoring workflow owns these rows, so this exists for
// fixtures and local development only.
func (m *MemoryStore) PutCanonical(c CanonicalContent) (*CanonicalContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, taken := m.canonicalByName[c.DefaultHandle]; taken && id != c.ID {
		return nil, fmt.Errorf("%w: default handle %q", ErrDuplicateHandle, c.DefaultHandle)
	}
	if c.ID == 0 {
		m.nextCanonical++
		c.ID = m.nextCanonical
	} else if c.ID > m.nextCanonical {
		m.nextCanonical = c.ID
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = m.now()
	}
	if old, ok := m.canonical[c.ID]; ok {
		delete(m.canonicalByName, old.DefaultHandle)
	}
	m.canonical[c.ID] = c
	m.canonicalByName[c.DefaultHandle] = c.ID
	return &c, nil
}

func (m *MemoryStore) CanonicalContent(ctx context.Context, id int64) (*CanonicalContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.canonical[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStore) CanonicalContentByDefaultHandle(ctx context.Context, handle string) (*CanonicalContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.canonicalByName[handle]
	if !ok {
		return nil, ErrNotFound
	}
	c := m.canonical[id]
	return &c, nil
}

func (m *MemoryStore) Translation(ctx context.Context, contentID int64, l locale.Locale) (*Translation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	tr, ok := m.translations[translationKey{contentID, l}]
	if !ok {
		return nil, ErrNotFound
	}
	return &tr, nil
}

func (m *MemoryStore) TranslationByHandle(ctx context.Context, handle string, l locale.Locale) (*Translation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	key, ok := m.byHandle[handleKey{l, handle}]
	if !ok {
		return nil, ErrNotFound
	}
	tr := m.translations[key]
	return &tr, nil
}

func (m *MemoryStore) InsertTranslation(ctx context.Context, rec Translation) (*Translation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := translationKey{rec.ContentID, rec.Locale}
	if _, exists := m.translations[key]; exists {
		return nil, fmt.Errorf("%w: content %d in %s", ErrDuplicateTranslation, rec.ContentID, rec.Locale)
	}
	hk := handleKey{rec.Locale, rec.Handle}
	if _, taken := m.byHandle[hk]; taken {
		return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateHandle, rec.Handle, rec.Locale)
	}

	m.nextTranslation++
	now := m.now()
	rec.ID = m.nextTranslation
	rec.CreatedAt, rec.UpdatedAt = now, now
	m.translations[key] = rec
	m.byHandle[hk] = key
	return &rec, nil
}

func (m *MemoryStore) UpdateTranslation(ctx context.Context, rec Translation) (*Translation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := translationKey{rec.ContentID, rec.Locale}
	old, ok := m.translations[key]
	if !ok {
		return nil, ErrNotFound
	}
	hk := handleKey{rec.Locale, rec.Handle}
	if owner, taken := m.byHandle[hk]; taken && owner != key {
		return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateHandle, rec.Handle, rec.Locale)
	}

	delete(m.byHandle, handleKey{old.Locale, old.Handle})
	old.Handle = rec.Handle
	old.Title = rec.Title
	old.Description = rec.Description
	old.UpdatedAt = m.now()
	m.translations[key] = old
	m.byHandle[hk] = key
	return &old, nil
}
