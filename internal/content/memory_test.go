package content

import (
	"context"
	"errors"
	"testing"
)

func seeded(t *testing.T) (*MemoryStore, *CanonicalContent) {
	t.Helper()
	m := NewMemoryStore()
	c, err := m.PutCanonical(CanonicalContent{DefaultHandle: "chocolate-cake", DefaultLocale: "en"})
	if err != nil {
		t.Fatalf("PutCanonical: %v", err)
	}
	return m, c
}

func TestMemoryStore_CanonicalLookups(t *testing.T) {
	m, c := seeded(t)
	ctx := context.Background()

	if c.ID != 1 {
		t.Fatalf("assigned ID = %d, want 1", c.ID)
	}
	got, err := m.CanonicalContentByDefaultHandle(ctx, "chocolate-cake")
	if err != nil || got.ID != c.ID {
		t.Fatalf("by handle = %+v, %v", got, err)
	}
	if _, err := m.CanonicalContent(ctx, 99); !IsMiss(err) {
		t.Fatalf("missing id err = %v, want ErrNotFound", err)
	}
	if _, err := m.PutCanonical(CanonicalContent{DefaultHandle: "chocolate-cake"}); !errors.Is(err, ErrDuplicateHandle) {
		t.Fatalf("duplicate default handle err = %v", err)
	}
}

func TestMemoryStore_InsertUniqueness(t *testing.T) {
	m, c := seeded(t)
	ctx := context.Background()

	tr, err := m.InsertTranslation(ctx, Translation{ContentID: c.ID, Locale: "fr", Handle: "gateau-au-chocolat"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if tr.ID == 0 || tr.CreatedAt.IsZero() {
		t.Fatalf("insert did not fill ID/timestamps: %+v", tr)
	}

	_, err = m.InsertTranslation(ctx, Translation{ContentID: c.ID, Locale: "fr", Handle: "other"})
	if !errors.Is(err, ErrDuplicateTranslation) {
		t.Fatalf("second fr translation err = %v, want ErrDuplicateTranslation", err)
	}

	other, _ := m.PutCanonical(CanonicalContent{DefaultHandle: "apple-pie", DefaultLocale: "en"})
	_, err = m.InsertTranslation(ctx, Translation{ContentID: other.ID, Locale: "fr", Handle: "gateau-au-chocolat"})
	if !errors.Is(err, ErrDuplicateHandle) {
		t.Fatalf("handle reuse err = %v, want ErrDuplicateHandle", err)
	}

	// Same handle in another locale is fine.
	if _, err := m.InsertTranslation(ctx, Translation{ContentID: other.ID, Locale: "de", Handle: "gateau-au-chocolat"}); err != nil {
		t.Fatalf("cross-locale handle reuse: %v", err)
	}
}

func TestMemoryStore_LookupByHandle(t *testing.T) {
	m, c := seeded(t)
	ctx := context.Background()
	_, _ = m.InsertTranslation(ctx, Translation{ContentID: c.ID, Locale: "de", Handle: "schokoladenkuchen"})

	tr, err := m.TranslationByHandle(ctx, "schokoladenkuchen", "de")
	if err != nil || tr.ContentID != c.ID {
		t.Fatalf("by handle = %+v, %v", tr, err)
	}
	if _, err := m.TranslationByHandle(ctx, "schokoladenkuchen", "fr"); !IsMiss(err) {
		t.Fatalf("wrong locale err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Update(t *testing.T) {
	m, c := seeded(t)
	ctx := context.Background()
	_, _ = m.InsertTranslation(ctx, Translation{ContentID: c.ID, Locale: "fr", Handle: "gateau"})

	up, err := m.UpdateTranslation(ctx, Translation{ContentID: c.ID, Locale: "fr", Handle: "gateau-noir", Title: "Gâteau noir"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.Handle != "gateau-noir" || up.Title != "Gâteau noir" {
		t.Fatalf("update result = %+v", up)
	}
	if _, err := m.TranslationByHandle(ctx, "gateau", "fr"); !IsMiss(err) {
		t.Fatalf("old handle still resolves: %v", err)
	}
	if _, err := m.UpdateTranslation(ctx, Translation{ContentID: c.ID, Locale: "es", Handle: "x"}); !IsMiss(err) {
		t.Fatalf("update missing row err = %v", err)
	}

	other, _ := m.PutCanonical(CanonicalContent{DefaultHandle: "apple-pie", DefaultLocale: "en"})
	_, _ = m.InsertTranslation(ctx, Translation{ContentID: other.ID, Locale: "fr", Handle: "tarte"})
	if _, err := m.UpdateTranslation(ctx, Translation{ContentID: other.ID, Locale: "fr", Handle: "gateau-noir"}); !errors.Is(err, ErrDuplicateHandle) {
		t.Fatalf("update onto taken handle err = %v", err)
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	m, c := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Translation(ctx, c.ID, "fr"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("cancelled ctx err = %v, want ErrStoreUnavailable", err)
	}
}
