package handle

import (
	"context"
	"errors"
	"testing"

	"github.com/yanizio/mise/internal/content"
	"github.com/yanizio/mise/internal/locale"
)

func testTable(t *testing.T) *locale.Table {
	t.Helper()
	tb, err := locale.NewTable("en", []locale.Locale{"en", "fr", "de"}, []string{"recipes"}, nil)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tb
}

func seed(t *testing.T) (*content.MemoryStore, *content.CanonicalContent) {
	t.Helper()
	m := content.NewMemoryStore()
	c, err := m.PutCanonical(content.CanonicalContent{DefaultHandle: "creme-brulee", DefaultLocale: "en"})
	if err != nil {
		t.Fatal(err)
	}
	return m, c
}

func TestEnsureUnique_ScenarioE(t *testing.T) {
	m, c := seed(t)
	ctx := context.Background()
	if _, err := m.InsertTranslation(ctx, content.Translation{ContentID: c.ID, Locale: "fr", Handle: "creme-brulee"}); err != nil {
		t.Fatal(err)
	}
	g := NewGenerator(m, testTable(t), Options{})

	got, err := g.EnsureUnique(ctx, Generate("Crème Brûlée!!"), "fr", 0)
	if err != nil {
		t.Fatalf("EnsureUnique: %v", err)
	}
	if got != "creme-brulee-1" {
		t.Fatalf("EnsureUnique = %q, want creme-brulee-1", got)
	}
}

func TestEnsureUnique_DefaultLocaleChecksCanonical(t *testing.T) {
	m, _ := seed(t)
	g := NewGenerator(m, testTable(t), Options{})
	ctx := context.Background()

	got, err := g.EnsureUnique(ctx, "creme-brulee", "en", 0)
	if err != nil || got != "creme-brulee-1" {
		t.Fatalf("en = %q, %v; want creme-brulee-1", got, err)
	}
	// Canonical handles live in the default locale only.
	got, err = g.EnsureUnique(ctx, "creme-brulee", "de", 0)
	if err != nil || got != "creme-brulee" {
		t.Fatalf("de = %q, %v; want creme-brulee", got, err)
	}
}

func TestEnsureUnique_ExcludesOwnContent(t *testing.T) {
	m, c := seed(t)
	ctx := context.Background()
	_, _ = m.InsertTranslation(ctx, content.Translation{ContentID: c.ID, Locale: "fr", Handle: "creme-brulee"})
	g := NewGenerator(m, testTable(t), Options{})

	got, err := g.EnsureUnique(ctx, "creme-brulee", "fr", c.ID)
	if err != nil || got != "creme-brulee" {
		t.Fatalf("EnsureUnique = %q, %v; want own handle back", got, err)
	}
}

func TestEnsureUnique_Exhausted(t *testing.T) {
	m := content.NewMemoryStore()
	ctx := context.Background()
	handles := []string{"soup", "soup-1", "soup-2"}
	for i, h := range handles {
		c, _ := m.PutCanonical(content.CanonicalContent{DefaultHandle: "c" + h, DefaultLocale: "en"})
		if _, err := m.InsertTranslation(ctx, content.Translation{ContentID: c.ID, Locale: "fr", Handle: h}); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	g := NewGenerator(m, testTable(t), Options{MaxAttempts: 3})

	got, err := g.EnsureUnique(ctx, "soup", "fr", 0)
	if !errors.Is(err, ErrHandleCollisionExhausted) {
		t.Fatalf("err = %v (handle %q), want ErrHandleCollisionExhausted", err, got)
	}
	var ce *CollisionError
	if !errors.As(err, &ce) || ce.Attempts != 3 || ce.Base != "soup" {
		t.Fatalf("CollisionError = %+v", ce)
	}
}

func TestEnsureUnique_StoreError(t *testing.T) {
	m, _ := seed(t)
	g := NewGenerator(m, testTable(t), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.EnsureUnique(ctx, "x", "fr", 0); !errors.Is(err, content.ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
}

func TestGetOrCreateTranslation(t *testing.T) {
	m, c := seed(t)
	g := NewGenerator(m, testTable(t), Options{})
	ctx := context.Background()

	tr, created, err := g.GetOrCreateTranslation(ctx, c.ID, "fr", "Crème brûlée", "")
	if err != nil || !created || tr.Handle != "creme-brulee" {
		t.Fatalf("first call = %+v, %v, %v", tr, created, err)
	}

	again, created, err := g.GetOrCreateTranslation(ctx, c.ID, "fr", "Something else", "")
	if err != nil || created || again.ID != tr.ID {
		t.Fatalf("second call = %+v, %v, %v; want existing row", again, created, err)
	}
}

func TestGetOrCreateTranslation_BlankTitleUsesDefaultHandle(t *testing.T) {
	m, c := seed(t)
	g := NewGenerator(m, testTable(t), Options{})

	tr, _, err := g.GetOrCreateTranslation(context.Background(), c.ID, "de", "   ", "")
	if err != nil || tr.Handle != "creme-brulee" {
		t.Fatalf("tr = %+v, %v", tr, err)
	}
}

func TestGetOrCreateTranslation_Errors(t *testing.T) {
	m, c := seed(t)
	g := NewGenerator(m, testTable(t), Options{})
	ctx := context.Background()

	if _, _, err := g.GetOrCreateTranslation(ctx, c.ID, "it", "x", ""); !errors.Is(err, locale.ErrUnsupportedLocale) {
		t.Fatalf("unsupported err = %v", err)
	}
	if _, _, err := g.GetOrCreateTranslation(ctx, 999, "fr", "x", ""); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("unknown content err = %v", err)
	}
}

// racingStore slips a competing row in right before the first insert.
type racingStore struct {
	*content.MemoryStore
	race func()
}

func (s *racingStore) InsertTranslation(ctx context.Context, rec content.Translation) (*content.Translation, error) {
	if s.race != nil {
		s.race()
		s.race = nil
	}
	return s.MemoryStore.InsertTranslation(ctx, rec)
}

func TestGetOrCreateTranslation_RetriesOnDuplicateHandle(t *testing.T) {
	m, c := seed(t)
	other, _ := m.PutCanonical(content.CanonicalContent{DefaultHandle: "other", DefaultLocale: "en"})
	rs := &racingStore{MemoryStore: m, race: func() {
		_, _ = m.InsertTranslation(context.Background(), content.Translation{ContentID: other.ID, Locale: "fr", Handle: "creme-brulee"})
	}}
	g := NewGenerator(rs, testTable(t), Options{})

	tr, created, err := g.GetOrCreateTranslation(context.Background(), c.ID, "fr", "Crème brûlée", "")
	if err != nil || !created {
		t.Fatalf("GetOrCreate = %+v, %v, %v", tr, created, err)
	}
	if tr.Handle != "creme-brulee-1" {
		t.Fatalf("handle = %q, want creme-brulee-1", tr.Handle)
	}
}

func TestGetOrCreateTranslation_ConcurrentCreatorWins(t *testing.T) {
	m, c := seed(t)
	var winner *content.Translation
	rs := &racingStore{MemoryStore: m, race: func() {
		winner, _ = m.InsertTranslation(context.Background(), content.Translation{ContentID: c.ID, Locale: "fr", Handle: "creme-brulee-fr"})
	}}
	g := NewGenerator(rs, testTable(t), Options{})

	tr, created, err := g.GetOrCreateTranslation(context.Background(), c.ID, "fr", "Crème brûlée", "")
	if err != nil || created {
		t.Fatalf("GetOrCreate = %+v, %v, %v", tr, created, err)
	}
	if tr.ID != winner.ID {
		t.Fatalf("got row %d, want winner %d", tr.ID, winner.ID)
	}
}

func TestRetitle(t *testing.T) {
	m, c := seed(t)
	g := NewGenerator(m, testTable(t), Options{})
	ctx := context.Background()
	_, _, _ = g.GetOrCreateTranslation(ctx, c.ID, "fr", "Crème brûlée", "")

	tr, err := g.Retitle(ctx, c.ID, "fr", "Crème brûlée", "nouvelle description")
	if err != nil || tr.Handle != "creme-brulee" || tr.Description != "nouvelle description" {
		t.Fatalf("same-title retitle = %+v, %v", tr, err)
	}

	tr, err = g.Retitle(ctx, c.ID, "fr", "Crème catalane", "")
	if err != nil || tr.Handle != "creme-catalane" {
		t.Fatalf("retitle = %+v, %v", tr, err)
	}
	if _, err := m.TranslationByHandle(ctx, "creme-brulee", "fr"); !content.IsMiss(err) {
		t.Fatalf("old handle still present: %v", err)
	}

	if _, err := g.Retitle(ctx, c.ID, "de", "x", ""); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("retitle missing row err = %v", err)
	}
}
