// internal/locale/table_test.go
//
// Unit-tests for Table construction, the Path Localizer, and the
// request-scoped context helpers.

package locale

import (
	"context"
	"errors"
	"testing"
)

func fixture(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable("en",
		[]Locale{"en", "fr", "de", "es"},
		[]string{"recipes", "categories", "search", "about"},
		map[Locale]map[string]string{
			"fr": {"recipes": "recettes", "search": "recherche", "about": "a-propos"},
			"de": {"recipes": "rezepte", "categories": "kategorien", "search": "suche", "about": "ueber-uns"},
			"es": {"recipes": "recetas", "categories": "categorias", "search": "buscar"},
		})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func TestNewTable_Rejects(t *testing.T) {
	segs := []string{"recipes", "search"}
	cases := map[string]struct {
		def       Locale
		supported []Locale
		aliases   map[Locale]map[string]string
	}{
		"no locales":        {"en", nil, nil},
		"default missing":   {"it", []Locale{"en", "fr"}, nil},
		"duplicate locale":  {"en", []Locale{"en", "en"}, nil},
		"bad tag":           {"en", []Locale{"en", "not a tag"}, nil},
		"default aliased":   {"en", []Locale{"en"}, map[Locale]map[string]string{"en": {"recipes": "dishes"}}},
		"unknown segment":   {"en", []Locale{"en", "fr"}, map[Locale]map[string]string{"fr": {"menus": "menus"}}},
		"unsupported alias": {"en", []Locale{"en"}, map[Locale]map[string]string{"fr": {"recipes": "recettes"}}},
		"shared alias": {"en", []Locale{"en", "fr"}, map[Locale]map[string]string{
			"fr": {"recipes": "x", "search": "x"},
		}},
		"alias shadows literal segment": {"en", []Locale{"en", "fr"}, map[Locale]map[string]string{
			"fr": {"recipes": "search"},
		}},
		"slash in alias": {"en", []Locale{"en", "fr"}, map[Locale]map[string]string{
			"fr": {"recipes": "a/b"},
		}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewTable(tc.def, tc.supported, segs, tc.aliases)
			if !errors.Is(err, ErrInvalidTable) {
				t.Fatalf("err = %v, want ErrInvalidTable", err)
			}
		})
	}
}

func TestRoundTrip_AllLocalesAllSegments(t *testing.T) {
	tbl := fixture(t)
	for _, l := range tbl.Supported() {
		for _, s := range tbl.Segments() {
			alias := tbl.ToLocalized(l, s)
			got, ok := tbl.ToCanonical(l, alias)
			if !ok || got != s {
				t.Fatalf("ToCanonical(%s, %q) = %q, %v; want %q", l, alias, got, ok, s)
			}
			if again := tbl.ToLocalized(l, got); again != alias {
				t.Fatalf("ToLocalized(%s, %q) = %q, want %q", l, got, again, alias)
			}
		}
	}
}

func TestDefaultLocale_IsIdentity(t *testing.T) {
	tbl := fixture(t)
	for _, s := range tbl.Segments() {
		if got := tbl.ToLocalized(tbl.Default(), s); got != s {
			t.Fatalf("ToLocalized(en, %q) = %q", s, got)
		}
	}
}

func TestToLocalized_UnknownPassesThrough(t *testing.T) {
	tbl := fixture(t)
	if got := tbl.ToLocalized("fr", "tarte-citron"); got != "tarte-citron" {
		t.Fatalf("got %q", got)
	}
	if got := tbl.ToLocalized("it", "recipes"); got != "recipes" {
		t.Fatalf("unsupported locale: got %q", got)
	}
	if _, ok := tbl.ToCanonical("fr", "tarte-citron"); ok {
		t.Fatal("handle reported as known segment")
	}
	// "recipes" is no alias in fr; the French alias is "recettes".
	if _, ok := tbl.ToCanonical("fr", "recipes"); ok {
		t.Fatal("canonical segment accepted as fr alias")
	}
}

func TestMissingAliasDefaultsToSegment(t *testing.T) {
	tbl := fixture(t)
	if got := tbl.ToLocalized("fr", "categories"); got != "categories" {
		t.Fatalf("got %q, want categories", got)
	}
	if got, ok := tbl.ToCanonical("fr", "categories"); !ok || got != "categories" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestLocalizePath(t *testing.T) {
	tbl := fixture(t)
	cases := []struct {
		l    Locale
		in   string
		want string
	}{
		{"fr", "/recipes/lemon-tart", "/fr/recettes/lemon-tart"},
		{"de", "recipes/lemon-tart/", "/de/rezepte/lemon-tart"},
		{"en", "/recipes/lemon-tart", "/en/recipes/lemon-tart"},
		{"es", "/", "/es"},
		{"es", "", "/es"},
	}
	for _, tc := range cases {
		if got := tbl.LocalizePath(tc.l, tc.in); got != tc.want {
			t.Errorf("LocalizePath(%s, %q) = %q, want %q", tc.l, tc.in, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	tbl := fixture(t)
	if l, err := tbl.Parse("de"); err != nil || l != "de" {
		t.Fatalf("Parse(de) = %q, %v", l, err)
	}
	if _, err := tbl.Parse("DE"); !errors.Is(err, ErrUnsupportedLocale) {
		t.Fatalf("Parse(DE) err = %v", err)
	}
}

func TestSupported_ReturnsCopy(t *testing.T) {
	tbl := fixture(t)
	s := tbl.Supported()
	s[0] = "xx"
	if tbl.Supported()[0] != "en" {
		t.Fatal("Supported leaked internal slice")
	}
}

func TestContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("empty context reported a locale")
	}
	ctx := WithLocale(context.Background(), "fr")
	if l, ok := FromContext(ctx); !ok || l != "fr" {
		t.Fatalf("FromContext = %q, %v", l, ok)
	}
}
