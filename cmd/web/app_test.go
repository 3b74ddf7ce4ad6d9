package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yanizio/mise/internal/config"
	"github.com/yanizio/mise/internal/content"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTP{ListenAddr: ":0"},
		Locales: config.Locales{
			Default:   "en",
			Supported: []string{"en", "fr", "de", "es"},
			Segments:  []string{"recipes"},
			Aliases: map[string]map[string]string{
				"fr": {"recipes": "recettes"},
				"de": {"recipes": "rezepte"},
				"es": {"recipes": "recetas"},
			},
		},
		Routing: config.Routing{PreferenceCookie: "mise_locale"},
		Site:    config.Site{BaseURL: "https://mise.example"},
	}
}

func newTestApp(t *testing.T, migrate func(context.Context, []string) error) http.Handler {
	t.Helper()
	m := content.NewMemoryStore()
	if err := seedDemo(context.Background(), m); err != nil {
		t.Fatalf("seedDemo: %v", err)
	}
	h, err := newApp(context.Background(), testConfig(), m, migrate)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	return h
}

func TestApp_EndToEnd(t *testing.T) {
	h := newTestApp(t, nil)
	cases := []struct {
		name, path, lang string
		status           int
		location         string
	}{
		{"negotiated redirect", "/recipes/lemon-tart?x=1", "de-AT,de;q=0.9", http.StatusTemporaryRedirect, "/de/recipes/lemon-tart?x=1"},
		{"localized view", "/de/rezepte/zitronentarte", "", http.StatusOK, ""},
		{"untranslated mirror", "/es/recetas/lemon-tart", "", http.StatusOK, ""},
		{"switch", "/fr/recettes/tarte-au-citron/switch/de", "", http.StatusFound, "/de/rezepte/zitronentarte"},
		{"health", "/healthz", "", http.StatusOK, ""},
		{"metrics", "/metrics", "", http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.lang != "" {
				req.Header.Set("Accept-Language", tc.lang)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d\n%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.location != "" && rec.Header().Get("Location") != tc.location {
				t.Fatalf("Location = %q, want %q", rec.Header().Get("Location"), tc.location)
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Fatal("security headers missing")
			}
		})
	}
}

func TestApp_MigrationsApplied(t *testing.T) {
	var got int
	newTestApp(t, func(_ context.Context, stmts []string) error {
		got += len(stmts)
		return nil
	})
	if got == 0 {
		t.Fatal("no migrations passed to migrator")
	}
}

func TestApp_MigrationFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := newApp(context.Background(), testConfig(), content.NewMemoryStore(),
		func(context.Context, []string) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestApp_BadLocales(t *testing.T) {
	cfg := testConfig()
	cfg.Locales.Default = "it"
	if _, err := newApp(context.Background(), cfg, content.NewMemoryStore(), nil); err == nil {
		t.Fatal("expected locale table error")
	}
}
