package head

import (
	"strings"
	"testing"
)

func TestBuilder_CanonicalAndAlternates(t *testing.T) {
	b := New()
	b.SetTitle("Tarte <citron>")
	b.Canonical("https://example.com/fr/recettes/tarte-citron")
	b.Alternate("en", "https://example.com/en/recipes/lemon-tart")
	b.Alternate("fr", "https://example.com/fr/recettes/tarte-citron")
	b.Alternate("fr", "https://example.com/fr/recettes/tarte-citron") // dup

	got := string(b.HTML())
	want := `<title>Tarte &lt;citron&gt;</title>` +
		`<link rel="canonical" href="https://example.com/fr/recettes/tarte-citron">` +
		`<link rel="alternate" hreflang="en" href="https://example.com/en/recipes/lemon-tart">` +
		`<link rel="alternate" hreflang="fr" href="https://example.com/fr/recettes/tarte-citron">`
	if got != want {
		t.Fatalf("HTML =\n%s\nwant\n%s", got, want)
	}
}

func TestBuilder_EscapesHref(t *testing.T) {
	b := New()
	b.Alternate(`x"`, `/a?b=1&c="2"`)
	got := string(b.Links())
	if strings.Contains(got, `"2"`) || !strings.Contains(got, "&amp;") {
		t.Fatalf("unescaped output: %s", got)
	}
}

func TestBuilder_EmptyCanonical(t *testing.T) {
	if got := New().CanonicalLink(); got != "" {
		t.Fatalf("CanonicalLink = %q, want empty", got)
	}
}
