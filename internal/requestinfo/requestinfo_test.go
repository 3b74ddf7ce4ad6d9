package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const chromeMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0.6367.91 Safari/537.36"

func TestEnrich_AttachesInfo(t *testing.T) {
	var got *RequestInfo
	h := Enrich(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/fr/recettes", nil)
	req.Header.Set("User-Agent", chromeMac)
	req.Header.Set("Accept-Language", "de;q=0.5, fr-CA, en;q=0.8")
	req.Header.Set("X-Forwarded-For", "10.0.0.7, 203.0.113.9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("RequestInfo missing from context")
	}
	if got.UA.PrimaryLang != "fr" {
		t.Fatalf("PrimaryLang = %q, want fr", got.UA.PrimaryLang)
	}
	if got.UA.Device != "Desktop" || got.UA.IsBot {
		t.Fatalf("UA = %+v", got.UA)
	}
	if got.Geo.IP.String() != "203.0.113.9" {
		t.Fatalf("client IP = %v, want 203.0.113.9", got.Geo.IP)
	}
}

func TestPrimaryLang(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"es-MX,es;q=0.9": "es",
		"en;q=0.1, de":   "de",
	}
	for in, want := range cases {
		if got := primaryLang(in); got != want {
			t.Errorf("primaryLang(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromContext_NilWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if FromContext(req.Context()) != nil {
		t.Fatal("expected nil RequestInfo")
	}
}

func TestInitGeo_EmptyPathDisables(t *testing.T) {
	if err := InitGeo(""); err != nil {
		t.Fatalf("InitGeo(\"\") = %v", err)
	}
	if err := InitGeo("/nonexistent/GeoLite2-City.mmdb"); err == nil {
		t.Fatal("expected error for missing database")
	}
}
