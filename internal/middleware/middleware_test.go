package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestForceHTTPS(t *testing.T) {
	h := ForceHTTPS(true, ok)

	req := httptest.NewRequest(http.MethodGet, "http://mise.example/fr/recettes?q=1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusPermanentRedirect {
		t.Fatalf("status = %d, want 308", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://mise.example/fr/recettes?q=1" {
		t.Fatalf("Location = %q", loc)
	}

	for name, mod := range map[string]func(*http.Request){
		"tls":       func(r *http.Request) { r.TLS = &tls.ConnectionState{} },
		"localhost": func(r *http.Request) { r.Host = "localhost:8080" },
		"proxy":     func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https") },
	} {
		req := httptest.NewRequest(http.MethodGet, "http://mise.example/", nil)
		mod(req)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", name, rec.Code)
		}
	}
}

func TestForceHTTPS_Disabled(t *testing.T) {
	rec := httptest.NewRecorder()
	ForceHTTPS(false, ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://mise.example/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestSecurity_HeadersSurviveWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	Security(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, h := range []string{"Strict-Transport-Security", "Content-Security-Policy", "X-Frame-Options"} {
		if rec.Result().Header.Get(h) == "" {
			t.Errorf("%s missing", h)
		}
	}
}

func TestAccessLog_PassesThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	AccessLog(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/en/recipes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
