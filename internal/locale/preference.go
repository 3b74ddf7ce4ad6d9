// internal/locale/preference.go
//
// Optional stored-preference capability.
//
// Context
// -------
// A visitor may have picked a locale on an earlier visit.  Where that choice
// lives (cookie, profile row, nowhere) is decided once when the server is
// wired, by handing the router a PreferenceSource.  NoPreferences is the
// defined "absent" variant; the router never probes for the capability per
// request.

package locale

import "net/http"

// PreferenceSource yields a previously stored locale for r, or "" when none.
// Implementations must not block; the value is only a negotiation hint and
// need not be supported.
type PreferenceSource interface {
	StoredLocale(r *http.Request) Locale
}

// NoPreferences is the absent capability.
type NoPreferences struct{}

func (NoPreferences) StoredLocale(*http.Request) Locale { return "" }

// CookiePreference reads the stored locale from a cookie.
type CookiePreference struct {
	Name string
}

// StoredLocale returns the cookie value verbatim.  Validation happens in the
// negotiator.
func (c CookiePreference) StoredLocale(r *http.Request) Locale {
	ck, err := r.Cookie(c.Name)
	if err != nil || ck.Value == "" {
		return ""
	}
	return Locale(ck.Value)
}
