// internal/locale/localize.go
//
// Path Localizer.  Translates single segments and whole canonical paths
// between the canonical route space and each locale's aliases.

package locale

import "strings"

// ToLocalized returns the alias that l uses for canonical.  Unknown segments
// (dynamic slugs, literals) and unsupported locales pass through unchanged.
func (t *Table) ToLocalized(l Locale, canonical string) string {
	if alias, ok := t.toAlias[l][canonical]; ok {
		return alias
	}
	return canonical
}

// ToCanonical maps an alias seen in l back to its canonical segment.  ok is
// false when alias is not a known localizable segment; callers must then
// treat the raw alias as a literal (for example part of a handle).
func (t *Table) ToCanonical(l Locale, alias string) (canonical string, ok bool) {
	canonical, ok = t.toCanon[l][alias]
	return canonical, ok
}

// LocalizePath turns a canonical path such as "/recipes/lemon-tart" into the
// outbound URL path for l ("/fr/recettes/lemon-tart").  Every known segment
// is localized; literals are kept verbatim.  An empty or "/" path yields
// the locale root.
func (t *Table) LocalizePath(l Locale, canonicalPath string) string {
	trimmed := strings.Trim(canonicalPath, "/")
	if trimmed == "" {
		return "/" + string(l)
	}

	parts := strings.Split(trimmed, "/")
	var b strings.Builder
	b.Grow(len(canonicalPath) + len(l) + 8)
	b.WriteByte('/')
	b.WriteString(string(l))
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(t.ToLocalized(l, p))
	}
	return b.String()
}
