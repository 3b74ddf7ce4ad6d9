// internal/locale/negotiate.go
//
// Locale Negotiator.
//
// Context
// -------
// Negotiate picks exactly one supported locale from three request signals,
// highest precedence first:
//
//  1. the first path segment, when it names a supported locale exactly,
//  2. the Accept-Language header, best match by weight,
//  3. a previously stored preference (cookie, profile, ...).
//
// When none of them yields a supported locale the default is returned.  The
// function is pure: no I/O, no clock, no shared mutable state.
//
// Matching rules for Accept-Language
// ----------------------------------
//   - Entries are parsed one by one with golang.org/x/text/language, so a
//     single malformed or wildcard entry is ignored instead of discarding
//     the whole header.
//   - Entries are walked by descending q; ties keep header order; q=0 is
//     dropped by the parser.
//   - An exact tag match wins, else the first supported locale (in table
//     order) that shares the base language ("fr-CA" → "fr").
package locale

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Negotiator is a thin, stateless view over a Table.
type Negotiator struct {
	table *Table
}

// NewNegotiator binds a negotiator to t.
func NewNegotiator(t *Table) *Negotiator { return &Negotiator{table: t} }

// Negotiate returns the locale for one request.  Empty strings stand for an
// absent signal.  It never fails and always returns a supported locale.
func (n *Negotiator) Negotiate(pathPrefix, acceptLanguage string, stored Locale) Locale {
	t := n.table

	if pathPrefix != "" && t.IsSupported(Locale(pathPrefix)) {
		return Locale(pathPrefix)
	}

	if l, ok := n.fromAcceptLanguage(acceptLanguage); ok {
		return l
	}

	if stored != "" && t.IsSupported(stored) {
		return stored
	}
	return t.def
}

// weighted is one parsed Accept-Language entry.
type weighted struct {
	tag language.Tag
	q   float32
	pos int
}

func (n *Negotiator) fromAcceptLanguage(header string) (Locale, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	var prefs []weighted
	for i, entry := range strings.Split(header, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" || strings.HasPrefix(entry, "*") {
			continue
		}
		tags, qs, err := language.ParseAcceptLanguage(entry)
		if err != nil || len(tags) == 0 {
			continue
		}
		prefs = append(prefs, weighted{tag: tags[0], q: qs[0], pos: i})
	}
	sort.SliceStable(prefs, func(i, j int) bool {
		if prefs[i].q != prefs[j].q {
			return prefs[i].q > prefs[j].q
		}
		return prefs[i].pos < prefs[j].pos
	})

	for _, p := range prefs {
		if l, ok := n.match(p.tag); ok {
			return l, true
		}
	}
	return "", false
}

// match finds the supported locale for one preferred tag.
func (n *Negotiator) match(want language.Tag) (Locale, bool) {
	t := n.table
	for i, have := range t.tags {
		if have == want {
			return t.supported[i], true
		}
	}

	wantBase, conf := want.Base()
	if conf == language.No {
		return "", false
	}
	for i, have := range t.tags {
		if b, _ := have.Base(); b == wantBase {
			return t.supported[i], true
		}
	}
	return "", false
}
