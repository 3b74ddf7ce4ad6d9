// internal/locale/table.go
//
// Static registry of supported locales and per-locale route segment aliases.
//
// Context
// -------
// Application code speaks one canonical route vocabulary ("recipes",
// "categories", ...).  Visitors see a localized alias in the URL instead
// ("recettes" for fr, "rezepte" for de).  The Table holds both directions of
// that mapping for every supported locale and is immutable once built, so
// lookups need no locking and are safe from any number of goroutines.
//
// Invariants enforced by NewTable
// -------------------------------
//   - The default locale is one of the supported locales.
//   - Every locale code parses as a BCP 47 tag.
//   - For the default locale, alias == canonical segment.
//   - Per locale, canonical → alias is total (missing aliases map to the
//     segment itself) and injective (no two segments share one alias).
//
// Notes
// -----
// • Locale codes are compared exactly; "FR" is not "fr".
package locale

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Locale is an opaque code from the supported set, e.g. "en" or "pt-BR".
type Locale string

func (l Locale) String() string { return string(l) }

var (
	// ErrUnsupportedLocale marks a code that is not in the supported set.
	// Callers recover by falling back to the default locale.
	ErrUnsupportedLocale = errors.New("unsupported locale")

	// ErrUnknownSegment marks a path segment that has no canonical
	// counterpart.  Callers treat the raw segment as a literal.
	ErrUnknownSegment = errors.New("unknown route segment")

	// ErrInvalidTable is returned by NewTable when the configuration breaks
	// one of the table invariants.
	ErrInvalidTable = errors.New("invalid locale table")
)

// Table is the immutable locale registry.  Zero value is unusable;
// construct with NewTable.
type Table struct {
	def       Locale
	supported []Locale
	set       map[Locale]struct{}
	tags      []language.Tag // parallel to supported

	segments []string                     // canonical segments, sorted
	toAlias  map[Locale]map[string]string // canonical → alias
	toCanon  map[Locale]map[string]string // alias → canonical
}

// NewTable validates the inputs and builds the bidirectional maps.
//
// aliases is keyed by locale, then by canonical segment.  Entries for
// segments not listed in segments are rejected so a typo in config cannot
// silently introduce a new route.
func NewTable(def Locale, supported []Locale, segments []string, aliases map[Locale]map[string]string) (*Table, error) {
	if len(supported) == 0 {
		return nil, fmt.Errorf("%w: no supported locales", ErrInvalidTable)
	}

	t := &Table{
		def:     def,
		set:     make(map[Locale]struct{}, len(supported)),
		toAlias: make(map[Locale]map[string]string, len(supported)),
		toCanon: make(map[Locale]map[string]string, len(supported)),
	}

	for _, l := range supported {
		if _, dup := t.set[l]; dup {
			return nil, fmt.Errorf("%w: duplicate locale %q", ErrInvalidTable, l)
		}
		tag, err := language.Parse(string(l))
		if err != nil || strings.Contains(string(l), "/") {
			return nil, fmt.Errorf("%w: locale %q is not a language tag", ErrInvalidTable, l)
		}
		t.set[l] = struct{}{}
		t.supported = append(t.supported, l)
		t.tags = append(t.tags, tag)
	}
	if _, ok := t.set[def]; !ok {
		return nil, fmt.Errorf("%w: default locale %q not supported", ErrInvalidTable, def)
	}

	known := make(map[string]struct{}, len(segments))
	for _, s := range segments {
		if !validSegment(s) {
			return nil, fmt.Errorf("%w: bad canonical segment %q", ErrInvalidTable, s)
		}
		if _, dup := known[s]; dup {
			return nil, fmt.Errorf("%w: duplicate canonical segment %q", ErrInvalidTable, s)
		}
		known[s] = struct{}{}
		t.segments = append(t.segments, s)
	}
	sort.Strings(t.segments)

	for l, m := range aliases {
		if _, ok := t.set[l]; !ok {
			return nil, fmt.Errorf("%w: aliases for unsupported locale %q", ErrInvalidTable, l)
		}
		for seg, alias := range m {
			if _, ok := known[seg]; !ok {
				return nil, fmt.Errorf("%w: alias for unknown segment %q in %q", ErrInvalidTable, seg, l)
			}
			if !validSegment(alias) {
				return nil, fmt.Errorf("%w: bad alias %q for %q in %q", ErrInvalidTable, alias, seg, l)
			}
			if l == def && alias != seg {
				return nil, fmt.Errorf("%w: default locale %q must not alias %q", ErrInvalidTable, l, seg)
			}
		}
	}

	for _, l := range t.supported {
		fwd := make(map[string]string, len(t.segments))
		rev := make(map[string]string, len(t.segments))
		for _, seg := range t.segments {
			alias := seg
			if a, ok := aliases[l][seg]; ok {
				alias = a
			}
			if other, taken := rev[alias]; taken {
				return nil, fmt.Errorf("%w: %q and %q share alias %q in %q",
					ErrInvalidTable, other, seg, alias, l)
			}
			fwd[seg] = alias
			rev[alias] = seg
		}
		t.toAlias[l] = fwd
		t.toCanon[l] = rev
	}
	return t, nil
}

// Default returns the designated default locale.
func (t *Table) Default() Locale { return t.def }

// Supported returns the supported locales in configuration order.  The
// slice is a copy and safe to retain.
func (t *Table) Supported() []Locale {
	out := make([]Locale, len(t.supported))
	copy(out, t.supported)
	return out
}

// Segments returns the known canonical segments, sorted.
func (t *Table) Segments() []string {
	out := make([]string, len(t.segments))
	copy(out, t.segments)
	return out
}

// IsSupported reports whether l is in the supported set.
func (t *Table) IsSupported(l Locale) bool {
	_, ok := t.set[l]
	return ok
}

// Parse validates a raw code against the supported set.
func (t *Table) Parse(code string) (Locale, error) {
	l := Locale(code)
	if !t.IsSupported(l) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocale, code)
	}
	return l, nil
}

func validSegment(s string) bool {
	return s != "" && !strings.ContainsAny(s, "/?#")
}
