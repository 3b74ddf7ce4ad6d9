// internal/handle/generate.go
//
// Title → handle conversion.
//
// Rules
// -----
//  1. Decompose (NFD) and drop combining marks, so “é” becomes “e”.
//  2. Fold the few Latin letters NFD leaves alone (ß, æ, œ, ø, ł, đ, þ).
//  3. Lower-case everything.
//  4. Strip every character outside [a-z0-9], whitespace, and “-”.
//  5. Collapse each run of whitespace to one “-”.  Hyphens typed in the
//     title are kept as written, so “a - b” becomes “a---b”.
//  6. Trim “-” at both ends.
//  7. Cap at MaxLen bytes without leaving a trailing “-”.
//  8. Empty result → "item".
//
// Notes
// -----
// • Punctuation is removed, not replaced: “Mac & Cheese” → “mac-cheese”,
//   “Grandma's Pie” → “grandmas-pie”.
// • Non-Latin scripts have no ASCII form here and fall through to "item";
//   editors are expected to supply a Latin title for those locales.
package handle

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen bounds generated handles, leaving room for a "-NNN" suffix inside the
// VARCHAR(191) column.
const MaxLen = 100

// Fallback is returned when a title contains nothing usable.
const Fallback = "item"

var ligatures = strings.NewReplacer(
	"ß", "ss", "ẞ", "ss",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"ø", "o", "Ø", "o",
	"ł", "l", "Ł", "l",
	"đ", "d", "Đ", "d",
	"þ", "th", "Þ", "th",
)

// Generate converts title into a base handle.  Pure and deterministic.
func Generate(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, transform.RemoveFunc(isMn)), title)
	if err != nil {
		folded = title
	}
	folded = strings.ToLower(ligatures.Replace(folded))

	var b strings.Builder
	b.Grow(len(folded))

	// Stripped characters do not end a whitespace run: "Mac & Cheese"
	// holds one run between "mac" and "cheese".
	inSpace := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			if inSpace {
				b.WriteByte('-')
			}
			inSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			inSpace = true
		default:
			// stripped
		}
	}

	h := strings.Trim(b.String(), "-")
	if len(h) > MaxLen {
		h = strings.TrimRight(h[:MaxLen], "-")
	}
	if h == "" {
		return Fallback
	}
	return h
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
