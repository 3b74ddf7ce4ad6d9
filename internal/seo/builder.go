// internal/seo/builder.go
//
// Canonical and alternate URL builder.
//
// Context
// -------
// Every recipe page advertises one URL per supported locale plus a canonical
// link.  A locale without its own translation still gets a URL (mirroring
// the default handle) but points its canonical at the default-locale page,
// so search engines index the untranslated copy once.
//
// Workflow
// --------
//  1. Load assembles an Item from the Store (one lookup per locale, run in
//     parallel; failures count as "not translated").
//  2. Build substitutes each locale's handle into the route pattern and
//     localizes the static segments.
//  3. Links.Apply pushes the result into a head.Builder as absolute URLs.
//
// Notes
// -----
// • Only the pattern's static segments are localized.  The handle is always
//   emitted verbatim, even if it happens to equal a canonical segment.
package seo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/mise/internal/content"
	"github.com/yanizio/mise/internal/head"
	"github.com/yanizio/mise/internal/locale"
)

// Placeholder marks the handle position in a route pattern.
const Placeholder = "{handle}"

// ErrInvalidPattern is returned for patterns without exactly one standalone
// {handle} segment.
var ErrInvalidPattern = errors.New("seo: pattern needs exactly one {handle} segment")

// Item is everything Build needs about one content item.
type Item struct {
	ContentID     int64
	DefaultHandle string
	// Translations maps locale → handle for locales that have their own row.
	Translations map[locale.Locale]string
}

// translated reports whether l has its own non-empty handle.
func (it Item) translated(l locale.Locale) bool { return it.Translations[l] != "" }

// Alternate is one hreflang entry.
type Alternate struct {
	Locale locale.Locale `json:"locale"`
	URL    string        `json:"url"`
}

// Links is the Build result.  All URLs are site-relative paths.
type Links struct {
	Alternates []Alternate `json:"alternates"`
	Self       string      `json:"self"`
	Canonical  string      `json:"canonical"`
	XDefault   string      `json:"x_default"`
}

// Builder is safe for concurrent use.
type Builder struct {
	table *locale.Table
	store content.Store
}

// NewBuilder wires a Builder.  store may be nil when only Build is used.
func NewBuilder(table *locale.Table, store content.Store) *Builder {
	return &Builder{table: table, store: store}
}

// Build emits one URL per supported locale and picks the canonical link for
// current.  An unsupported current is treated as the default locale.
func (b *Builder) Build(item Item, pattern string, current locale.Locale) (Links, error) {
	parts, at, err := splitPattern(pattern)
	if err != nil {
		return Links{}, err
	}
	if !b.table.IsSupported(current) {
		current = b.table.Default()
	}

	def := b.table.Default()
	var out Links
	for _, l := range b.table.Supported() {
		h := item.DefaultHandle
		if item.translated(l) {
			h = item.Translations[l]
		}
		u := b.path(l, parts, at, h)
		out.Alternates = append(out.Alternates, Alternate{Locale: l, URL: u})

		if l == current {
			out.Self = u
		}
		if l == def {
			out.XDefault = u
		}
	}

	if item.translated(current) || current == def {
		out.Canonical = out.Self
	} else {
		out.Canonical = out.XDefault
	}
	return out, nil
}

// Path renders pattern for a single locale and handle.
func (b *Builder) Path(l locale.Locale, pattern, h string) (string, error) {
	parts, at, err := splitPattern(pattern)
	if err != nil {
		return "", err
	}
	return b.path(l, parts, at, h), nil
}

func (b *Builder) path(l locale.Locale, parts []string, at int, h string) string {
	var sb strings.Builder
	sb.WriteByte('/')
	sb.WriteString(string(l))
	for i, p := range parts {
		sb.WriteByte('/')
		if i == at {
			sb.WriteString(h)
			continue
		}
		sb.WriteString(b.table.ToLocalized(l, p))
	}
	return sb.String()
}

// splitPattern returns the pattern's segments and the placeholder index.
func splitPattern(pattern string) ([]string, int, error) {
	if strings.Count(pattern, Placeholder) != 1 {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	parts := strings.Split(strings.Trim(pattern, "/"), "/")
	for i, p := range parts {
		if p == Placeholder {
			return parts, i, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
}

/*──────────────────────────── store loading ────────────────────────────────*/

// Load reads the canonical record and every per-locale translation for
// contentID.  Only the canonical lookup can fail the call; translation
// errors degrade to "not translated".
func (b *Builder) Load(ctx context.Context, contentID int64) (Item, error) {
	canon, err := b.store.CanonicalContent(ctx, contentID)
	if err != nil {
		return Item{}, err
	}

	locales := b.table.Supported()
	handles := make([]string, len(locales))

	g, gctx := errgroup.WithContext(ctx)
	for i, l := range locales {
		i, l := i, l
		g.Go(func() error {
			tr, err := b.store.Translation(gctx, contentID, l)
			switch {
			case err == nil:
				handles[i] = tr.Handle
			case !content.IsMiss(err):
				zap.L().Warn("seo: translation lookup failed",
					zap.Int64("content_id", contentID),
					zap.String("locale", l.String()),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	item := Item{
		ContentID:     canon.ID,
		DefaultHandle: canon.DefaultHandle,
		Translations:  make(map[locale.Locale]string, len(locales)),
	}
	for i, l := range locales {
		if handles[i] != "" {
			item.Translations[l] = handles[i]
		}
	}
	return item, nil
}

/*──────────────────────────── head output ──────────────────────────────────*/

// Apply writes canonical and hreflang tags into hb.  baseURL (for example
// "https://mise.example") is prefixed to every path; empty keeps them
// site-relative.
func (l Links) Apply(hb *head.Builder, baseURL string) {
	base := strings.TrimRight(baseURL, "/")
	if l.Canonical != "" {
		hb.Canonical(base + l.Canonical)
	}
	for _, a := range l.Alternates {
		hb.Alternate(a.Locale.String(), base+a.URL)
	}
	if l.XDefault != "" {
		hb.Alternate("x-default", base+l.XDefault)
	}
}
