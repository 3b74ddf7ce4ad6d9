// internal/routing/router.go
//
// Locale-prefix router and segment-rewrite middleware.
//
// Context
// -------
// Every content URL starts with a locale prefix ("/fr/...").  The second
// segment may be a localized alias ("recettes") that the application only
// knows under its canonical name ("recipes").  The Router looks at one
// inbound path and settles on exactly one outcome:
//
//   - Redirect     – no locale prefix; negotiate one and send the client to
//     "/{locale}{path}" with the query string untouched.
//   - Rewrite      – a localized alias was used; swap in the canonical
//     segment internally.  The browser URL does not change.
//   - Passthrough  – static assets, API namespace, already-canonical paths,
//     and literal segments.
//
// Workflow
// --------
//  1. cmd/web builds one Router from the locale.Table and config.
//  2. Router.Middleware is wired early in the chi chain.
//  3. Decide runs per request.  It is pure, so it is unit-tested without
//     HTTP and safe under any concurrency.
//  4. Middleware applies the Decision to the request, stores the locale in
//     the request context, and counts the outcome.
//
// Notes
// -----
// • Root locale paths ("/fr", "/fr/") never reach segment substitution.

package routing

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/mise/internal/locale"
	"github.com/yanizio/mise/internal/metrics"
)

// -----------------------------------------------------------------------------
// Decision model
// -----------------------------------------------------------------------------

// Outcome is the terminal state for one inbound path.
type Outcome int

const (
	Passthrough Outcome = iota
	Redirect
	Rewrite
)

func (o Outcome) String() string {
	switch o {
	case Redirect:
		return "redirect"
	case Rewrite:
		return "rewrite"
	default:
		return "passthrough"
	}
}

// Request carries the signals Decide needs.  Empty strings mean absent.
type Request struct {
	Path           string // decoded URL path, leading slash included
	RawQuery       string // query string without "?"
	AcceptLanguage string
	Stored         locale.Locale
}

// Decision is the router's verdict.
//
// Path is the redirect target or the rewritten path; it is empty for
// Passthrough.  Locale is set whenever the request belongs to a locale.
// Reason records a recovered condition (ErrUnsupportedLocale,
// ErrUnknownSegment) for logs and metrics; it is never a failure.
type Decision struct {
	Outcome  Outcome
	Locale   locale.Locale
	Path     string
	RawQuery string
	Reason   error
}

// Location returns Path with the original query string appended.
func (d Decision) Location() string {
	if d.RawQuery == "" {
		return d.Path
	}
	return d.Path + "?" + d.RawQuery
}

// -----------------------------------------------------------------------------
// Router
// -----------------------------------------------------------------------------

// Defaults used when Options leaves a field zero.
var DefaultPassthroughPrefixes = []string{"/api/", "/static/", "/metrics", "/healthz"}

const DefaultRedirectStatus = http.StatusTemporaryRedirect

// Options tunes the router.  Zero value is usable.
type Options struct {
	// PassthroughPrefixes lists non-content namespaces.  A prefix ending in
	// "/" matches everything below it; otherwise it matches the exact path
	// and its sub-paths.
	PassthroughPrefixes []string

	// RedirectStatus is the status for locale-prefix redirects.
	RedirectStatus int

	// Preferences supplies the stored locale hint.  Nil means absent.
	Preferences locale.PreferenceSource
}

// Router is immutable after New.
type Router struct {
	table      *locale.Table
	negotiator *locale.Negotiator
	prefixes   []string
	status     int
	prefs      locale.PreferenceSource
	varyCookie bool // a cookie can change the negotiated locale
}

// New returns a ready Router.
func New(t *locale.Table, opts Options) *Router {
	r := &Router{
		table:      t,
		negotiator: locale.NewNegotiator(t),
		prefixes:   opts.PassthroughPrefixes,
		status:     opts.RedirectStatus,
		prefs:      opts.Preferences,
	}
	if r.prefixes == nil {
		r.prefixes = DefaultPassthroughPrefixes
	}
	if r.status == 0 {
		r.status = DefaultRedirectStatus
	}
	if r.prefs == nil {
		r.prefs = locale.NoPreferences{}
	}
	_, none := r.prefs.(locale.NoPreferences)
	r.varyCookie = !none
	return r
}

// Decide maps one request onto an Outcome.  Pure.
func (rt *Router) Decide(req Request) Decision {
	p := req.Path
	if p == "" {
		p = "/"
	}

	// 1. Non-content resources.
	if rt.isPassthrough(p) {
		return Decision{Outcome: Passthrough}
	}

	first, rest := splitFirst(p)

	// 2. Missing locale prefix → redirect.
	if !rt.table.IsSupported(locale.Locale(first)) {
		l := rt.negotiator.Negotiate("", req.AcceptLanguage, req.Stored)
		target := "/" + string(l)
		if p != "/" {
			target += p
		}
		d := Decision{
			Outcome:  Redirect,
			Locale:   l,
			Path:     target,
			RawQuery: req.RawQuery,
		}
		if first != "" {
			d.Reason = fmt.Errorf("%w: %q", locale.ErrUnsupportedLocale, first)
		}
		return d
	}

	l := locale.Locale(first)

	// 3. Prefixed.  Root locale page never reaches substitution, and an
	// empty segment ("/fr//recettes") is left for the mux to reject.
	if rest == "" || strings.HasPrefix(rest, "/") {
		return Decision{Outcome: Passthrough, Locale: l}
	}
	seg, tail := splitFirst(rest)

	canonical, ok := rt.table.ToCanonical(l, seg)
	if !ok {
		return Decision{
			Outcome: Passthrough,
			Locale:  l,
			Reason:  fmt.Errorf("%w: %q in %s", locale.ErrUnknownSegment, seg, l),
		}
	}
	if canonical == seg {
		return Decision{Outcome: Passthrough, Locale: l}
	}

	target := "/" + first + "/" + canonical
	if tail != "" {
		target += "/" + tail
	} else if strings.HasSuffix(rest, "/") {
		target += "/"
	}
	return Decision{
		Outcome:  Rewrite,
		Locale:   l,
		Path:     target,
		RawQuery: req.RawQuery,
	}
}

// isPassthrough reports whether p is outside the localized content space.
func (rt *Router) isPassthrough(p string) bool {
	for _, pre := range rt.prefixes {
		if strings.HasSuffix(pre, "/") {
			if strings.HasPrefix(p, pre) {
				return true
			}
			continue
		}
		if p == pre || strings.HasPrefix(p, pre+"/") {
			return true
		}
	}
	// Static files such as /favicon.ico or /fr/robots.txt.  Handles are
	// restricted to [a-z0-9-], so a dot never appears in a content path.
	return path.Ext(path.Base(p)) != ""
}

// splitFirst cuts "/a/b/c" into "a" and "b/c".  rest keeps any trailing
// slash so callers can preserve it.
func splitFirst(p string) (first, rest string) {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i], p[i+1:]
	}
	return p, ""
}

// -----------------------------------------------------------------------------
// Middleware
// -----------------------------------------------------------------------------

// Middleware applies Decide to every request.
func (rt *Router) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := rt.Decide(Request{
			Path:           r.URL.Path,
			RawQuery:       r.URL.RawQuery,
			AcceptLanguage: r.Header.Get("Accept-Language"),
			Stored:         rt.prefs.StoredLocale(r),
		})
		metrics.RoutingDecisionsTotal.WithLabelValues(d.Outcome.String()).Inc()

		switch d.Outcome {
		case Redirect:
			// Re-escape the decoded path; the query is copied verbatim.
			target := (&url.URL{Path: d.Path, RawQuery: d.RawQuery}).String()
			zap.L().Debug("locale redirect",
				zap.String("from", r.URL.RequestURI()),
				zap.String("to", target),
				zap.NamedError("reason", d.Reason))
			w.Header().Add("Vary", "Accept-Language")
			if rt.varyCookie {
				w.Header().Add("Vary", "Cookie")
			}
			http.Redirect(w, r, target, rt.status)
			return

		case Rewrite:
			original := r.URL.Path
			r.URL.Path = d.Path
			r.URL.RawPath = ""
			r.RequestURI = r.URL.RequestURI()
			zap.L().Debug("locale rewrite",
				zap.String("from", original),
				zap.String("to", d.Path))

		default:
			if d.Reason != nil {
				zap.L().Debug("literal segment", zap.Error(d.Reason))
			}
		}

		if d.Locale != "" {
			r = r.WithContext(locale.WithLocale(r.Context(), d.Locale))
		}
		next.ServeHTTP(w, r)
	})
}
