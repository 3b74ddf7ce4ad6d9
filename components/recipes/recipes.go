// components/recipes/recipes.go
//
// Recipes component: localized recipe views, locale switching, and the
// translation API.
//
// Routes
// ------
//
//	GET  /{locale}/recipes/{handle}                        → JSON view + links
//	GET  /{locale}/recipes/{handle}/switch/{target}        → 302 to target locale
//	PUT  /api/recipes/{id}/translations/{locale}           → get-or-create
//	POST /api/recipes/{id}/translations/{locale}/retitle   → re-slug
//
// Context
// -------
// Page routes only ever see canonical paths; the locale router has already
// rewritten "/fr/recettes/…" to "/fr/recipes/…".  Missing translations never
// produce an error here: views fall back to the default handle and switches
// fall back to the current one.
package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/mise/internal/component"
	"github.com/yanizio/mise/internal/content"
	"github.com/yanizio/mise/internal/head"
	"github.com/yanizio/mise/internal/locale"
	"github.com/yanizio/mise/internal/seo"
)

// Pattern is the canonical recipe route with its handle placeholder.
const Pattern = "recipes/" + seo.Placeholder

const maxBody = 64 << 10

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

// Comp implements component.Component.
type Comp struct {
	deps component.Deps
}

func init() { component.Register(&Comp{}) }

func (c *Comp) Name() string { return "recipes" }

func (c *Comp) Init(d component.Deps) error {
	if d.Store == nil || d.Table == nil || d.Handles == nil || d.Resolver == nil || d.Links == nil {
		return errors.New("recipes: incomplete deps")
	}
	c.deps = d
	return nil
}

// Migrations creates the two content tables.
func (c *Comp) Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS canonical_content (
		    id              BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		    default_handle  VARCHAR(191) NOT NULL UNIQUE,
		    default_locale  VARCHAR(16)  NOT NULL,
		    created_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS content_translation (
		    id           BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		    content_id   BIGINT UNSIGNED NOT NULL,
		    locale       VARCHAR(16)  NOT NULL,
		    handle       VARCHAR(191) NOT NULL,
		    title        VARCHAR(255) NOT NULL DEFAULT '',
		    description  TEXT         NOT NULL,
		    created_at   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		    updated_at   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		    UNIQUE KEY uq_translation_content_locale (content_id, locale),
		    UNIQUE KEY uq_translation_locale_handle  (locale, handle),
		    CONSTRAINT fk_translation_content FOREIGN KEY (content_id)
		        REFERENCES canonical_content (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{locale}/recipes/{handle}", c.view)
	r.Get("/{locale}/recipes/{handle}/switch/{target}", c.switchLocale)

	r.Route("/api/recipes/{id}/translations/{locale}", func(api chi.Router) {
		api.Put("/", c.putTranslation)
		api.Post("/retitle", c.retitle)
	})
	return r
}

/*──────────────────────────── page handlers ────────────────────────────────*/

type viewBody struct {
	ContentID   int64         `json:"content_id"`
	Locale      locale.Locale `json:"locale"`
	Handle      string        `json:"handle"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Translated  bool          `json:"translated"`
	Links       seo.Links     `json:"links"`
	Head        string        `json:"head"`
}

func (c *Comp) view(w http.ResponseWriter, r *http.Request) {
	l, err := c.deps.Table.Parse(chi.URLParam(r, "locale"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h := chi.URLParam(r, "handle")

	ctx := r.Context()
	id, tr, err := c.find(ctx, l, h)
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err := c.deps.Links.Load(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	links, err := c.deps.Links.Build(item, Pattern, l)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body := viewBody{ContentID: id, Locale: l, Handle: h, Links: links}
	hb := head.New()
	if tr != nil {
		body.Title, body.Description, body.Translated = tr.Title, tr.Description, true
	}
	if body.Title != "" {
		hb.SetTitle(body.Title)
	} else {
		hb.SetTitle(h)
	}
	links.Apply(hb, c.deps.BaseURL)
	body.Head = string(hb.HTML())

	writeJSON(w, http.StatusOK, body)
}

// find maps (locale, handle) to a content ID.  Untranslated items are served
// under their default handle in every locale, so a translation miss falls
// back to the canonical table.
func (c *Comp) find(ctx context.Context, l locale.Locale, h string) (int64, *content.Translation, error) {
	tr, err := c.deps.Store.TranslationByHandle(ctx, h, l)
	switch {
	case err == nil:
		return tr.ContentID, tr, nil
	case !content.IsMiss(err):
		return 0, nil, err
	}

	canon, err := c.deps.Store.CanonicalContentByDefaultHandle(ctx, h)
	if err != nil {
		return 0, nil, err
	}
	return canon.ID, nil, nil
}

func (c *Comp) switchLocale(w http.ResponseWriter, r *http.Request) {
	src, err := c.deps.Table.Parse(chi.URLParam(r, "locale"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	target, err := c.deps.Table.Parse(chi.URLParam(r, "target"))
	if err != nil {
		target = c.deps.Table.Default()
	}
	current := chi.URLParam(r, "handle")

	ctx := r.Context()
	if c.deps.ResolveIn > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.deps.ResolveIn)
		defer cancel()
	}
	h := c.deps.Resolver.Resolve(ctx, current, src, target)

	p, err := c.deps.Links.Path(target, Pattern, h)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if c.deps.PreferenceCookie != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     c.deps.PreferenceCookie,
			Value:    target.String(),
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	http.Redirect(w, r, (&url.URL{Path: p}).String(), http.StatusFound)
}

/*──────────────────────────── API handlers ─────────────────────────────────*/

type translationInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type translationBody struct {
	*content.Translation
	URL string `json:"url"`
}

func (c *Comp) putTranslation(w http.ResponseWriter, r *http.Request) {
	id, l, in, err := c.apiArgs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tr, created, err := c.deps.Handles.GetOrCreateTranslation(r.Context(), id, l, in.Title, in.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.writeTranslation(w, r, status, tr)
}

func (c *Comp) retitle(w http.ResponseWriter, r *http.Request) {
	id, l, in, err := c.apiArgs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tr, err := c.deps.Handles.Retitle(r.Context(), id, l, in.Title, in.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c.writeTranslation(w, r, http.StatusOK, tr)
}

func (c *Comp) writeTranslation(w http.ResponseWriter, r *http.Request, status int, tr *content.Translation) {
	p, err := c.deps.Links.Path(tr.Locale, Pattern, tr.Handle)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, translationBody{Translation: tr, URL: p})
}

// apiArgs parses {id}, {locale}, and the optional JSON body.
func (c *Comp) apiArgs(r *http.Request) (int64, locale.Locale, translationInput, error) {
	var in translationInput

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, "", in, fmt.Errorf("%w: content id %q", errBadRequest, chi.URLParam(r, "id"))
	}
	l, err := c.deps.Table.Parse(chi.URLParam(r, "locale"))
	if err != nil {
		return 0, "", in, err
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		return 0, "", in, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return id, l, in, nil
}
