// internal/config/model.go
//
// Typed configuration model for mise.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                        – dotenv values,
//   • `conf/global.yaml`                     – primary static file,
//   • `MISE_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through a SecretResolver *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal and defaulting; the app
// fails fast if required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Locale codes stay plain strings here; cmd/web turns them into a
//     locale.Table, which performs the structural checks.

package config

import (
	"fmt"
	"strings"
	"time"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host, port,
// or flags without touching Vault.  It may contain one `%s` verb where the
// password goes.  The *secret* (`Password`) normally arrives as a
// `vault:` reference.  An empty DSN selects the in-memory store.
type Database struct {
	DSN      string `koanf:"dsn"       validate:"omitempty,dsn_template"`
	Password string `koanf:"password"`
	MaxOpen  int    `koanf:"max_open"  validate:"omitempty,min=1"`
	MaxIdle  int    `koanf:"max_idle"  validate:"omitempty,min=0"`
}

// ResolvedDSN substitutes Password into the template.
func (d Database) ResolvedDSN() string {
	if strings.Contains(d.DSN, "%s") {
		return fmt.Sprintf(d.DSN, d.Password)
	}
	return d.DSN
}

//
// Log section
//

type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Locales section
//

// Locales is the static locale table.  Aliases maps locale → canonical
// segment → localized alias; missing entries mean "same as canonical".
type Locales struct {
	Default   string                       `koanf:"default"   validate:"required"`
	Supported []string                     `koanf:"supported" validate:"required,min=1,dive,required"`
	Segments  []string                     `koanf:"segments"  validate:"dive,required"`
	Aliases   map[string]map[string]string `koanf:"aliases"`
}

//
// Routing section
//

type Routing struct {
	PassthroughPrefixes []string `koanf:"passthrough_prefixes" validate:"dive,startswith=/"`
	RedirectStatus      int      `koanf:"redirect_status"      validate:"omitempty,oneof=301 302 303 307 308"`
	PreferenceCookie    string   `koanf:"preference_cookie"`
}

//
// Handles / Resolver / Cache sections
//

type Handles struct {
	MaxAttempts   int `koanf:"max_attempts"   validate:"omitempty,min=1,max=10000"`
	InsertRetries int `koanf:"insert_retries" validate:"omitempty,min=0,max=50"`
}

type Resolver struct {
	Timeout time.Duration `koanf:"timeout"`
}

type Cache struct {
	Size int           `koanf:"size" validate:"omitempty,min=1"`
	TTL  time.Duration `koanf:"ttl"`
}

//
// Site / GeoIP sections
//

type Site struct {
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
}

// GeoIP points at an optional MaxMind City database.  Empty disables
// geo lookups.
type GeoIP struct {
	Path string `koanf:"path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.  The loader
// discovers `Root` (repo root or MISE_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // MISE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Log      Log      `koanf:"log"`
	Locales  Locales  `koanf:"locales"`
	Routing  Routing  `koanf:"routing"`
	Handles  Handles  `koanf:"handles"`
	Resolver Resolver `koanf:"resolver"`
	Cache    Cache    `koanf:"cache"`
	Site     Site     `koanf:"site"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}

// applyDefaults fills zero values the YAML left out.
func applyDefaults(c *Config) {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.MaxOpen == 0 {
		c.Database.MaxOpen = 15
	}
	if c.Database.MaxIdle == 0 {
		c.Database.MaxIdle = 5
	}
	if c.Routing.RedirectStatus == 0 {
		c.Routing.RedirectStatus = 307
	}
	if c.Handles.MaxAttempts == 0 {
		c.Handles.MaxAttempts = 100
	}
	if c.Handles.InsertRetries == 0 {
		c.Handles.InsertRetries = 5
	}
	if c.Resolver.Timeout == 0 {
		c.Resolver.Timeout = 250 * time.Millisecond
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = 4096
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
}
