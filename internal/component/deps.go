// internal/component/deps.go
package component

import (
	"time"

	"github.com/yanizio/mise/internal/content"
	"github.com/yanizio/mise/internal/handle"
	"github.com/yanizio/mise/internal/locale"
	"github.com/yanizio/mise/internal/resolver"
	"github.com/yanizio/mise/internal/seo"
)

// Deps are the process-wide services handed to components during Init.
type Deps struct {
	Store     content.Store
	Table     *locale.Table
	Handles   *handle.Generator
	Resolver  *resolver.Resolver
	Links     *seo.Builder
	BaseURL   string
	ResolveIn time.Duration // per-request budget for cross-locale lookups

	// PreferenceCookie, when set, remembers explicit locale switches.
	PreferenceCookie string
}
