// cmd/web/app.go
//
// Handler chain assembly, kept apart from main() so tests can drive the
// full stack without a listener.
//
// Middleware order (outermost first):
//
//	ForceHTTPS → Security → requestinfo.Enrich → locale router → AccessLog → mux
//
// AccessLog sits inside the router so it sees the negotiated locale.
package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/mise/internal/component"
	"github.com/yanizio/mise/internal/config"
	"github.com/yanizio/mise/internal/content"
	"github.com/yanizio/mise/internal/handle"
	"github.com/yanizio/mise/internal/locale"
	"github.com/yanizio/mise/internal/middleware"
	"github.com/yanizio/mise/internal/requestinfo"
	"github.com/yanizio/mise/internal/resolver"
	"github.com/yanizio/mise/internal/routing"
	"github.com/yanizio/mise/internal/seo"
)

// newTable converts the config block into a locale.Table.
func newTable(c config.Locales) (*locale.Table, error) {
	supported := make([]locale.Locale, len(c.Supported))
	for i, s := range c.Supported {
		supported[i] = locale.Locale(s)
	}
	aliases := make(map[locale.Locale]map[string]string, len(c.Aliases))
	for l, m := range c.Aliases {
		aliases[locale.Locale(l)] = m
	}
	return locale.NewTable(locale.Locale(c.Default), supported, c.Segments, aliases)
}

// newApp wires every component onto one chi mux.  migrate, when non-nil,
// receives each component's migrations before its routes are mounted.
func newApp(ctx context.Context, cfg *config.Config, store content.Store, migrate func(context.Context, []string) error) (http.Handler, error) {
	table, err := newTable(cfg.Locales)
	if err != nil {
		return nil, fmt.Errorf("locales: %w", err)
	}

	var prefs locale.PreferenceSource = locale.NoPreferences{}
	if cfg.Routing.PreferenceCookie != "" {
		prefs = locale.CookiePreference{Name: cfg.Routing.PreferenceCookie}
	}
	router := routing.New(table, routing.Options{
		PassthroughPrefixes: cfg.Routing.PassthroughPrefixes,
		RedirectStatus:      cfg.Routing.RedirectStatus,
		Preferences:         prefs,
	})

	deps := component.Deps{
		Store: store,
		Table: table,
		Handles: handle.NewGenerator(store, table, handle.Options{
			MaxAttempts:   cfg.Handles.MaxAttempts,
			InsertRetries: cfg.Handles.InsertRetries,
		}),
		Resolver:         resolver.New(store, table),
		Links:            seo.NewBuilder(table, store),
		BaseURL:          cfg.Site.BaseURL,
		ResolveIn:        cfg.Resolver.Timeout,
		PreferenceCookie: cfg.Routing.PreferenceCookie,
	}

	mux := chi.NewRouter()
	mux.Use(middleware.Security, requestinfo.Enrich, router.Middleware, middleware.AccessLog)

	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	for _, c := range component.All() {
		if ini, ok := c.(component.Initializer); ok {
			if err := ini.Init(deps); err != nil {
				return nil, fmt.Errorf("component %s: %w", c.Name(), err)
			}
		}
		if migrate != nil {
			if err := migrate(ctx, c.Migrations()); err != nil {
				return nil, fmt.Errorf("component %s: %w", c.Name(), err)
			}
		}
		mux.Mount("/", c.Routes())
		zap.L().Info("component mounted", zap.String("name", c.Name()))
	}

	return middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS, mux), nil
}
