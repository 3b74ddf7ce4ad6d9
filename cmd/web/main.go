// cmd/web/main.go
//
// mise – HTTP entry point.
//
// Start-up
// --------
//
//  1. Load configuration (.env → conf/global.yaml → MISE_* env), resolving
//     vault: references when VAULT_ADDR is set.
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the GeoIP database when configured.
//
//  4. Open the content store: MySQL when a DSN is set, otherwise the
//     in-memory store seeded with demo recipes.  Either way it is wrapped in
//     the read-through cache.
//
//  5. Build the handler chain (see app.go) and serve until SIGINT/SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/yanizio/mise/internal/config"
	"github.com/yanizio/mise/internal/content"
	"github.com/yanizio/mise/internal/content/sqlstore"
	"github.com/yanizio/mise/internal/database"
	"github.com/yanizio/mise/internal/logger"
	"github.com/yanizio/mise/internal/requestinfo"
	"github.com/yanizio/mise/internal/server"
	"github.com/yanizio/mise/internal/vault"

	_ "github.com/yanizio/mise/components/recipes"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	migrate := flag.Bool("migrate", false, "apply component migrations before serving")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	var secrets config.SecretResolver
	if vault.Enabled() {
		vc, err := vault.New(ctx, vault.Options{Renew: true})
		if err != nil {
			log.Fatalf("vault: %v", err)
		}
		secrets = vc
	}
	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	logOut, err := logger.New(cfg.Paths.Root, runningInTTY(), cfg.Log.Level)
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 3.  GeoIP (optional) ────────────────────────────────────────────
	//
	if err := requestinfo.InitGeo(cfg.GeoIP.Path); err != nil {
		logOut.Warnw("geoip disabled", "path", cfg.GeoIP.Path, "err", err)
	}
	defer requestinfo.CloseGeo()

	//
	// ── 4.  Content store ───────────────────────────────────────────────
	//
	var (
		store    content.Store
		migrator func(context.Context, []string) error
	)
	if cfg.Database.DSN != "" {
		logOut.Info("connecting to content DB …")
		db, err := database.OpenWithOptions(ctx, cfg.Database.ResolvedDSN(), cfg.Database.MaxOpen, cfg.Database.MaxIdle)
		if err != nil {
			logOut.Fatalw("connect content DB", "err", err)
		}
		defer db.Close()
		logOut.Info("content DB online")

		store = sqlstore.New(db)
		migrator = func(ctx context.Context, stmts []string) error {
			return database.Migrate(ctx, db, stmts)
		}
	} else {
		mem := content.NewMemoryStore()
		if err := seedDemo(ctx, mem); err != nil {
			logOut.Fatalw("seed demo content", "err", err)
		}
		logOut.Warn("no database DSN; serving in-memory demo content")
		store = mem
	}
	store = content.NewCachedStore(store, cfg.Cache.Size, cfg.Cache.TTL)

	//
	// ── 5.  Handler chain and server ────────────────────────────────────
	//
	if !*migrate {
		migrator = nil
	}
	h, err := newApp(ctx, cfg, store, migrator)
	if err != nil {
		logOut.Fatalw("build app", "err", err)
	}

	if err := server.Run(ctx, server.New(cfg.HTTP.ListenAddr, h)); err != nil {
		zap.L().Fatal("http server", zap.Error(err))
	}
	logOut.Info("bye")
}
