package main

import (
	"context"
	"flag"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/backoffice/internal/auth"
	"github.com/JonMunkholm/backoffice/internal/config"
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/logging"
	"github.com/JonMunkholm/backoffice/internal/store"
	"github.com/JonMunkholm/backoffice/internal/store/memstore"
	"github.com/JonMunkholm/backoffice/internal/web"
)

// backend is the set of store capabilities the server needs.
type backend interface {
	core.ProductStore
	core.CategoryStore
	core.AuditStore
	auth.AdminChecker
	web.Pinger
}

// defaultCategories seed the in-memory store.
var defaultCategories = []core.Category{
	{ID: "cat-facial", Name: "Facial", Slug: "facial"},
	{ID: "cat-corporal", Name: "Corporal", Slug: "corporal"},
	{ID: "cat-capilar", Name: "Capilar", Slug: "capilar"},
}

func main() {
	memory := flag.Bool("memory", false, "use the in-memory store instead of PostgreSQL")
	grantAdmin := flag.String("grant-admin", "", "grant the admin role to `user_id` (PostgreSQL: then exit)")
	grantEmail := flag.String("grant-email", "", "email recorded with -grant-admin")
	newCategory := flag.String("create-category", "", "create a category `name` and exit (PostgreSQL only)")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		slog.Warn("failed to load .env file", "error", err)
	}
	if *memory {
		os.Setenv("DB_IN_MEMORY", "true")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"in_memory", cfg.Database.InMemory,
		"import_max_rows", cfg.Import.MaxRows,
		"import_max_file_size", cfg.Import.MaxFileSize,
	)

	ctx := context.Background()

	var db backend
	if cfg.Database.InMemory {
		slog.Warn("using in-memory store, data is lost on exit")
		mem := memstore.New(defaultCategories...)
		if *grantAdmin != "" {
			mem.GrantAdmin(*grantAdmin)
		}
		db = mem
	} else {
		pool, err := connect(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg := store.New(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			slog.Error("failed to apply schema", "error", err)
			os.Exit(1)
		}

		if *grantAdmin != "" {
			if err := pg.GrantAdmin(ctx, *grantAdmin, *grantEmail); err != nil {
				slog.Error("failed to grant admin", "user_id", *grantAdmin, "error", err)
				os.Exit(1)
			}
			slog.Info("admin granted", "user_id", *grantAdmin)
			return
		}
		if *newCategory != "" {
			c, err := pg.CreateCategory(ctx, *newCategory, "")
			if err != nil {
				slog.Error("failed to create category", "name", *newCategory, "error", core.FormatUserError(err))
				os.Exit(1)
			}
			slog.Info("category created", "id", c.ID, "slug", c.Slug)
			return
		}
		if n, err := pg.CountProducts(ctx); err == nil {
			slog.Info("catalog loaded", "products", n)
		}
		db = pg
	}

	service := core.NewService(db, db, db, core.WithMaxRows(cfg.Import.MaxRows))

	verifier := auth.NewTokenVerifier(cfg.Security.JWTSecret)
	guard := auth.NewGuard(verifier, db, cfg.Security.AdminCheckTimeout)

	server := web.NewServer(cfg, service, guard, db)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	if _, err := service.StartArchiveScheduler(jobCtx, core.ArchiveConfig{
		HotRetentionDays:      cfg.Archive.HotRetentionDays,
		ArchiveRetentionYears: cfg.Archive.ArchiveRetentionYears,
		BatchSize:             cfg.Archive.BatchSize,
		Schedule:              cfg.Archive.Schedule,
		RunOnStart:            cfg.Archive.RunOnStart,
	}); err != nil {
		slog.Error("failed to start archive scheduler", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// connect opens the pool with the configured limits and verifies it.
func connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
