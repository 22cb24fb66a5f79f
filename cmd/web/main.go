package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/myrjola/botornot/internal/catalog"
	"github.com/myrjola/botornot/internal/challenge"
	"github.com/myrjola/botornot/internal/envstruct"
	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/ledger"
	"github.com/myrjola/botornot/internal/logging"
	"github.com/myrjola/botornot/internal/pprofserver"
	"github.com/myrjola/botornot/internal/puzzle"
	"github.com/myrjola/botornot/internal/random"
	"github.com/myrjola/botornot/internal/sqlite"
	"github.com/redis/go-redis/v9"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	challenges     *challenge.Service
	assets         *assetServer
	// checkCategoryBlind makes puzzle pages fail instead of rendering markup that names a category.
	checkCategoryBlind bool
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"BOTORNOT_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"BOTORNOT_SQLITE_URL" envDefault:"./botornot.sqlite"`
	// Catalog is a JSON or YAML file path or an http(s) URL. Empty selects the built-in catalog.
	Catalog string `env:"BOTORNOT_CATALOG" envDefault:""`
	// AssetsDir holds the item images named by the catalog.
	AssetsDir string `env:"BOTORNOT_ASSETS_DIR" envDefault:"./ui/static/images"`
	// AttemptWindow is the inactivity gap after which the attempt counter of a puzzle kind starts over.
	AttemptWindow time.Duration `env:"BOTORNOT_ATTEMPT_WINDOW" envDefault:"30s"`
	// LedgerBackend selects where attempts are kept: session, sqlite or redis.
	LedgerBackend string `env:"BOTORNOT_LEDGER_BACKEND" envDefault:"session"`
	RedisAddr     string `env:"BOTORNOT_REDIS_ADDR" envDefault:"localhost:6379"`
	// PprofAddr enables the pprof server when set, e.g. localhost:6060.
	PprofAddr       string        `env:"BOTORNOT_PPROF_ADDR" envDefault:""`
	SessionLifetime time.Duration `env:"BOTORNOT_SESSION_LIFETIME" envDefault:"12h"`
	// Seed makes puzzles reproducible when non-zero. Only meant for tests.
	Seed int `env:"BOTORNOT_SEED" envDefault:"0"`
	// CheckCategoryBlind verifies every rendered puzzle page.
	CheckCategoryBlind bool `env:"BOTORNOT_CHECK_CATEGORY_BLIND" envDefault:"true"`
}

var ErrUnknownLedgerBackend = errors.NewSentinel("unknown ledger backend")

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		err error
		cfg config
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	if cfg.PprofAddr != "" {
		pprofserver.Launch(ctx, cfg.PprofAddr, logger)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close database", errors.SlogError(closeErr))
		}
	}()

	sessionStore := sqlite3store.NewWithCleanupInterval(db.ReadWrite, time.Hour)
	defer sessionStore.StopCleanup()
	sessionManager := scs.New()
	sessionManager.Store = sessionStore
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	var store ledger.Store
	if store, err = newLedgerStore(ctx, cfg, db, sessionManager); err != nil {
		return errors.Wrap(err, "create ledger store")
	}

	sampler, err := newSampler(cfg.Seed)
	if err != nil {
		return errors.Wrap(err, "create sampler")
	}

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		challenges: challenge.NewService(
			catalog.NewSource(cfg.Catalog),
			sampler,
			ledger.New(store, cfg.AttemptWindow, logger),
			logger,
		),
		assets:             newAssetServer(cfg.AssetsDir),
		checkCategoryBlind: cfg.CheckCategoryBlind,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func newLedgerStore(
	ctx context.Context,
	cfg config,
	db *sqlite.Database,
	sessionManager *scs.SessionManager,
) (ledger.Store, error) {
	switch cfg.LedgerBackend {
	case "session":
		return ledger.NewSessionStore(sessionManager), nil
	case "sqlite":
		return ledger.NewSQLStore(db.ReadWrite, db.ReadOnly), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		go func() {
			<-ctx.Done()
			_ = client.Close()
		}()
		return ledger.NewRedisStore(client, cfg.AttemptWindow), nil
	default:
		return nil, errors.Wrap(ErrUnknownLedgerBackend, "select ledger backend",
			slog.String("backend", cfg.LedgerBackend))
	}
}

func newSampler(seed int) (*puzzle.Sampler, error) {
	if seed != 0 {
		return puzzle.NewSampler(random.NewSeededRand(uint64(seed))), nil //nolint:gosec // test seeds are positive.
	}
	rnd, err := random.NewRand()
	if err != nil {
		return nil, errors.Wrap(err, "seed random source")
	}
	return puzzle.NewSampler(rnd), nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	// A missing .env file is fine, the environment may be configured by other means.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failure loading .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
