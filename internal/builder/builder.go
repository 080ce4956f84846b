// Package builder assembles the session manager and its dependencies from the
// application configuration.
package builder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/quietpawn/gambit/internal/archive"
	"github.com/quietpawn/gambit/internal/config"
	"github.com/quietpawn/gambit/internal/engine"
	"github.com/quietpawn/gambit/internal/provider"
	"github.com/quietpawn/gambit/internal/session"
	"github.com/quietpawn/gambit/internal/store"
)

const builtinEngineName = "builtin-negamax"

// Deps holds the assembled components plus the handles that need closing on
// shutdown.
type Deps struct {
	Manager    *session.Manager
	Store      store.Store
	Repo       archive.Repository
	EngineName string

	db         *sql.DB
	redisStore *store.RedisStore
}

// New builds every component the game loop needs. An unavailable external
// engine is not an error; the built-in search takes over.
func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	deps := &Deps{EngineName: builtinEngineName}

	var primary provider.Source
	info, err := engine.Probe(ctx, cfg.StockfishPath, logger)
	switch {
	case err == nil:
		bridge, berr := engine.NewBridge(info, logger)
		if berr != nil {
			return nil, fmt.Errorf("init engine bridge: %w", berr)
		}
		primary = bridge
		deps.EngineName = info.Name
		if deps.EngineName == "" {
			deps.EngineName = "stockfish"
		}
	case errors.Is(err, engine.ErrUnavailable):
		logger.Warn("no external engine found, using built-in search")
	default:
		return nil, fmt.Errorf("probe engine: %w", err)
	}

	selector, err := provider.NewSelector(primary, provider.Fallback{}, logger)
	if err != nil {
		return nil, fmt.Errorf("init move selector: %w", err)
	}

	switch cfg.StoreBackend {
	case "redis":
		rs, rerr := store.NewRedisStore(cfg.RedisURL, cfg.RedisKey,
			time.Duration(cfg.RedisTTLSec)*time.Second, logger)
		if rerr != nil {
			return nil, fmt.Errorf("init redis store: %w", rerr)
		}
		deps.Store = rs
		deps.redisStore = rs
	default:
		fs, ferr := store.NewFileStore(cfg.SavePath, logger)
		if ferr != nil {
			return nil, fmt.Errorf("init file store: %w", ferr)
		}
		deps.Store = fs
	}

	if cfg.DatabaseURL != "" {
		db, derr := openArchiveDB(ctx, cfg.DatabaseURL)
		if derr != nil {
			_ = deps.Close()
			return nil, derr
		}
		deps.db = db
		deps.Repo = archive.NewRepository(db)
	} else {
		deps.Repo = archive.NewMemoryRepository()
	}

	depth, ok := session.DepthForLevel(cfg.Difficulty)
	if !ok {
		_ = deps.Close()
		return nil, fmt.Errorf("unknown difficulty %q", cfg.Difficulty)
	}

	mgr, err := session.NewManager(selector, deps.Store, deps.Repo, session.Config{
		HumanColor:  cfg.HumanColor,
		AIEnabled:   cfg.AIEnabled,
		SearchDepth: depth,
		EngineName:  deps.EngineName,
	}, logger)
	if err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("init session manager: %w", err)
	}
	deps.Manager = mgr

	return deps, nil
}

// Close releases the database pool and the redis connection if they were
// opened.
func (d *Deps) Close() error {
	var err error
	if d.db != nil {
		err = multierr.Append(err, d.db.Close())
	}
	if d.redisStore != nil {
		err = multierr.Append(err, d.redisStore.Close())
	}
	return err
}

func openArchiveDB(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := archive.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure archive schema: %w", err)
	}
	return db, nil
}
