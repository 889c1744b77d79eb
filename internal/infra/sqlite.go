package infra

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/traceyourstack/tys-go/internal/config"
	"github.com/traceyourstack/tys-go/internal/model"
)

// SQLite owns the exceptions queue database handle. The handle is opened
// lazily on first use and then shared by every caller in the process; a
// failed open is not cached, so a later operation retries it.
type SQLite struct {
	config *config.Config

	mu sync.Mutex
	db *bun.DB
}

func NewSQLite(config *config.Config) *SQLite {
	return &SQLite{config: config}
}

// DB returns the shared database handle, opening the backing file and
// creating the reports table on the first call.
func (s *SQLite) DB(ctx context.Context) (*bun.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	s.db = db
	return db, nil
}

func (s *SQLite) open(ctx context.Context) (*bun.DB, error) {
	path := s.config.DatabasePath
	dsn := "file:" + path
	if path == ":memory:" {
		dsn = "file::memory:?cache=shared"
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open exceptions database")
	}

	// The queue contract is a single shared connection per process.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if s.config.BunDebugVerbose {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	pingCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping exceptions database")
	}

	if _, err := db.NewCreateTable().
		Model((*model.Report)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create reports table")
	}

	return db, nil
}
