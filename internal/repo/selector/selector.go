package selector

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/traceyourstack/tys-go/internal/infra"
	"github.com/traceyourstack/tys-go/internal/pkg/tyserr"
)

// S wraps the shared lazily-opened database handle with typed select
// helpers. Open failures surface as ErrStoreUnavailable, absence as
// ErrNotFound.
type S[T any] struct {
	DB *infra.SQLite
}

func New[T any](db *infra.SQLite) S[T] {
	return S[T]{
		DB: db,
	}
}

func (r S[T]) SelectOne(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) (*T, error) {
	db, err := r.DB.DB(ctx)
	if err != nil {
		return nil, tyserr.ErrStoreUnavailable.Msg("%s", err)
	}

	var model T
	err = fn(db.NewSelect().Model(&model)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tyserr.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return &model, nil
}

func (r S[T]) SelectMany(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) ([]*T, error) {
	db, err := r.DB.DB(ctx)
	if err != nil {
		return nil, tyserr.ErrStoreUnavailable.Msg("%s", err)
	}

	var model []*T
	err = fn(db.NewSelect().Model(&model)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tyserr.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return model, nil
}
