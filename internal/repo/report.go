package repo

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/traceyourstack/tys-go/internal/infra"
	"github.com/traceyourstack/tys-go/internal/model"
	"github.com/traceyourstack/tys-go/internal/pkg/tyserr"
	"github.com/traceyourstack/tys-go/internal/repo/selector"
)

// Report is the durable queue of exception reports. Reports are inserted
// once, flipped to flushed at most once, and never deleted.
type Report struct {
	db  *infra.SQLite
	sel selector.S[model.Report]
}

func NewReport(db *infra.SQLite) *Report {
	return &Report{db: db, sel: selector.New[model.Report](db)}
}

func (r *Report) Insert(ctx context.Context, report *model.Report) error {
	db, err := r.db.DB(ctx)
	if err != nil {
		return tyserr.ErrStoreUnavailable.Msg("%s", err)
	}

	_, err = db.NewInsert().
		Model(report).
		Exec(ctx)
	if err != nil {
		return tyserr.ErrStoreUnavailable.Msg("failed to insert report: %s", err)
	}

	return nil
}

// MarkFlushed flips the flushed flag for the given uid. Calling it again for
// an already-flushed report is a no-op; an absent uid is a logic error and
// reported as ErrNotFound.
func (r *Report) MarkFlushed(ctx context.Context, uid string) error {
	db, err := r.db.DB(ctx)
	if err != nil {
		return tyserr.ErrStoreUnavailable.Msg("%s", err)
	}

	res, err := db.NewUpdate().
		Model((*model.Report)(nil)).
		Set("flushed = ?", true).
		Where("uid = ?", uid).
		Exec(ctx)
	if err != nil {
		return tyserr.ErrStoreUnavailable.Msg("failed to mark report as flushed: %s", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return tyserr.ErrStoreUnavailable.Msg("failed to read affected rows: %s", err)
	}
	if affected == 0 {
		return tyserr.ErrNotFound
	}

	return nil
}

// ListUnflushed returns the pending reports oldest first, so uploads preserve
// chronological order. Crash-time ties resolve in uid order, which is
// generation order.
func (r *Report) ListUnflushed(ctx context.Context) ([]*model.Report, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("flushed = ?", false).Order("crash_time ASC", "uid ASC")
	})
}

// ListAll returns every stored report regardless of flushed state.
func (r *Report) ListAll(ctx context.Context) ([]*model.Report, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q
	})
}
