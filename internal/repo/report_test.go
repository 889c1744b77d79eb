package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traceyourstack/tys-go/internal/config"
	"github.com/traceyourstack/tys-go/internal/infra"
	"github.com/traceyourstack/tys-go/internal/model"
	"github.com/traceyourstack/tys-go/internal/pkg/tyserr"
)

func newTestRepo(t *testing.T) *Report {
	t.Helper()
	cfg := &config.Config{
		DatabasePath: filepath.Join(t.TempDir(), "queue", "ExceptionsQueueDatabase.db"),
	}
	return NewReport(infra.NewSQLite(cfg))
}

func TestListUnflushedOrdering(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	for _, crashTime := range []int64{300, 100, 200} {
		report := model.NewReport("System.Exception", "boom", 0, "", "", "1.0", crashTime)
		require.NoError(t, r.Insert(ctx, report))
	}

	pending, err := r.ListUnflushed(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, []int64{100, 200, 300}, []int64{
		pending[0].CrashTime, pending[1].CrashTime, pending[2].CrashTime,
	})
}

func TestListUnflushedTieBreaksByUid(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	first := model.NewReport("A", "", 0, "", "", "1.0", 100)
	second := model.NewReport("B", "", 0, "", "", "1.0", 100)
	require.NoError(t, r.Insert(ctx, first))
	require.NoError(t, r.Insert(ctx, second))

	pending, err := r.ListUnflushed(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "A", pending[0].ExceptionType)
	assert.Equal(t, "B", pending[1].ExceptionType)
}

func TestMarkFlushed(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	report := model.NewReport("System.Exception", "boom", 0, "", "", "1.0", 100)
	require.NoError(t, r.Insert(ctx, report))

	require.NoError(t, r.MarkFlushed(ctx, report.Uid))

	// idempotent: a second call neither errors nor reverts the flag
	require.NoError(t, r.MarkFlushed(ctx, report.Uid))

	pending, err := r.ListUnflushed(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Flushed)
}

func TestMarkFlushedUnknownUid(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	err := r.MarkFlushed(ctx, "no-such-uid")
	assert.True(t, errors.Is(err, tyserr.ErrNotFound))
}

func TestEmptyMessageStaysAbsent(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	report := model.NewReport("System.Exception", "", 0, "", "", "1.0", 100)
	require.NoError(t, r.Insert(ctx, report))

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].Message)
	assert.Empty(t, all[0].HelpLink)
}

func TestStoreUnavailable(t *testing.T) {
	ctx := context.Background()

	// a regular file where the database directory should be
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := &config.Config{DatabasePath: filepath.Join(blocker, "sub", "queue.db")}
	r := NewReport(infra.NewSQLite(cfg))

	err := r.Insert(ctx, model.NewReport("A", "", 0, "", "", "1.0", 1))
	assert.True(t, errors.Is(err, tyserr.ErrStoreUnavailable))

	_, err = r.ListUnflushed(ctx)
	assert.True(t, errors.Is(err, tyserr.ErrStoreUnavailable))
}
