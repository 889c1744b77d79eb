package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traceyourstack/tys-go/internal/model"
)

type staticLister struct {
	reports []*model.Report
}

func (l staticLister) ListAll(ctx context.Context) ([]*model.Report, error) {
	return l.reports, nil
}

func TestLoadGroupedReportsEmptyQueue(t *testing.T) {
	a := &Aggregator{queue: staticLister{}}

	grouped, err := a.LoadGroupedReports(context.Background())
	require.NoError(t, err)
	assert.Empty(t, grouped)
}

func TestLoadGroupedReports(t *testing.T) {
	a := &Aggregator{queue: staticLister{reports: []*model.Report{
		model.NewReport("A", "", 0, "", "", "1.0", 10),
		model.NewReport("A", "", 0, "", "", "1.1", 20),
		model.NewReport("B", "", 0, "", "", "1.0", 15),
	}}}

	grouped, err := a.LoadGroupedReports(context.Background())
	require.NoError(t, err)
	require.Len(t, grouped, 2)

	// version groups descending: 1.1 first with one report, then 1.0 with two
	assert.Equal(t, model.Version{Major: 1, Minor: 1, Build: 0, Revision: 0}, grouped[0].Group.AppVersion)
	assert.Equal(t, 1, grouped[0].Group.Reports)
	assert.Equal(t, model.Version{Major: 1, Minor: 0, Build: 0, Revision: 0}, grouped[1].Group.AppVersion)
	assert.Equal(t, 2, grouped[1].Group.Reports)

	// within the 1.0 group, reports by crash time descending
	require.Len(t, grouped[1].Summaries, 2)
	assert.Equal(t, int64(15), grouped[1].Summaries[0].CrashTime)
	assert.Equal(t, int64(10), grouped[1].Summaries[1].CrashTime)

	// type A statistics span both version groups
	typeA := grouped[1].Summaries[1]
	require.Equal(t, "A", typeA.ExceptionType)
	assert.Equal(t, 2, typeA.Occurrences)
	assert.Equal(t, int64(20), typeA.RecentCrashTime)
	assert.Equal(t, int64(10), typeA.LessRecentCrashTime)
	assert.Equal(t, "1.0", typeA.MinAppVersion)
	assert.Equal(t, "1.1", typeA.MaxAppVersion)

	// a type seen once has no less-recent crash time
	typeB := grouped[1].Summaries[0]
	require.Equal(t, "B", typeB.ExceptionType)
	assert.Equal(t, 1, typeB.Occurrences)
	assert.Equal(t, int64(15), typeB.RecentCrashTime)
	assert.Zero(t, typeB.LessRecentCrashTime)
}
