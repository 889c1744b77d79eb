package service

import (
	"context"
	"sort"

	"github.com/ahmetb/go-linq/v3"
	"github.com/samber/lo"

	"github.com/traceyourstack/tys-go/internal/model"
	"github.com/traceyourstack/tys-go/internal/repo"
)

type allLister interface {
	ListAll(ctx context.Context) ([]*model.Report, error)
}

// Aggregator produces the grouped presentation view of every stored report.
// It is a pure projection: it never mutates flushed state or removes rows,
// and it is independent of any flush run.
type Aggregator struct {
	queue allLister
}

func NewAggregator(queue *repo.Report) *Aggregator {
	return &Aggregator{queue: queue}
}

type typeStats struct {
	occurrences         int
	recentCrashTime     int64
	lessRecentCrashTime int64
	minAppVersion       string
	maxAppVersion       string
}

// LoadGroupedReports groups all stored reports by app version, versions
// descending, reports within a group by crash time descending. Every summary
// carries statistics computed over all same-type reports regardless of the
// version group it sits in. An empty queue yields an empty slice.
func (a *Aggregator) LoadGroupedReports(ctx context.Context) ([]*model.GroupedReports, error) {
	reports, err := a.queue.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return []*model.GroupedReports{}, nil
	}

	// per-type statistics over the full, unordered set
	statsByType := make(map[string]*typeStats)
	var typeGroups []linq.Group
	linq.From(reports).
		GroupByT(
			func(report *model.Report) string { return report.ExceptionType },
			func(report *model.Report) *model.Report { return report }).
		ToSlice(&typeGroups)
	for _, typeGroup := range typeGroups {
		sameType := make([]*model.Report, 0, len(typeGroup.Group))
		for _, el := range typeGroup.Group {
			sameType = append(sameType, el.(*model.Report))
		}

		stats := &typeStats{
			occurrences: len(sameType),
			recentCrashTime: lo.MaxBy(sameType, func(a, b *model.Report) bool {
				return a.CrashTime > b.CrashTime
			}).CrashTime,
			minAppVersion: lo.MinBy(sameType, func(a, b *model.Report) bool {
				return model.CompareVersionStrings(a.AppVersion, b.AppVersion) < 0
			}).AppVersion,
			maxAppVersion: lo.MaxBy(sameType, func(a, b *model.Report) bool {
				return model.CompareVersionStrings(a.AppVersion, b.AppVersion) > 0
			}).AppVersion,
		}
		// the least recent crash time only exists once a type repeats
		if len(sameType) > 1 {
			stats.lessRecentCrashTime = lo.MinBy(sameType, func(a, b *model.Report) bool {
				return a.CrashTime < b.CrashTime
			}).CrashTime
		}
		statsByType[typeGroup.Key.(string)] = stats
	}

	// version groups, ordered by parsed version descending
	var versionGroups []linq.Group
	linq.From(reports).
		GroupByT(
			func(report *model.Report) string { return report.AppVersion },
			func(report *model.Report) *model.Report { return report }).
		ToSlice(&versionGroups)
	sort.Slice(versionGroups, func(i, j int) bool {
		return model.CompareVersionStrings(versionGroups[i].Key.(string), versionGroups[j].Key.(string)) > 0
	})

	grouped := make([]*model.GroupedReports, 0, len(versionGroups))
	for _, versionGroup := range versionGroups {
		version, err := model.ParseVersion(versionGroup.Key.(string))
		if err != nil {
			return nil, err
		}

		summaries := make([]*model.ReportSummary, 0, len(versionGroup.Group))
		for _, el := range versionGroup.Group {
			report := el.(*model.Report)
			stats := statsByType[report.ExceptionType]
			summaries = append(summaries, &model.ReportSummary{
				ExceptionType:       report.ExceptionType,
				Message:             report.Message,
				StackTrace:          report.StackTrace,
				HelpLink:            report.HelpLink,
				HResult:             report.HResult,
				AppVersion:          version,
				CrashTime:           report.CrashTime,
				Occurrences:         stats.occurrences,
				RecentCrashTime:     stats.recentCrashTime,
				LessRecentCrashTime: stats.lessRecentCrashTime,
				MinAppVersion:       stats.minAppVersion,
				MaxAppVersion:       stats.maxAppVersion,
			})
		}
		sort.Slice(summaries, func(i, j int) bool {
			return summaries[i].CrashTime > summaries[j].CrashTime
		})

		grouped = append(grouped, &model.GroupedReports{
			Group: &model.VersionGroup{
				AppVersion: version,
				Reports:    len(summaries),
			},
			Summaries: summaries,
		})
	}

	return grouped, nil
}
