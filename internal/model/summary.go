package model

// ReportSummary is the presentation view of one stored report, annotated with
// statistics over every report sharing its exception type.
type ReportSummary struct {
	ExceptionType string
	Message       string
	StackTrace    string
	HelpLink      string
	HResult       int
	AppVersion    Version
	CrashTime     int64

	// Occurrences is the total number of stored reports with this exact
	// exception type, across all app versions.
	Occurrences int

	// RecentCrashTime is the most recent crash time among same-type reports.
	RecentCrashTime int64

	// LessRecentCrashTime is the least recent crash time among same-type
	// reports; zero when Occurrences == 1.
	LessRecentCrashTime int64

	MinAppVersion string
	MaxAppVersion string
}

// VersionGroup is the header of one app-version group of report summaries.
type VersionGroup struct {
	AppVersion Version
	Reports    int
}

// GroupedReports pairs a version group header with its summaries, ordered by
// crash time descending.
type GroupedReports struct {
	Group     *VersionGroup
	Summaries []*ReportSummary
}
