package model

import "time"

// RepositoryAll is the repository filter sentinel meaning "no filter".
const RepositoryAll = "all"

// QueryFilter narrows the persisted record set before aggregation.
// Zero-value date bounds are unbounded; an empty or RepositoryAll repository
// matches every repository.
type QueryFilter struct {
	StartDate  time.Time
	EndDate    time.Time
	Repository string
}

// HasDateBound reports whether at least one date bound is set.
func (f QueryFilter) HasDateBound() bool {
	return !f.StartDate.IsZero() || !f.EndDate.IsZero()
}

// FiltersRepository reports whether the filter restricts to a single repository.
func (f QueryFilter) FiltersRepository() bool {
	return f.Repository != "" && f.Repository != RepositoryAll
}

// MonthlyCount is one row of the monthly view: a "YYYY-MM" month key plus one
// release count per repository present in the filtered set. Repositories
// without a release that month carry an explicit zero.
type MonthlyCount struct {
	Month  string
	Counts map[string]int
}

// WeekdayCount is the release count for one weekday, labeled for display.
type WeekdayCount struct {
	Name  string
	Value int
}

// ReleaseTypeCount is the release count for one release-type bucket.
// The three buckets are computed by independent predicates -- a release that
// is both draft and prerelease is counted in both buckets.
type ReleaseTypeCount struct {
	Name  string
	Value int
}

// Statistics are the headline numbers for the filtered set.
// AverageReleaseInterval is whole days between consecutive dated releases,
// averaged across the filtered span; 0 when fewer than two dated records.
type Statistics struct {
	TotalReleases          int
	PreReleases            int
	AverageReleaseInterval int
}

// AggregatePayload is the complete query result: the four aggregate views
// plus the distinct repositories present in the filtered set. It is computed
// fresh per query and never persisted. All slices are non-nil so the payload
// serializes to empty arrays rather than nulls.
type AggregatePayload struct {
	MonthlyData     []MonthlyCount
	WeekdayData     []WeekdayCount
	ReleaseTypeData []ReleaseTypeCount
	Statistics      Statistics
	Repositories    []string
}
