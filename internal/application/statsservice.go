package application

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ericfisherdev/releasedash/internal/domain/model"
	"github.com/ericfisherdev/releasedash/internal/domain/port/driven"
)

// weekdayLabels maps the 0=Sunday..6=Saturday index to its display label.
var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// StatsService answers aggregate queries over the persisted release set. It
// re-reads the full set on every query, so results always reflect the latest
// completed ingestion run. All aggregates are deterministic: identical
// queries over an unchanged set produce identical payloads.
type StatsService struct {
	store driven.RecordStore
}

// NewStatsService creates a new StatsService backed by the given record store.
func NewStatsService(store driven.RecordStore) *StatsService {
	return &StatsService{store: store}
}

// Query loads the persisted record set, applies the date and repository
// filters, and computes every aggregate view over the filtered result. An
// empty or absent set yields a fully formed payload with empty slices and
// zeroed statistics, never an error.
func (s *StatsService) Query(ctx context.Context, filter model.QueryFilter) (*model.AggregatePayload, error) {
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading persisted records: %w", err)
	}

	filtered := applyFilter(records, filter)
	repositories := repositoriesOf(filtered)

	return &model.AggregatePayload{
		MonthlyData:     monthlyData(filtered, repositories),
		WeekdayData:     weekdayData(filtered),
		ReleaseTypeData: releaseTypeData(filtered),
		Statistics:      statistics(filtered),
		Repositories:    repositories,
	}, nil
}

// applyFilter narrows the record set: an inclusive publishedAt window when
// any date bound is present, then an exact repository match unless the
// filter carries the "all" sentinel or no repository at all. A missing start
// bound is open-ended toward the past, a missing end bound defaults to now.
// Undated records cannot satisfy a date bound and are dropped from
// date-filtered results.
func applyFilter(records []model.ReleaseRecord, filter model.QueryFilter) []model.ReleaseRecord {
	end := filter.EndDate
	if filter.HasDateBound() && end.IsZero() {
		end = time.Now().UTC()
	}

	out := make([]model.ReleaseRecord, 0, len(records))
	for _, rec := range records {
		if filter.HasDateBound() {
			if !rec.HasPublishDate() {
				continue
			}
			if rec.PublishedAt.Before(filter.StartDate) || rec.PublishedAt.After(end) {
				continue
			}
		}
		if filter.FiltersRepository() && rec.Repository != filter.Repository {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// repositoriesOf returns the sorted distinct repository names present in the
// filtered set. The list reflects the filtered slice, not the configured
// universe, so a repository filter narrows it to at most one entry.
func repositoriesOf(records []model.ReleaseRecord) []string {
	seen := make(map[string]bool, len(records))
	out := make([]string, 0, len(records))
	for _, rec := range records {
		if seen[rec.Repository] {
			continue
		}
		seen[rec.Repository] = true
		out = append(out, rec.Repository)
	}
	sort.Strings(out)
	return out
}

// monthlyData buckets dated records by calendar month and repository. Rows
// cover the continuous month range between the earliest and latest dated
// record, so a month without releases still appears, zero-filled for every
// repository column. Undated records contribute nothing here.
func monthlyData(records []model.ReleaseRecord, repositories []string) []model.MonthlyCount {
	counts := make(map[string]map[string]int)
	minIdx, maxIdx := -1, -1

	for _, rec := range records {
		if !rec.HasPublishDate() {
			continue
		}
		key := rec.MonthKey()
		if counts[key] == nil {
			counts[key] = make(map[string]int)
		}
		counts[key][rec.Repository]++

		idx := rec.PublishedYear*12 + rec.PublishedMonth - 1
		if minIdx == -1 || idx < minIdx {
			minIdx = idx
		}
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	out := make([]model.MonthlyCount, 0, len(counts))
	if minIdx == -1 {
		return out
	}

	for idx := minIdx; idx <= maxIdx; idx++ {
		key := fmt.Sprintf("%04d-%02d", idx/12, idx%12+1)
		row := model.MonthlyCount{
			Month:  key,
			Counts: make(map[string]int, len(repositories)),
		}
		for _, repo := range repositories {
			row.Counts[repo] = counts[key][repo]
		}
		out = append(out, row)
	}
	return out
}

// weekdayData counts dated records per weekday and emits rows in index order
// for the weekdays that actually occur in the filtered set.
func weekdayData(records []model.ReleaseRecord) []model.WeekdayCount {
	var counts [7]int
	for _, rec := range records {
		if rec.Weekday < 0 || rec.Weekday > 6 {
			continue
		}
		counts[rec.Weekday]++
	}

	out := make([]model.WeekdayCount, 0, 7)
	for i, label := range weekdayLabels {
		if counts[i] == 0 {
			continue
		}
		out = append(out, model.WeekdayCount{Name: label, Value: counts[i]})
	}
	return out
}

// releaseTypeData returns the three type buckets in fixed order. The
// predicates are independent: a draft prerelease counts in both of its
// buckets, so the values need not sum to the total.
func releaseTypeData(records []model.ReleaseRecord) []model.ReleaseTypeCount {
	var ordinary, prerelease, draft int
	for _, rec := range records {
		if !rec.IsPrerelease && !rec.IsDraft {
			ordinary++
		}
		if rec.IsPrerelease {
			prerelease++
		}
		if rec.IsDraft {
			draft++
		}
	}
	return []model.ReleaseTypeCount{
		{Name: "ordinary", Value: ordinary},
		{Name: "prerelease", Value: prerelease},
		{Name: "draft", Value: draft},
	}
}

// statistics summarizes the filtered set. The average release interval is the
// dated records' publish-time span in days divided by the gap count, rounded
// to the nearest whole day; fewer than two dated records yield 0.
func statistics(records []model.ReleaseRecord) model.Statistics {
	stats := model.Statistics{TotalReleases: len(records)}

	dates := make([]time.Time, 0, len(records))
	for _, rec := range records {
		if rec.IsPrerelease {
			stats.PreReleases++
		}
		if rec.HasPublishDate() {
			dates = append(dates, rec.PublishedAt)
		}
	}

	if len(dates) < 2 {
		return stats
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	spanDays := dates[len(dates)-1].Sub(dates[0]).Hours() / 24
	stats.AverageReleaseInterval = int(math.Round(spanDays / float64(len(dates)-1)))
	return stats
}
