package model

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// ReleaseRecord is one normalized release of a watched repository, flattened
// at ingestion time. Date-derived fields are computed exactly once from
// PublishedAt when the record is built and never recomputed at query time.
type ReleaseRecord struct {
	Repository  string // owner/name form
	TagName     string
	Name        string    // display name; may be empty
	CreatedAt   time.Time // zero when the source omitted it
	PublishedAt time.Time // zero for unpublished releases (drafts)

	// Derived from PublishedAt. Weekday follows the 0=Sunday .. 6=Saturday
	// convention; undated records carry WeekdayUnknown and zero date parts.
	PublishedYear  int
	PublishedMonth int // 1-12
	PublishedDay   int
	Weekday        int
	IsWeekend      bool

	IsDraft      bool
	IsPrerelease bool

	ReleaseNoteLength int // character count of the release body
	HasReleaseNote    bool
	DaysToPublish     int // floor days from CreatedAt to PublishedAt; negative allowed
}

// WeekdayUnknown marks records without a usable publish date.
const WeekdayUnknown = -1

// NewReleaseRecord builds a ReleaseRecord from raw release fields and computes
// every derived field. A zero publishedAt marks the record as undated: its
// date parts stay zero, Weekday becomes WeekdayUnknown, and downstream date
// math skips it.
func NewReleaseRecord(repository, tagName, name, body string, createdAt, publishedAt time.Time, draft, prerelease bool) ReleaseRecord {
	rec := ReleaseRecord{
		Repository:        repository,
		TagName:           tagName,
		Name:              name,
		CreatedAt:         createdAt,
		PublishedAt:       publishedAt,
		Weekday:           WeekdayUnknown,
		IsDraft:           draft,
		IsPrerelease:      prerelease,
		ReleaseNoteLength: utf8.RuneCountInString(body),
	}
	rec.HasReleaseNote = rec.ReleaseNoteLength > 0

	if !publishedAt.IsZero() {
		utc := publishedAt.UTC()
		rec.PublishedYear = utc.Year()
		rec.PublishedMonth = int(utc.Month())
		rec.PublishedDay = utc.Day()
		rec.Weekday = int(utc.Weekday())
		rec.IsWeekend = rec.Weekday == int(time.Sunday) || rec.Weekday == int(time.Saturday)
	}

	if !publishedAt.IsZero() && !createdAt.IsZero() {
		// Floor, not truncate: a release published before its tag was cut
		// (skewed clocks) yields a negative day count, not zero.
		rec.DaysToPublish = int(math.Floor(publishedAt.Sub(createdAt).Hours() / 24))
	}

	return rec
}

// HasPublishDate reports whether the date-derived fields are meaningful.
func (r ReleaseRecord) HasPublishDate() bool {
	return !r.PublishedAt.IsZero()
}

// MonthKey returns the zero-padded "YYYY-MM" grouping key for the publish
// month, or the empty string for undated records. Zero padding keeps
// lexicographic order chronological.
func (r ReleaseRecord) MonthKey() string {
	if !r.HasPublishDate() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", r.PublishedYear, r.PublishedMonth)
}
