package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/releasedash/internal/domain/model"
)

func TestNewReleaseRecord_DateDerivations(t *testing.T) {
	tests := []struct {
		name        string
		publishedAt time.Time
		wantYear    int
		wantMonth   int
		wantDay     int
		wantWeekday int
		wantWeekend bool
	}{
		{
			name:        "sunday",
			publishedAt: time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC),
			wantYear:    2024, wantMonth: 3, wantDay: 10,
			wantWeekday: 0, wantWeekend: true,
		},
		{
			name:        "wednesday",
			publishedAt: time.Date(2024, 3, 13, 9, 30, 0, 0, time.UTC),
			wantYear:    2024, wantMonth: 3, wantDay: 13,
			wantWeekday: 3, wantWeekend: false,
		},
		{
			name:        "saturday",
			publishedAt: time.Date(2024, 3, 16, 23, 59, 59, 0, time.UTC),
			wantYear:    2024, wantMonth: 3, wantDay: 16,
			wantWeekday: 6, wantWeekend: true,
		},
		{
			name: "non-utc timestamp normalizes to utc parts",
			// 23:00 on Saturday at UTC-3 is 02:00 Sunday in UTC.
			publishedAt: time.Date(2024, 3, 16, 23, 0, 0, 0, time.FixedZone("BRT", -3*60*60)),
			wantYear:    2024, wantMonth: 3, wantDay: 17,
			wantWeekday: 0, wantWeekend: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := model.NewReleaseRecord("a/b", "v1.0.0", "v1", "", tt.publishedAt.Add(-time.Hour), tt.publishedAt, false, false)

			assert.Equal(t, tt.wantYear, rec.PublishedYear)
			assert.Equal(t, tt.wantMonth, rec.PublishedMonth)
			assert.Equal(t, tt.wantDay, rec.PublishedDay)
			assert.Equal(t, tt.wantWeekday, rec.Weekday)
			assert.Equal(t, tt.wantWeekend, rec.IsWeekend)
			assert.True(t, rec.HasPublishDate())

			// The weekend flag always follows the weekday index.
			assert.Equal(t, rec.Weekday == 0 || rec.Weekday == 6, rec.IsWeekend)
		})
	}
}

func TestNewReleaseRecord_UndatedSentinels(t *testing.T) {
	rec := model.NewReleaseRecord("a/b", "v1.0.0", "draft", "wip", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{}, true, false)

	assert.False(t, rec.HasPublishDate())
	assert.Equal(t, model.WeekdayUnknown, rec.Weekday)
	assert.Zero(t, rec.PublishedYear)
	assert.Zero(t, rec.PublishedMonth)
	assert.Zero(t, rec.PublishedDay)
	assert.False(t, rec.IsWeekend)
	assert.Zero(t, rec.DaysToPublish)
	assert.Empty(t, rec.MonthKey())
}

func TestNewReleaseRecord_DaysToPublish(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		publishedAt time.Time
		want        int
	}{
		{name: "same instant", publishedAt: created, want: 0},
		{name: "under a day", publishedAt: created.Add(23 * time.Hour), want: 0},
		{name: "exactly four days", publishedAt: created.Add(4 * 24 * time.Hour), want: 4},
		{name: "partial day floors down", publishedAt: created.Add(4*24*time.Hour + 12*time.Hour), want: 4},
		// Floor, not truncation: -1.5 days floors to -2.
		{name: "published before created", publishedAt: created.Add(-36 * time.Hour), want: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := model.NewReleaseRecord("a/b", "v1.0.0", "", "", created, tt.publishedAt, false, false)
			assert.Equal(t, tt.want, rec.DaysToPublish)
		})
	}
}

func TestNewReleaseRecord_ReleaseNotes(t *testing.T) {
	withNote := model.NewReleaseRecord("a/b", "v1", "", "fixes a crash", time.Time{}, time.Now(), false, false)
	assert.Equal(t, 13, withNote.ReleaseNoteLength)
	assert.True(t, withNote.HasReleaseNote)

	empty := model.NewReleaseRecord("a/b", "v1", "", "", time.Time{}, time.Now(), false, false)
	assert.Zero(t, empty.ReleaseNoteLength)
	assert.False(t, empty.HasReleaseNote)

	// Length counts characters, not bytes.
	unicode := model.NewReleaseRecord("a/b", "v1", "", "héllo", time.Time{}, time.Now(), false, false)
	assert.Equal(t, 5, unicode.ReleaseNoteLength)
}

func TestMonthKey_ZeroPadding(t *testing.T) {
	rec := model.NewReleaseRecord("a/b", "v1", "", "", time.Time{}, time.Date(987, 4, 2, 0, 0, 0, 0, time.UTC), false, false)
	require.True(t, rec.HasPublishDate())
	assert.Equal(t, "0987-04", rec.MonthKey())
}
