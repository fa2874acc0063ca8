package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ericfisherdev/releasedash/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "releases.csv")
	return NewStore(path), path
}

func makeRecord(repo, tag string, published time.Time) model.ReleaseRecord {
	created := published.Add(-48 * time.Hour)
	return model.NewReleaseRecord(repo, tag, "Release "+tag, "notes for "+tag, created, published, false, false)
}

func TestStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	records := []model.ReleaseRecord{
		makeRecord("octocat/hello-world", "v1.0.0", time.Date(2024, 1, 14, 10, 0, 0, 0, time.UTC)),
		// Display name with CSV-hostile characters.
		model.NewReleaseRecord("octocat/hello-world", "v1.1.0", `Release "one, one"`, "",
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 3, 12, 30, 0, 0, time.UTC), false, true),
		// Draft without a publish date.
		model.NewReleaseRecord("octocat/other", "v2.0.0", "Unreleased", "wip",
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Time{}, true, false),
		// Publish before create: negative day count survives the round trip.
		model.NewReleaseRecord("octocat/other", "v0.9.0", "", "",
			time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC), false, false),
	}

	require.NoError(t, store.WriteAll(ctx, records))

	got, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, records, got)

	assert.Equal(t, -2, got[3].DaysToPublish)
	assert.Equal(t, model.WeekdayUnknown, got[2].Weekday)
}

func TestStore_ReadAll_NoFile(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_WriteAll_EmptySet(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteAll(ctx, nil))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), "\n"), "empty set should persist as header only")

	got, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_WriteAll_ReplacesPreviousContent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := []model.ReleaseRecord{
		makeRecord("a/b", "v1.0.0", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		makeRecord("a/b", "v1.1.0", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, store.WriteAll(ctx, first))

	second := []model.ReleaseRecord{
		makeRecord("c/d", "v9.0.0", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, store.WriteAll(ctx, second))

	got, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c/d", got[0].Repository)
}

func TestStore_EveryFieldQuoted(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	rec := makeRecord("octocat/hello-world", "v1.0.0", time.Date(2024, 1, 14, 10, 0, 0, 0, time.UTC))
	require.NoError(t, store.WriteAll(ctx, []model.ReleaseRecord{rec}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 2)

	assert.True(t, strings.HasPrefix(lines[0], `"repository","tagName","name",`))
	for i, line := range lines {
		assert.True(t, strings.HasPrefix(line, `"`), "line %d should start quoted", i)
		assert.True(t, strings.HasSuffix(line, `"`), "line %d should end quoted", i)
	}

	// Booleans and numbers are serialized as quoted strings too.
	assert.Contains(t, lines[1], `"true"`)
	assert.Contains(t, lines[1], `"2024"`)
}

func TestStore_ReadAll_UnparsableDateKeepsRecord(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	rec := makeRecord("octocat/hello-world", "v1.0.0", time.Date(2024, 1, 14, 10, 0, 0, 0, time.UTC))
	require.NoError(t, store.WriteAll(ctx, []model.ReleaseRecord{rec}))

	// Corrupt both publish timestamp columns in place.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	mangled := strings.ReplaceAll(string(content), "2024-01-14T10:00:00Z", "not a date")
	require.NoError(t, os.WriteFile(path, []byte(mangled), 0o644))

	got, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "v1.0.0", got[0].TagName)
	assert.False(t, got[0].HasPublishDate())
	assert.Equal(t, model.WeekdayUnknown, got[0].Weekday)
	assert.Zero(t, got[0].PublishedYear)
	assert.False(t, got[0].IsWeekend)
}

func TestStore_ReadAll_WrongHeader(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, os.WriteFile(path, []byte("\"repository\",\"tagName\"\n\"a/b\",\"v1\"\n"), 0o644))

	_, err := store.ReadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected header")
}

func TestStore_ReadAll_CorruptRow(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	rec := makeRecord("octocat/hello-world", "v1.0.0", time.Date(2024, 1, 14, 10, 0, 0, 0, time.UTC))
	require.NoError(t, store.WriteAll(ctx, []model.ReleaseRecord{rec}))

	// A non-numeric count column means the file is corrupt, not recoverable.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	mangled := strings.ReplaceAll(string(content), `"2024"`, `"twenty"`)
	require.NoError(t, os.WriteFile(path, []byte(mangled), 0o644))

	_, err = store.ReadAll(ctx)
	assert.Error(t, err)
}
