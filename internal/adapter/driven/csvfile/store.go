// Package csvfile implements the RecordStore port as a single CSV file that
// is wholly replaced on every write.
package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/releasedash/internal/domain/model"
	"github.com/ericfisherdev/releasedash/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RecordStore = (*Store)(nil)

// Column order of the persisted file. The raw and Iso timestamp columns are
// both RFC 3339 here; the pair is kept so files written by earlier collectors,
// which stored the API's original string next to the normalized one, still
// read back cleanly.
const (
	colRepository = iota
	colTagName
	colName
	colCreatedAt
	colPublishedAt
	colCreatedAtISO
	colPublishedAtISO
	colPublishedYear
	colPublishedMonth
	colPublishedDay
	colWeekday
	colIsWeekend
	colIsDraft
	colIsPrerelease
	colReleaseNoteLength
	colHasReleaseNote
	colDaysToPublish
	columnCount
)

// header is the first row of every persisted file, aligned with the column
// constants above.
var header = []string{
	"repository",
	"tagName",
	"name",
	"createdAt",
	"publishedAt",
	"createdAtIso",
	"publishedAtIso",
	"publishedYear",
	"publishedMonth",
	"publishedDay",
	"weekday",
	"isWeekend",
	"isDraft",
	"isPrerelease",
	"releaseNoteLength",
	"hasReleaseNote",
	"daysToPublish",
}

// Store is the CSV file implementation of the RecordStore port. WriteAll
// renders the whole record set into memory and swaps the file atomically
// (temp file + rename), so a concurrent ReadAll sees either the previous or
// the new complete content, never a partial write.
type Store struct {
	path string
}

// NewStore creates a Store persisting to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// WriteAll replaces the entire persisted record set. An empty slice is valid
// and produces a file with only the header row.
func (s *Store) WriteAll(_ context.Context, records []model.ReleaseRecord) error {
	var buf bytes.Buffer

	writeRow(&buf, header)
	for _, rec := range records {
		writeRow(&buf, encodeRecord(rec))
	}

	if err := atomic.WriteFile(s.path, &buf); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	return nil
}

// ReadAll returns every stored record. A file that has never been written
// yields an empty slice, not an error; a structurally broken file does.
func (s *Store) ReadAll(_ context.Context) ([]model.ReleaseRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.ReleaseRecord{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	head, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []model.ReleaseRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}
	if !slices.Equal(head, header) {
		return nil, fmt.Errorf("unexpected header in %s: got %d columns, want %d", s.path, len(head), columnCount)
	}

	records := []model.ReleaseRecord{}
	for line := 2; ; line++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", s.path, line, err)
		}

		rec, err := decodeRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("decode %s line %d: %w", s.path, line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// writeRow appends one CSV row with every field quoted. The persisted format
// quotes all values regardless of type.
func writeRow(buf *bytes.Buffer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

// encodeRecord serializes one record in persisted column order.
func encodeRecord(rec model.ReleaseRecord) []string {
	createdAt := formatTime(rec.CreatedAt)
	publishedAt := formatTime(rec.PublishedAt)

	fields := make([]string, columnCount)
	fields[colRepository] = rec.Repository
	fields[colTagName] = rec.TagName
	fields[colName] = rec.Name
	fields[colCreatedAt] = createdAt
	fields[colPublishedAt] = publishedAt
	fields[colCreatedAtISO] = createdAt
	fields[colPublishedAtISO] = publishedAt
	fields[colPublishedYear] = strconv.Itoa(rec.PublishedYear)
	fields[colPublishedMonth] = strconv.Itoa(rec.PublishedMonth)
	fields[colPublishedDay] = strconv.Itoa(rec.PublishedDay)
	fields[colWeekday] = strconv.Itoa(rec.Weekday)
	fields[colIsWeekend] = strconv.FormatBool(rec.IsWeekend)
	fields[colIsDraft] = strconv.FormatBool(rec.IsDraft)
	fields[colIsPrerelease] = strconv.FormatBool(rec.IsPrerelease)
	fields[colReleaseNoteLength] = strconv.Itoa(rec.ReleaseNoteLength)
	fields[colHasReleaseNote] = strconv.FormatBool(rec.HasReleaseNote)
	fields[colDaysToPublish] = strconv.Itoa(rec.DaysToPublish)
	return fields
}

// decodeRecord parses one data row. Numeric and boolean columns are strict --
// a bad value means the file is corrupt. Timestamp columns are lenient: an
// unparsable date keeps the record but zeroes its date-derived fields, so it
// drops out of date math without failing the whole read.
func decodeRecord(fields []string) (model.ReleaseRecord, error) {
	rec := model.ReleaseRecord{
		Repository: fields[colRepository],
		TagName:    fields[colTagName],
		Name:       fields[colName],
	}

	rec.CreatedAt = parseTime(fields[colCreatedAtISO], fields[colCreatedAt])
	rec.PublishedAt = parseTime(fields[colPublishedAtISO], fields[colPublishedAt])

	var err error
	if rec.PublishedYear, err = parseInt(fields[colPublishedYear], "publishedYear"); err != nil {
		return model.ReleaseRecord{}, err
	}
	if rec.PublishedMonth, err = parseInt(fields[colPublishedMonth], "publishedMonth"); err != nil {
		return model.ReleaseRecord{}, err
	}
	if rec.PublishedDay, err = parseInt(fields[colPublishedDay], "publishedDay"); err != nil {
		return model.ReleaseRecord{}, err
	}
	if rec.Weekday, err = parseInt(fields[colWeekday], "weekday"); err != nil {
		return model.ReleaseRecord{}, err
	}
	if rec.IsWeekend, err = parseBool(fields[colIsWeekend], "isWeekend"); err != nil {
		return model.ReleaseRecord{}, err
	}
	if rec.IsDraft, err = parseBool(fields[colIsDraft], "isDraft"); err != nil {
		return model.ReleaseRecord{}, err
	}
	if rec.IsPrerelease, err = parseBool(fields[colIsPrerelease], "isPrerelease"); err != nil {
		return model.ReleaseRecord{}, err
	}
	if rec.ReleaseNoteLength, err = parseInt(fields[colReleaseNoteLength], "releaseNoteLength"); err != nil {
		return model.ReleaseRecord{}, err
	}
	if rec.HasReleaseNote, err = parseBool(fields[colHasReleaseNote], "hasReleaseNote"); err != nil {
		return model.ReleaseRecord{}, err
	}
	if rec.DaysToPublish, err = parseInt(fields[colDaysToPublish], "daysToPublish"); err != nil {
		return model.ReleaseRecord{}, err
	}

	if rec.PublishedAt.IsZero() {
		rec.PublishedYear, rec.PublishedMonth, rec.PublishedDay = 0, 0, 0
		rec.Weekday = model.WeekdayUnknown
		rec.IsWeekend = false
	}

	return rec, nil
}

// formatTime renders a timestamp for storage; zero times become empty fields.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses a stored timestamp, preferring the normalized Iso column
// and falling back to the raw one. Unparsable values yield a zero time.
func parseTime(iso, raw string) time.Time {
	for _, s := range []string{iso, raw} {
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func parseInt(s, column string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", column, err)
	}
	return v, nil
}

func parseBool(s, column string) (bool, error) {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("column %s: %w", column, err)
	}
	return v, nil
}
