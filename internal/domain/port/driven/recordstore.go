package driven

import (
	"context"

	"github.com/ericfisherdev/releasedash/internal/domain/model"
)

// RecordStore defines the driven port for release record persistence.
// The record set is a single tabular blob: WriteAll durably replaces the
// whole set (readers concurrently see either the old or the new complete
// content, never a mix), and ReadAll returns every stored record -- an empty
// slice, not an error, when nothing has ever been written.
type RecordStore interface {
	WriteAll(ctx context.Context, records []model.ReleaseRecord) error
	ReadAll(ctx context.Context) ([]model.ReleaseRecord, error)
}
