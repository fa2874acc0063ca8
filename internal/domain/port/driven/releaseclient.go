package driven

import (
	"context"

	"github.com/ericfisherdev/releasedash/internal/domain/model"
)

// ReleaseClient defines the driven port for the remote release-hosting API.
// FetchReleases returns the complete, unpaginated release list for one
// repository, already normalized into ReleaseRecords. Implementations page
// through the remote API themselves and pace successive page requests; a
// fetch error is returned to the caller, which decides the isolation policy.
type ReleaseClient interface {
	FetchReleases(ctx context.Context, repoFullName string) ([]model.ReleaseRecord, error)
}
