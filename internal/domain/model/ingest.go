package model

import "time"

// RepoResult is the outcome of fetching one repository during an ingestion
// run. A failed repository contributes zero records and a reason; it never
// aborts the rest of the run.
type RepoResult struct {
	Repository string
	Records    int
	Err        string // empty on success
}

// OK reports whether the repository was fetched successfully.
func (r RepoResult) OK() bool {
	return r.Err == ""
}

// RunReport summarizes one complete fetch-all-and-persist cycle.
type RunReport struct {
	ID         string // unique per run, for log correlation
	StartedAt  time.Time
	Duration   time.Duration
	Total      int  // records written across all repositories
	Written    bool // whether the store write succeeded
	Results    []RepoResult
}

// Failures returns the number of repositories that failed during the run.
func (r RunReport) Failures() int {
	var n int
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n
}
