package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/releasedash/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// StatsResponse is the JSON representation of the aggregate views.
type StatsResponse struct {
	MonthlyData     []MonthlyCountResponse `json:"monthlyData"`
	WeekdayData     []NameValueResponse    `json:"weekdayData"`
	ReleaseTypeData []NameValueResponse    `json:"releaseTypeData"`
	Statistics      StatisticsResponse     `json:"statistics"`
	Repositories    []string               `json:"repositories"`
}

// MonthlyCountResponse serializes as one flat JSON object: a "month" key plus
// one key per repository carrying that month's release count. Repository
// names always contain a slash, so they cannot collide with the month key.
type MonthlyCountResponse struct {
	Month  string
	Counts map[string]int
}

// MarshalJSON flattens the month label and the per-repository counts into a
// single object.
func (m MonthlyCountResponse) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(m.Counts)+1)
	obj["month"] = m.Month
	for repo, count := range m.Counts {
		obj[repo] = count
	}
	return json.Marshal(obj)
}

// NameValueResponse is one labeled count in a distribution view.
type NameValueResponse struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// StatisticsResponse is the JSON representation of the summary statistics.
type StatisticsResponse struct {
	TotalReleases          int `json:"totalReleases"`
	PreReleases            int `json:"preReleases"`
	AverageReleaseInterval int `json:"averageReleaseInterval"`
}

// StatusResponse is the JSON representation of the ingestion status endpoint.
type StatusResponse struct {
	Ingesting bool               `json:"ingesting"`
	LastRun   *RunReportResponse `json:"lastRun"`
}

// RunReportResponse is the JSON representation of one completed ingestion run.
type RunReportResponse struct {
	ID           string               `json:"id"`
	StartedAt    string               `json:"startedAt"`
	DurationMs   int64                `json:"durationMs"`
	TotalRecords int                  `json:"totalRecords"`
	Written      bool                 `json:"written"`
	Results      []RepoResultResponse `json:"results"`
}

// RepoResultResponse is the JSON representation of one repository's outcome
// within an ingestion run.
type RepoResultResponse struct {
	Repository string `json:"repository"`
	Records    int    `json:"records"`
	Error      string `json:"error,omitempty"`
}

// RefreshResponse is the JSON body returned when a manual refresh is accepted.
type RefreshResponse struct {
	Status string `json:"status"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toStatsResponse converts an aggregate payload to its JSON response
// representation. Slices are initialized non-nil so empty views render as []
// rather than null.
func toStatsResponse(payload *model.AggregatePayload) StatsResponse {
	monthly := make([]MonthlyCountResponse, 0, len(payload.MonthlyData))
	for _, row := range payload.MonthlyData {
		monthly = append(monthly, MonthlyCountResponse{Month: row.Month, Counts: row.Counts})
	}

	weekdays := make([]NameValueResponse, 0, len(payload.WeekdayData))
	for _, row := range payload.WeekdayData {
		weekdays = append(weekdays, NameValueResponse{Name: row.Name, Value: row.Value})
	}

	types := make([]NameValueResponse, 0, len(payload.ReleaseTypeData))
	for _, row := range payload.ReleaseTypeData {
		types = append(types, NameValueResponse{Name: row.Name, Value: row.Value})
	}

	repositories := payload.Repositories
	if repositories == nil {
		repositories = []string{}
	}

	return StatsResponse{
		MonthlyData:     monthly,
		WeekdayData:     weekdays,
		ReleaseTypeData: types,
		Statistics: StatisticsResponse{
			TotalReleases:          payload.Statistics.TotalReleases,
			PreReleases:            payload.Statistics.PreReleases,
			AverageReleaseInterval: payload.Statistics.AverageReleaseInterval,
		},
		Repositories: repositories,
	}
}

// toStatusResponse converts the ingestion state to its JSON representation.
// LastRun is null until the first run completes.
func toStatusResponse(running bool, report *model.RunReport) StatusResponse {
	resp := StatusResponse{Ingesting: running}
	if report == nil {
		return resp
	}

	results := make([]RepoResultResponse, 0, len(report.Results))
	for _, res := range report.Results {
		results = append(results, RepoResultResponse{
			Repository: res.Repository,
			Records:    res.Records,
			Error:      res.Err,
		})
	}

	resp.LastRun = &RunReportResponse{
		ID:           report.ID,
		StartedAt:    report.StartedAt.UTC().Format(time.RFC3339),
		DurationMs:   report.Duration.Milliseconds(),
		TotalRecords: report.Total,
		Written:      report.Written,
		Results:      results,
	}
	return resp
}
