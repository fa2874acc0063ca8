// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/releasedash/internal/domain/model"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken     string
	Repositories    []model.Repository
	RefreshInterval time.Duration
	DataPath        string
	ListenAddr      string
}

// Load reads configuration from environment variables and returns a validated
// Config. RELEASEDASH_REPOSITORIES (comma-separated owner/name list) is
// required. RELEASEDASH_GITHUB_TOKEN is optional; without it the API is used
// unauthenticated at its much lower rate limit. Optional variables with
// defaults: RELEASEDASH_REFRESH_INTERVAL in whole minutes (60),
// RELEASEDASH_LISTEN_ADDR (127.0.0.1:8080), RELEASEDASH_DATA_PATH (releases.csv).
func Load() (*Config, error) {
	var repositories []model.Repository
	for _, fullName := range strings.Split(os.Getenv("RELEASEDASH_REPOSITORIES"), ",") {
		fullName = strings.TrimSpace(fullName)
		if fullName == "" {
			continue
		}
		repo, err := model.ParseRepository(fullName)
		if err != nil {
			return nil, fmt.Errorf("RELEASEDASH_REPOSITORIES: %w", err)
		}
		repositories = append(repositories, repo)
	}
	if len(repositories) == 0 {
		return nil, errors.New("RELEASEDASH_REPOSITORIES is required: comma-separated owner/name list")
	}

	refreshInterval := 60 * time.Minute
	if v, ok := os.LookupEnv("RELEASEDASH_REFRESH_INTERVAL"); ok {
		minutes, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("RELEASEDASH_REFRESH_INTERVAL must be whole minutes, got %q: %w", v, err)
		}
		if minutes < 1 {
			return nil, fmt.Errorf("RELEASEDASH_REFRESH_INTERVAL must be at least 1 minute, got %d", minutes)
		}
		refreshInterval = time.Duration(minutes) * time.Minute
	}

	dataPath := "releases.csv"
	if v, ok := os.LookupEnv("RELEASEDASH_DATA_PATH"); ok {
		dataPath = v
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("RELEASEDASH_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	return &Config{
		GitHubToken:     os.Getenv("RELEASEDASH_GITHUB_TOKEN"),
		Repositories:    repositories,
		RefreshInterval: refreshInterval,
		DataPath:        dataPath,
		ListenAddr:      listenAddr,
	}, nil
}
