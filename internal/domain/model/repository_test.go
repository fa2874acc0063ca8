package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/releasedash/internal/domain/model"
)

func TestParseRepository(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		wantErr  bool
	}{
		{name: "simple", fullName: "golang/go"},
		{name: "dots and dashes", fullName: "grpc-ecosystem/grpc-gateway.v2"},
		{name: "underscores", fullName: "some_org/some_repo"},
		{name: "missing slash", fullName: "golanggo", wantErr: true},
		{name: "empty owner", fullName: "/go", wantErr: true},
		{name: "empty name", fullName: "golang/", wantErr: true},
		{name: "extra segment", fullName: "golang/go/src", wantErr: true},
		{name: "space in name", fullName: "golang/the go repo", wantErr: true},
		{name: "empty string", fullName: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := model.ParseRepository(tt.fullName)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid repository")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.fullName, repo.FullName)
			assert.NotEmpty(t, repo.Owner)
			assert.NotEmpty(t, repo.Name)
		})
	}
}

func TestParseRepository_SplitsParts(t *testing.T) {
	repo, err := model.ParseRepository("kubernetes/kubernetes")
	require.NoError(t, err)
	assert.Equal(t, "kubernetes", repo.Owner)
	assert.Equal(t, "kubernetes", repo.Name)
}
