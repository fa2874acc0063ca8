package model

import (
	"fmt"
	"strings"
)

// Repository identifies a GitHub repository watched for releases.
type Repository struct {
	FullName string
	Owner    string
	Name     string
}

// ParseRepository validates an owner/name identifier and splits it into its
// components. Both parts must be non-empty and contain only characters GitHub
// allows in owner and repository names.
func ParseRepository(fullName string) (Repository, error) {
	parts := strings.SplitN(fullName, "/", 3)
	if len(parts) != 2 {
		return Repository{}, fmt.Errorf("invalid repository %q: expected owner/name", fullName)
	}

	for _, part := range parts {
		if part == "" {
			return Repository{}, fmt.Errorf("invalid repository %q: expected owner/name", fullName)
		}
		for _, ch := range part {
			if !isRepoNameChar(ch) {
				return Repository{}, fmt.Errorf("invalid repository %q: unexpected character %q", fullName, ch)
			}
		}
	}

	return Repository{
		FullName: fullName,
		Owner:    parts[0],
		Name:     parts[1],
	}, nil
}

// isRepoNameChar returns true if the rune is allowed in a repository owner or name.
func isRepoNameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-' || ch == '.' || ch == '_'
}
