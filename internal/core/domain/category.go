package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the kind of data set being processed.
// It determines the remote query shape, output directory, snapshot prefix
// and document store collection.
type Category string

const (
	// CategoryRepositories is repository search results.
	CategoryRepositories Category = "repos"
	// CategoryWorkflowRuns is workflow runs of previously collected repositories.
	CategoryWorkflowRuns Category = "workflows"
)

// KeyField is the natural key of every document.
const KeyField = "url"

// AllCategories returns all supported categories in selector order.
func AllCategories() []Category {
	return []Category{CategoryRepositories, CategoryWorkflowRuns}
}

// ParseCategory resolves a category from its name or selector index.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	all := AllCategories()
	if idx, err := strconv.Atoi(s); err == nil {
		if idx >= 0 && idx < len(all) {
			return all[idx], nil
		}
		return "", fmt.Errorf("%w: index %d", ErrUnknownCategory, idx)
	}
	for _, c := range all {
		if string(c) == s {
			return c, nil
		}
	}
	switch s {
	case "repositories", "repo":
		return CategoryRepositories, nil
	case "workflow-runs", "runs":
		return CategoryWorkflowRuns, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// IsValid returns true if this is a supported category.
func (c Category) IsValid() bool {
	return c == CategoryRepositories || c == CategoryWorkflowRuns
}

// Prefix returns the snapshot file name prefix.
func (c Category) Prefix() string {
	return string(c)
}

// Collection returns the document store collection name.
func (c Category) Collection() string {
	return string(c)
}

// ArchiveName returns the plaintext archive file name.
func (c Category) ArchiveName() string {
	return "github-" + string(c) + ".tar.gz"
}

// EncryptedArchiveName returns the encrypted archive file name.
func (c Category) EncryptedArchiveName() string {
	return c.ArchiveName() + ".gpg"
}

// Description returns a human-readable description.
func (c Category) Description() string {
	switch c {
	case CategoryRepositories:
		return "GitHub repositories matching a search term"
	case CategoryWorkflowRuns:
		return "Workflow runs of collected repositories"
	default:
		return string(c)
	}
}
