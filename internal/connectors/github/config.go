package github

import (
	"fmt"
	"strings"
)

// TermPlaceholder is substituted with the search term in QueryTemplate.
const TermPlaceholder = "{term}"

// DefaultQueryTemplate matches the term against name, description and
// readme, restricted to repositories owned by the term as a user.
const DefaultQueryTemplate = "{term} in:name in:description in:readme user:{term}"

// DefaultWorkflowPerPage is the page size for workflow-run listings.
const DefaultWorkflowPerPage = 100

var validSorts = map[string]bool{
	"":                   true, // best match
	"stars":              true,
	"forks":              true,
	"help-wanted-issues": true,
	"updated":            true,
}

// Config holds the fetch settings for the GitHub connector.
type Config struct {
	// QueryTemplate builds the repository search query.
	QueryTemplate string

	// Sort and Order control search result ordering.
	Sort  string
	Order string

	// WorkflowPerPage is the page size for workflow-run listings.
	WorkflowPerPage int

	// Created is an optional workflow-run created filter, e.g. ">=2024-01-01".
	Created string
}

// DefaultConfig returns the connector defaults.
func DefaultConfig() *Config {
	return &Config{
		QueryTemplate:   DefaultQueryTemplate,
		Order:           "asc",
		WorkflowPerPage: DefaultWorkflowPerPage,
	}
}

// Validate checks sort and order values and fills empty fields.
func (c *Config) Validate() error {
	if !validSorts[c.Sort] {
		return fmt.Errorf("%w: %q", ErrConfigInvalidSort, c.Sort)
	}
	switch c.Order {
	case "":
		c.Order = "asc"
	case "asc", "desc":
	default:
		return fmt.Errorf("%w: %q", ErrConfigInvalidOrder, c.Order)
	}
	if c.QueryTemplate == "" {
		c.QueryTemplate = DefaultQueryTemplate
	}
	if c.WorkflowPerPage <= 0 {
		c.WorkflowPerPage = DefaultWorkflowPerPage
	}
	return nil
}

// BuildQuery renders the repository search query for term.
func (c *Config) BuildQuery(term string) string {
	return strings.TrimSpace(strings.ReplaceAll(c.QueryTemplate, TermPlaceholder, term))
}
