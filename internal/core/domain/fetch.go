package domain

import (
	"fmt"
	"time"
)

// FetchResult is the outcome of one remote call.
// It is consumed immediately by the collection loop and never persisted.
type FetchResult struct {
	// Items are the fetched records, in API order.
	Items []Document

	// Total is the API-reported number of matching records.
	Total int

	// ShouldRetry is set when the call was throttled.
	// The same page or parent must be fetched again after RetryAfter.
	ShouldRetry bool

	// RetryAfter is the cooldown before the retry.
	RetryAfter time.Duration
}

// Retry returns an empty result asking the caller to repeat the call after wait.
func Retry(wait time.Duration) FetchResult {
	return FetchResult{ShouldRetry: true, RetryAfter: wait}
}

// Parent is a repository whose workflow runs are collected.
type Parent struct {
	Owner         string
	Name          string
	DefaultBranch string
}

// ParentFromDocument extracts the owner, name and default branch of a repository document.
func ParentFromDocument(doc Document) (Parent, error) {
	var repo struct {
		Name          string `json:"name"`
		DefaultBranch string `json:"default_branch"`
		Owner         *struct {
			Login string `json:"login"`
		} `json:"owner"`
	}
	if err := unmarshalRaw(doc.Raw, &repo); err != nil {
		return Parent{}, err
	}
	if repo.Owner == nil || repo.Owner.Login == "" || repo.Name == "" {
		return Parent{}, fmt.Errorf("%w: repository %q has no owner or name", ErrInvalidInput, doc.URL)
	}
	return Parent{
		Owner:         repo.Owner.Login,
		Name:          repo.Name,
		DefaultBranch: repo.DefaultBranch,
	}, nil
}

// Identifier is the snapshot identifier for this parent's workflow runs.
// Logins never contain '_', so the first '_' always ends the owner.
func (p Parent) Identifier() string {
	return p.Owner + "_" + p.Name
}

// FullName returns owner/name.
func (p Parent) FullName() string {
	return p.Owner + "/" + p.Name
}
