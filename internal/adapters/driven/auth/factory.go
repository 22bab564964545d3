package auth

import (
	"strings"

	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ghpipe/internal/logger"
)

// NewTokenProvider returns a StaticTokenProvider for a non-empty token and
// a NullTokenProvider otherwise.
func NewTokenProvider(token string) driven.TokenProvider {
	token = strings.TrimSpace(token)
	if token == "" {
		logger.Warn("GITHUB_TOKEN is empty, GitHub requests will be anonymous")
		return NewNullTokenProvider()
	}
	return NewStaticTokenProvider(token)
}
