package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenProvider(t *testing.T) {
	t.Run("token yields static provider", func(t *testing.T) {
		p := NewTokenProvider(" ghp_abc ")

		require.IsType(t, &StaticTokenProvider{}, p)
		token, err := p.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ghp_abc", token)
		assert.True(t, p.IsAuthenticated())
	})

	t.Run("empty token yields null provider", func(t *testing.T) {
		p := NewTokenProvider("")

		require.IsType(t, &NullTokenProvider{}, p)
		token, err := p.GetToken(context.Background())
		require.NoError(t, err)
		assert.Empty(t, token)
		assert.False(t, p.IsAuthenticated())
	})
}
