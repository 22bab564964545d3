package config

import (
	"fmt"
	"net/url"

	"github.com/pelletier/go-toml/v2"
)

const mask = "********"

// Masked returns a copy with secrets hidden.
func (c Config) Masked() Config {
	out := c
	out.GitHub.Token = maskSecret(c.GitHub.Token)
	out.Archive.Passphrase = maskSecret(c.Archive.Passphrase)
	out.Store.ConnectionString = redactURI(c.Store.ConnectionString)
	return out
}

// Render returns the masked config as TOML.
func (c Config) Render() ([]byte, error) {
	data, err := toml.Marshal(c.Masked())
	if err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	return data, nil
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return mask
}

// redactURI hides the password of a connection string.
// Strings that do not parse as URLs are masked entirely.
func redactURI(s string) string {
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return mask
	}
	return u.Redacted()
}
