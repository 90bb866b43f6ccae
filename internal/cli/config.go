package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	Verbose   bool
}

// DefaultConfig reads SCHOLARCTL_SERVER, SCHOLARCTL_TOKEN and SCHOLARCTL_TOKEN_FILE
func DefaultConfig() *Config {
	return &Config{
		ServerURL: envOr("SCHOLARCTL_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("SCHOLARCTL_TOKEN"),
		TokenFile: envOr("SCHOLARCTL_TOKEN_FILE", defaultTokenFile()),
		Output:    "text",
	}
}

// savedSession is the token file layout. The server is recorded so a token
// is never sent to a different server than the one that issued it.
type savedSession struct {
	Server string `json:"server"`
	Token  string `json:"token"`
}

// LoadToken fills Token from the token file unless one was given explicitly.
// A file saved for another server, or in an unreadable layout, is ignored.
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var saved savedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil
	}
	if normalizeServer(saved.Server) == normalizeServer(c.ServerURL) {
		c.Token = saved.Token
	}
	return nil
}

// SaveToken remembers token for the configured server, readable only by the user
func (c *Config) SaveToken(token string) error {
	c.Token = token

	data, err := json.Marshal(savedSession{Server: normalizeServer(c.ServerURL), Token: token})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, data, 0o600)
}

// ClearToken forgets the token and removes the token file
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func normalizeServer(url string) string {
	return strings.TrimSuffix(strings.TrimSpace(url), "/")
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".scholarctl", "token")
	}
	return filepath.Join(home, ".scholarctl", "token")
}

func envOr(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
