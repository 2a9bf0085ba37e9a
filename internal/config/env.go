package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads the given .env files (default ".env") into the process
// environment without overriding variables already set, then copies
// GEMINI_API_KEY into c.APIKey. Missing files are not an error.
func (c *Config) LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	c.APIKey = os.Getenv(APIKeyEnv)
	return nil
}
