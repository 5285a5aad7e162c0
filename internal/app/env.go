package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded when present and no explicit file is given.
const DefaultEnvFile = ".env"

// LoadEnv loads KEY=VALUE pairs into the process environment. Variables
// already set win. An explicit path must exist; the default one may not.
func LoadEnv(path string) error {
	if path == "" {
		if _, err := os.Stat(DefaultEnvFile); errors.Is(err, os.ErrNotExist) {
			return nil
		}
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}
