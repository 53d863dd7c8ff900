package dotenv

import (
	"os"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// DefaultFiles are loaded in order; earlier files win because godotenv never
// overrides variables that are already set.
var DefaultFiles = []string{".env.local", ".env"}

// Load reads the given env files, or DefaultFiles when none are passed.
// Missing files are skipped.
func Load(files ...string) error {
	if len(files) == 0 {
		files = DefaultFiles
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return errors.Wrap(err, "load env files")
	}
	return nil
}
