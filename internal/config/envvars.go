// ABOUTME: Environment handling for settings: .env loading and ${VAR} expansion
// ABOUTME: .env files only fill variables that are not already set

package config

import (
	"errors"
	"io/fs"
	"os"
	"regexp"

	"github.com/joho/godotenv"

	"github.com/mauromedda/pi-mood-go/internal/log"
)

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// LoadDotEnv loads each existing file in order. Missing files are skipped;
// unreadable ones are logged and skipped.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			log.Warn("config: failed to load %s: %v", p, err)
			continue
		}
		log.Debug("config: loaded env from %s", p)
	}
}

// ResolveEnvVars expands ${VAR} patterns in string fields of Settings.
func ResolveEnvVars(s *Settings) {
	s.CatalogPath = expandEnv(s.CatalogPath)
	s.DefaultContext = expandEnv(s.DefaultContext)
	s.StoreDSN = expandEnv(s.StoreDSN)
	s.LogLevel = expandEnv(s.LogLevel)
}

// expandEnv replaces ${VAR} with os.Getenv(VAR). Unset vars become "".
func expandEnv(s string) string {
	if s == "" {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
