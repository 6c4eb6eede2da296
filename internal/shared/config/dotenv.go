package config

import (
	"os"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads KEY=VALUE pairs from the files that exist. Variables already set in
// the process environment win.
func loadEnvFiles(paths ...string) {
	var existing []string
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}
	if len(existing) == 0 {
		return
	}
	_ = godotenv.Load(existing...)
}
