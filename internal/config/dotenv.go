package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

// EnvFiles are read in order; later files override earlier ones
var EnvFiles = []string{".env", ".env.local"}

// LoadEnv reads the project's .env files and layers the process environment on top.
// Nothing is written back to the process environment.
func LoadEnv(projectRoot string) (config.Env, error) {
	layers := make([]map[string]string, 0, len(EnvFiles)+1)

	for _, name := range EnvFiles {
		path := filepath.Join(projectRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		layers = append(layers, values)
	}

	layers = append(layers, processEnv())
	return config.Merge(layers...), nil
}

func processEnv() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}
