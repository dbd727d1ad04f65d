package config

import (
	"os"
	"sort"
	"strings"
)

// Env is an immutable snapshot of key/value configuration.
// It replaces copying .env entries into the process environment.
type Env map[string]string

// Lookup returns the value for key and whether it was set
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// Get returns the value for key or the empty string
func (e Env) Get(key string) string {
	return e[key]
}

// Expand replaces ${VAR} and $VAR references in s using the snapshot
func (e Env) Expand(s string) string {
	return os.Expand(s, e.Get)
}

// Keys returns the sorted keys, optionally restricted to a prefix
func (e Env) Keys(prefix string) []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new Env where entries of later layers win
func Merge(layers ...map[string]string) Env {
	out := make(Env)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}
