package branchvers

import (
	"os"
	"strings"
)

// Environment is a read-only view of environment variables
type Environment interface {
	Lookup(name string) (string, bool)
	Names() []string
}

// OSEnvironment reads the process environment
type OSEnvironment struct{}

func (OSEnvironment) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (OSEnvironment) Names() []string {
	environ := os.Environ()
	names := make([]string, 0, len(environ))
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// MapEnvironment serves variables from a map, mostly for tests and embedding
type MapEnvironment map[string]string

func (m MapEnvironment) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func (m MapEnvironment) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}
