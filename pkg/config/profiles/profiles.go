package profiles

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"vidlearn-hq/confstore/pkg/config"
)

// Profile couples a schema with a complete sample document used to create
// new configuration files.
type Profile struct {
	Schema *config.Schema

	// EnvPrefix is the default prefix for environment overrides.
	EnvPrefix string

	// Required holds sample values for required fields, which have no default.
	Required map[string]any
}

// Name returns the schema name.
func (p *Profile) Name() string {
	return p.Schema.Name
}

// Template returns the schema defaults merged with the sample values of
// required fields. A template always validates.
func (p *Profile) Template() *config.Document {
	samples := make(map[string]any)
	for path, v := range p.Required {
		setSample(samples, path, v)
	}
	return config.Merge(p.Schema.Defaults(), config.NewDocument(samples, p.Name()+" template"))
}

func setSample(root map[string]any, path string, v any) {
	parts := strings.Split(path, ".")
	current := root
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = v
}

var registry = map[string]func() *Profile{
	"translation": Translation,
	"gui":         GUI,
}

// Names returns the names of all built-in profiles in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the built-in profile with the given name.
func Lookup(name string) (*Profile, error) {
	build, ok := registry[name]
	if !ok {
		msg := fmt.Sprintf("unknown profile %q", name)
		if s := config.Suggest(name, Names()); s != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", s)
		}
		return nil, errors.New(msg)
	}
	return build(), nil
}
