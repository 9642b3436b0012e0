package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// StoreKey is the context key for the configuration store name.
	StoreKey contextKey = "store"

	// ProfileKey is the context key for the schema profile name.
	ProfileKey contextKey = "profile"

	// RevisionKey is the context key for the published revision.
	RevisionKey contextKey = "revision"

	// CommandKey is the context key for the CLI command being run.
	CommandKey contextKey = "command"
)

var contextKeys = []contextKey{StoreKey, ProfileKey, RevisionKey, CommandKey}

// WithStore adds a store name to the context.
func WithStore(ctx context.Context, store string) context.Context {
	return context.WithValue(ctx, StoreKey, store)
}

// WithProfile adds a profile name to the context.
func WithProfile(ctx context.Context, profile string) context.Context {
	return context.WithValue(ctx, ProfileKey, profile)
}

// WithRevision adds a revision to the context.
func WithRevision(ctx context.Context, revision string) context.Context {
	return context.WithValue(ctx, RevisionKey, revision)
}

// WithCommand adds a command name to the context.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, CommandKey, command)
}

// FromContext returns the string stored under key, or "".
func FromContext(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// extractContextFields returns the key-value pairs carried by ctx in a
// fixed order.
func extractContextFields(ctx context.Context) []any {
	var fields []any
	for _, key := range contextKeys {
		if v := FromContext(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}
