package turnlog

import (
	"context"
	"strings"
)

// NewStore creates a postgres-backed store when configured, otherwise a
// bounded in-memory one.
func NewStore(ctx context.Context, databaseURL string, capacity int) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewInMemoryStore(capacity), nil
	}
	return NewPostgresStore(ctx, databaseURL)
}
