// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/travisk/storage-dashboard-go/internal/domain"
)

// ProjectSource loads the project dataset. Implemented by the embedded seed
// loader and by the remote dataset client.
type ProjectSource interface {
	FetchProjects(ctx context.Context) ([]domain.Project, error)
}

// FavoritesStore persists the set of starred project IDs. Load on a missing
// or corrupt file returns an empty set, not an error; Save errors are
// surfaced so the caller can decide to ignore them.
type FavoritesStore interface {
	Load() ([]int, error)
	Save(ids []int) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
