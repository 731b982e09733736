package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/claude/repflow/internal/models"
)

// WorkoutFetcher fetches a workout record from the server. *Client
// satisfies it; tests substitute an in-memory fake.
type WorkoutFetcher interface {
	GetWorkout(ctx context.Context, id string) (models.WorkoutRef, error)
}

// Resolver turns an ordered list of workout ids into WorkoutRefs, preferring
// the local cache and falling back to a remote fetch per id. Resolution is
// best-effort: ids that resolve nowhere are dropped with a warning, never an
// error, and the session proceeds with the reduced list.
type Resolver struct {
	cache   *Cache
	fetcher WorkoutFetcher
	log     *slog.Logger
}

// NewResolver creates a Resolver. The cache may be nil, in which case every
// id goes to the fetcher.
func NewResolver(cache *Cache, fetcher WorkoutFetcher, log *slog.Logger) *Resolver {
	return &Resolver{cache: cache, fetcher: fetcher, log: log}
}

// Resolve looks up every id and returns the resolved records in input
// order. Cache misses are fetched concurrently; the result is only
// assembled once all lookups finish, so a session never starts on a
// partial sequence.
func (r *Resolver) Resolve(ctx context.Context, ids []string) []models.WorkoutRef {
	slots := make([]*models.WorkoutRef, len(ids))

	var missing []int
	for i, id := range ids {
		if r.cache == nil {
			missing = append(missing, i)
			continue
		}
		ref, found, err := r.cache.Get(id)
		if err != nil {
			r.log.Warn("catalog cache read failed", "workout_id", id, "error", err)
		}
		if found {
			slots[i] = &ref
			continue
		}
		missing = append(missing, i)
	}

	var wg sync.WaitGroup
	for _, i := range missing {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref, err := r.fetcher.GetWorkout(ctx, ids[i])
			if err != nil {
				r.log.Warn("workout not resolved, dropping from sequence", "workout_id", ids[i], "error", err)
				return
			}
			slots[i] = &ref
		}(i)
	}
	wg.Wait()

	resolved := make([]models.WorkoutRef, 0, len(ids))
	for i, ref := range slots {
		if ref == nil {
			continue
		}
		resolved = append(resolved, *ref)
		if r.cache != nil && contains(missing, i) {
			if err := r.cache.Put(*ref); err != nil {
				r.log.Warn("catalog cache write failed", "workout_id", ref.ID, "error", err)
			}
		}
	}
	return resolved
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
