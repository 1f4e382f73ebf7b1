package store

import (
	"context"

	"github.com/smit-tejani/smartassist-portal/internal/model"
)

// CacheStore is the local read-through cache for catalog data (course
// catalog, campus events). Fetched pages are upserted after each successful
// backend call so browsing stays responsive and survives transient backend
// failures. Notifications and surveys are intentionally not cached here;
// their state lives with the backend and is refetched on every sync.
type CacheStore interface {
	UpsertCourses(ctx context.Context, courses []model.Course) error
	GetCourses(ctx context.Context, term string) ([]model.Course, error)

	UpsertEvents(ctx context.Context, events []model.Event) error
	GetEvents(ctx context.Context, status string) ([]model.Event, error)

	Close() error
}
