package news

import (
	"context"
)

// Repository defines the interface for news record persistence
type Repository interface {
	// Init idempotently ensures the schema exists; safe to call repeatedly
	Init(ctx context.Context) error

	// AddRecords bulk-inserts records and returns the count actually
	// inserted. Duplicates on (title, url) are skipped, not errors, and a
	// failure on one record must not abort the rest of the batch.
	AddRecords(ctx context.Context, records []Record) (int, error)

	// Reads return an empty slice, not an error, when nothing matches
	GetAll(ctx context.Context) ([]Record, error)
	GetByCountry(ctx context.Context, code string) ([]Record, error)
	GetByCategory(ctx context.Context, label string) ([]Record, error)
	GetRecent(ctx context.Context, limit int) ([]Record, error)
}
