package ports

import (
	"context"
	"time"

	"PreprintScanner/internal/domain"
)

// ListingEntry is one raw listing fragment awaiting extraction.
type ListingEntry interface {
	Extract() (domain.ArticleRecord, error)
}

// ListingSource retrieves the current listing page and splits it into entries.
type ListingSource interface {
	FetchListing(ctx context.Context) ([]ListingEntry, error)
}

// ArticleRepository is the durable store used for deduplication and persistence.
type ArticleRepository interface {
	Exists(ctx context.Context, externalID string) (bool, error)
	InsertBatch(ctx context.Context, records []domain.ArticleRecord) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
