package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"PreprintScanner/internal/domain"
	"PreprintScanner/internal/ports"
	"PreprintScanner/internal/scoring"
	"PreprintScanner/internal/selection"
)

// PipelineDeps wires the driven adapters into the selection pipeline.
type PipelineDeps struct {
	Source     ports.ListingSource
	Repository ports.ArticleRepository
	Logger     *slog.Logger
}

// Pipeline implements the fetch, filter, score, select and persist workflow.
// A pipeline run is synchronous; callers must not overlap runs against the
// same repository.
type Pipeline struct {
	source     ports.ListingSource
	repository ports.ArticleRepository
	logger     *slog.Logger
}

// RunStats summarises one FetchTopK invocation.
type RunStats struct {
	Entries        int
	Evaluated      int
	AlreadyStored  int
	DuplicateInRun int
	TextOverlap    int
	Appended       int
	Replaced       int
	Rejected       int
	StoppedEarly   bool
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		repository: deps.Repository,
		logger:     deps.Logger,
	}
}

// FetchTopK retrieves the listing, selects at most capacity new records and
// persists them in one batch. Retrieval failures match domain.ErrNoResult;
// extraction and persistence failures abort the run with nothing stored.
func (p *Pipeline) FetchTopK(ctx context.Context, capacity int) ([]domain.ArticleRecord, error) {
	records, _, err := p.Run(ctx, capacity)
	return records, err
}

// Run is FetchTopK with the run statistics exposed.
func (p *Pipeline) Run(ctx context.Context, capacity int) ([]domain.ArticleRecord, RunStats, error) {
	var stats RunStats

	if capacity < 0 {
		return nil, stats, fmt.Errorf("%w: %d", domain.ErrInvalidCapacity, capacity)
	}
	if capacity == 0 {
		return []domain.ArticleRecord{}, stats, nil
	}
	if p.source == nil {
		return nil, stats, fmt.Errorf("%w: listing source is not configured", domain.ErrNoResult)
	}

	entries, err := p.source.FetchListing(ctx)
	if err != nil {
		p.warn("listing retrieval failed", "error", err)
		return nil, stats, fmt.Errorf("%w: %w", domain.ErrNoResult, err)
	}
	stats.Entries = len(entries)

	filter := NewCandidateFilter(p.repository)
	selector := selection.NewSelector(capacity)

	for i, entry := range entries {
		stats.Evaluated++

		rec, err := entry.Extract()
		if err != nil {
			return nil, stats, fmt.Errorf("entry %d: %w", i, err)
		}

		verdict, err := filter.Admit(ctx, rec)
		if err != nil {
			return nil, stats, fmt.Errorf("filter entry %d: %w", i, err)
		}
		switch verdict {
		case AlreadyStored:
			stats.AlreadyStored++
			continue
		case DuplicateInRun:
			stats.DuplicateInRun++
			continue
		case TextOverlap:
			stats.TextOverlap++
			continue
		}

		rec.Popularity = scoring.Score(rec.HasJournalRef, rec.Comments)

		switch selector.Offer(rec) {
		case selection.Appended:
			stats.Appended++
		case selection.Replaced:
			stats.Replaced++
		default:
			stats.Rejected++
		}

		if selector.Saturated() {
			stats.StoppedEarly = true
			break
		}
	}

	selected := selector.Records()
	if p.repository != nil {
		if err := p.repository.InsertBatch(ctx, selected); err != nil {
			return nil, stats, fmt.Errorf("persist selection: %w", err)
		}
	}

	p.info("selection persisted",
		"selected", len(selected),
		"entries", stats.Entries,
		"evaluated", stats.Evaluated,
		"already_stored", stats.AlreadyStored,
		"duplicate_in_run", stats.DuplicateInRun,
		"text_overlap", stats.TextOverlap,
		"replaced", stats.Replaced,
		"rejected", stats.Rejected,
		"stopped_early", stats.StoppedEarly,
	)

	return selected, stats, nil
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
