package usecase

import (
	"context"
	"fmt"

	"PreprintScanner/internal/domain"
	"PreprintScanner/internal/ports"
	"PreprintScanner/internal/scoring"
)

// Verdict explains why a candidate was kept or dropped by the filter.
type Verdict int

const (
	// Eligible candidates continue to scoring and admission.
	Eligible Verdict = iota
	// AlreadyStored candidates were persisted by an earlier run.
	AlreadyStored
	// DuplicateInRun candidates repeat an external id seen earlier in the listing.
	DuplicateInRun
	// TextOverlap candidates carry the substantial-text-overlap admin note.
	TextOverlap
)

// CandidateFilter drops records that must never reach the working set.
// It holds per-run state and is meant to be built fresh for each run.
type CandidateFilter struct {
	repo ports.ArticleRepository
	seen map[string]struct{}
}

// NewCandidateFilter builds a filter backed by repo.
func NewCandidateFilter(repo ports.ArticleRepository) *CandidateFilter {
	return &CandidateFilter{repo: repo, seen: map[string]struct{}{}}
}

// Admit classifies one extracted record.
func (f *CandidateFilter) Admit(ctx context.Context, rec domain.ArticleRecord) (Verdict, error) {
	if _, dup := f.seen[rec.ExternalID]; dup {
		return DuplicateInRun, nil
	}
	f.seen[rec.ExternalID] = struct{}{}

	if scoring.HasOverlapNotice(rec.Comments) {
		return TextOverlap, nil
	}

	isNew, err := f.IsNew(ctx, rec.ExternalID)
	if err != nil {
		return Eligible, err
	}
	if !isNew {
		return AlreadyStored, nil
	}

	return Eligible, nil
}

// IsNew reports whether externalID has not been persisted yet.
func (f *CandidateFilter) IsNew(ctx context.Context, externalID string) (bool, error) {
	if f.repo == nil {
		return true, nil
	}
	exists, err := f.repo.Exists(ctx, externalID)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", externalID, err)
	}
	return !exists, nil
}
