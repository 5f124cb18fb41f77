package parser

import (
	"context"
	"fmt"
	"log/slog"

	"PreprintScanner/internal/config"
	"PreprintScanner/internal/ports"
	"PreprintScanner/internal/scanner"
)

// StrategySource implements ListingSource via a registered scanner strategy.
type StrategySource struct {
	registry *scanner.Registry
	source   config.SourceConfig
	logger   *slog.Logger
}

var _ ports.ListingSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with the configured listing.
func NewStrategySource(reg *scanner.Registry, source config.SourceConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		source:   source,
		logger:   log,
	}
}

// FetchListing resolves the configured scanner and fetches the listing page.
func (s *StrategySource) FetchListing(ctx context.Context) ([]ports.ListingEntry, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	strategy, err := s.registry.Resolve(s.source.Scanner)
	if err != nil {
		return nil, err
	}

	s.debug("fetch listing", "scanner", strategy.Name(), "url", s.source.ListingURL)

	entries, err := strategy.Scan(ctx, scanner.Request{
		URL:    s.source.ListingURL,
		Origin: s.source.Origin,
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.source.ListingURL, err)
	}

	s.debug("listing split", "entries", len(entries))
	return entries, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
