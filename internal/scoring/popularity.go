// Package scoring classifies listing entries by how likely they are to be noteworthy.
package scoring

import (
	"regexp"
	"strings"

	"PreprintScanner/internal/domain"
)

// OverlapMarker is the administrative note arXiv attaches to entries that
// substantially overlap earlier work.
const OverlapMarker = "arxiv admin note: substantial text overlap"

// acceptanceExpr matches a future-tense acceptance or publication notice.
// "Accepted by ..." without the "to be" qualifier does not match.
var acceptanceExpr = regexp.MustCompile(`(?i)\bto\s+be\s+(accepted|published)\b`)

// Score maps extraction signals to a popularity level. The first rule that
// matches wins: a journal reference, then an acceptance notice in comments.
func Score(hasJournalRef bool, comments string) domain.Popularity {
	if hasJournalRef {
		return domain.PopularityJournal
	}
	if IsAcceptanceNotice(comments) {
		return domain.PopularityNotice
	}
	return domain.PopularityNone
}

// IsAcceptanceNotice reports whether comments announce that the work is to
// be accepted or published.
func IsAcceptanceNotice(comments string) bool {
	if comments == "" {
		return false
	}
	return acceptanceExpr.MatchString(comments)
}

// HasOverlapNotice reports whether comments carry the text-overlap admin note.
// The match ignores case.
func HasOverlapNotice(comments string) bool {
	return strings.Contains(strings.ToLower(comments), OverlapMarker)
}
