// Package selection keeps a bounded working set of the most popular
// candidates seen during a single listing scan.
//
// The replacement rule swaps out the first member that scores strictly
// lower than the incoming candidate, not the minimum, so the result
// approximates the top K rather than guaranteeing it.
package selection

import "PreprintScanner/internal/domain"

// Decision describes what happened to an offered candidate.
type Decision int

const (
	// Rejected means the working set was full and no member scored lower.
	Rejected Decision = iota
	// Appended means the candidate filled a free slot.
	Appended
	// Replaced means the candidate took the slot of a lower-scored member.
	Replaced
)

func (d Decision) String() string {
	switch d {
	case Appended:
		return "appended"
	case Replaced:
		return "replaced"
	default:
		return "rejected"
	}
}

// Selector is the admission controller for one scan. It is not safe for
// concurrent use.
type Selector struct {
	capacity int
	working  []domain.ArticleRecord
}

// NewSelector returns a selector holding at most capacity records.
// A non-positive capacity admits nothing.
func NewSelector(capacity int) *Selector {
	if capacity < 0 {
		capacity = 0
	}
	return &Selector{
		capacity: capacity,
		working:  make([]domain.ArticleRecord, 0, capacity),
	}
}

// Offer applies the admission policy to one scored candidate.
func (s *Selector) Offer(candidate domain.ArticleRecord) Decision {
	if len(s.working) < s.capacity {
		s.working = append(s.working, candidate)
		return Appended
	}

	for i := range s.working {
		if s.working[i].Popularity < candidate.Popularity {
			s.working[i] = candidate
			return Replaced
		}
	}

	return Rejected
}

// Saturated reports whether the working set is full and every member is at
// the maximum popularity, in which case no later candidate can be admitted.
func (s *Selector) Saturated() bool {
	if s.capacity == 0 || len(s.working) < s.capacity {
		return false
	}
	for _, rec := range s.working {
		if rec.Popularity != domain.MaxPopularity {
			return false
		}
	}
	return true
}

// Len returns the current working-set size.
func (s *Selector) Len() int {
	return len(s.working)
}

// Records returns a copy of the working set in slot order.
func (s *Selector) Records() []domain.ArticleRecord {
	out := make([]domain.ArticleRecord, len(s.working))
	copy(out, s.working)
	return out
}
