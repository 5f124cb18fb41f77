package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PreprintScanner/internal/domain"
)

func candidates(scores ...domain.Popularity) []domain.ArticleRecord {
	out := make([]domain.ArticleRecord, len(scores))
	for i, p := range scores {
		out[i] = domain.ArticleRecord{ExternalID: fmt.Sprintf("2501.%05d", i), Popularity: p}
	}
	return out
}

// scan mirrors how the pipeline drives a selector and returns how many
// candidates were offered before it stopped.
func scan(sel *Selector, in []domain.ArticleRecord) int {
	for i, c := range in {
		sel.Offer(c)
		if sel.Saturated() {
			return i + 1
		}
	}
	return len(in)
}

func ids(records []domain.ArticleRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ExternalID
	}
	return out
}

func TestSelectorReplacesFirstLowerAndStopsEarly(t *testing.T) {
	t.Parallel()

	sel := NewSelector(2)
	in := candidates(0, 1, 2, 2)

	offered := scan(sel, in)

	assert.Equal(t, 4, offered)
	assert.True(t, sel.Saturated())
	assert.ElementsMatch(t, []string{"2501.00002", "2501.00003"}, ids(sel.Records()))
}

func TestSelectorKeepsFirstArrivalsOnTies(t *testing.T) {
	t.Parallel()

	sel := NewSelector(2)
	in := candidates(0, 0, 0)

	offered := scan(sel, in)

	assert.Equal(t, 3, offered)
	assert.False(t, sel.Saturated())
	assert.Equal(t, []string{"2501.00000", "2501.00001"}, ids(sel.Records()))
}

func TestSelectorStopsAfterKMaximal(t *testing.T) {
	t.Parallel()

	sel := NewSelector(3)
	in := candidates(2, 2, 2, 2, 2)

	offered := scan(sel, in)

	assert.Equal(t, 3, offered)
	assert.Equal(t, 3, sel.Len())
}

func TestSelectorDoesNotStopBeforeFull(t *testing.T) {
	t.Parallel()

	sel := NewSelector(3)
	in := candidates(2, 0, 1)

	offered := scan(sel, in)

	assert.Equal(t, 3, offered)
	assert.Equal(t, 3, sel.Len())
	assert.False(t, sel.Saturated())
}

func TestSelectorReplacesFirstLowerNotMinimum(t *testing.T) {
	t.Parallel()

	sel := NewSelector(2)
	in := candidates(1, 0, 2)

	scan(sel, in)

	// The 2 displaces the 1 in slot 0 even though slot 1 holds a 0.
	got := sel.Records()
	require.Len(t, got, 2)
	assert.Equal(t, "2501.00002", got[0].ExternalID)
	assert.Equal(t, "2501.00001", got[1].ExternalID)
}

func TestSelectorDecisions(t *testing.T) {
	t.Parallel()

	sel := NewSelector(1)
	in := candidates(1, 1, 2, 0)

	assert.Equal(t, Appended, sel.Offer(in[0]))
	assert.Equal(t, Rejected, sel.Offer(in[1]))
	assert.Equal(t, Replaced, sel.Offer(in[2]))
	assert.Equal(t, Rejected, sel.Offer(in[3]))
	assert.Equal(t, "replaced", Replaced.String())
}

func TestSelectorCapacityBound(t *testing.T) {
	t.Parallel()

	in := candidates(0, 2, 1, 0, 2, 1, 1, 0, 2)
	for k := 0; k <= len(in)+1; k++ {
		sel := NewSelector(k)
		scan(sel, in)
		assert.LessOrEqual(t, sel.Len(), k, "capacity %d", k)
		assert.Equal(t, min(k, len(in)), sel.Len(), "capacity %d", k)
	}
}

func TestSelectorZeroCapacity(t *testing.T) {
	t.Parallel()

	sel := NewSelector(0)
	assert.Equal(t, Rejected, sel.Offer(domain.ArticleRecord{Popularity: domain.PopularityJournal}))
	assert.False(t, sel.Saturated())
	assert.Empty(t, sel.Records())
}
