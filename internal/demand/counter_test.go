package demand

import (
	"testing"

	"github.com/stretchr/testify/require"

	"review_demand/internal/domain"
)

func TestCounter_MostCommonBreaksTiesByFirstSeen(t *testing.T) {
	c := newCounter()
	for _, w := range []string{"b", "a", "c", "a", "b", "d", "d"} {
		c.add(w)
	}

	got := c.mostCommon(0)
	want := []domain.Ranked{{Term: "b", Count: 2}, {Term: "a", Count: 2}, {Term: "d", Count: 2}, {Term: "c", Count: 1}}
	require.Equal(t, want, got)

	require.Equal(t, want[:2], c.mostCommon(2))
}

func TestCounter_EmptyIsNotNil(t *testing.T) {
	got := newCounter().mostCommon(10)
	require.NotNil(t, got)
	require.Empty(t, got)
}
