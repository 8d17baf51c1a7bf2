package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMetrics is a fixed set of structural counts.
type fakeMetrics struct {
	nodes      int
	edges      int
	components int
	decisions  int
	exits      int
	perComp    []int
}

func (f fakeMetrics) NodeCount() int                { return f.nodes }
func (f fakeMetrics) EdgeCount() int                { return f.edges }
func (f fakeMetrics) ComponentCount() int           { return f.components }
func (f fakeMetrics) DecisionPoints() int           { return f.decisions }
func (f fakeMetrics) ExitPoints() int               { return f.exits }
func (f fakeMetrics) ExitPointsPerComponent() []int { return f.perComp }

func TestEvaluateEmptyGraph(t *testing.T) {
	_, err := Evaluate(fakeMetrics{})
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func TestEvaluateSignCounts(t *testing.T) {
	// Counts of the worked three-branch example: 14 nodes, 16 edges, one
	// component, two comparisons, three returns.
	m := fakeMetrics{
		nodes:      14,
		edges:      16,
		components: 1,
		decisions:  2,
		exits:      3,
		perComp:    []int{3},
	}

	r, err := Evaluate(m)
	require.NoError(t, err)

	assert.Equal(t, 4, r.McCabe)
	assert.Equal(t, 4, r.McCabeGeneralised)
	assert.Equal(t, 4, r.HendersonSellers)
	assert.Equal(t, 3, r.HendersonSellersTegarden)
	assert.Equal(t, 7, r.HendersonSellersTegardenGeneralised)
	assert.Equal(t, 1, r.Harrison)
}

func TestEvaluateMultipleComponents(t *testing.T) {
	// Disjoint union of two single-exit straight-line graphs. The
	// generalized measures diverge from plain McCabe here.
	m := fakeMetrics{
		nodes:      6,
		edges:      6,
		components: 2,
		decisions:  0,
		exits:      2,
		perComp:    []int{1, 1},
	}

	r, err := Evaluate(m)
	require.NoError(t, err)

	assert.Equal(t, 2, r.McCabe)
	assert.Equal(t, 4, r.McCabeGeneralised)
	assert.Equal(t, 3, r.HendersonSellers)
	assert.Equal(t, 2, r.HendersonSellersTegarden)
	assert.Equal(t, 4, r.HendersonSellersTegardenGeneralised)
	assert.Equal(t, 0, r.Harrison)
}

func TestAssess(t *testing.T) {
	assert.Equal(t, RiskLow, Assess(4, 9, 19))
	assert.Equal(t, RiskLow, Assess(9, 9, 19))
	assert.Equal(t, RiskMedium, Assess(10, 9, 19))
	assert.Equal(t, RiskMedium, Assess(19, 9, 19))
	assert.Equal(t, RiskHigh, Assess(20, 9, 19))
}
