// Package complexity evaluates cyclomatic complexity measures over a
// control-flow graph. Six measures are computed from graph-structural
// counts:
//
//	McCabe                          e - n + 2
//	Generalised McCabe              e - n + 2p
//	Henderson-Sellers               e - n + p + 1
//	Henderson-Sellers & Tegarden    e - n + p
//	Generalised HS & Tegarden       e - n + X + 2
//	Harrison                        d - x + 2
//
// where n is the node count, e the edge count, p the number of strongly
// connected components, d the decision-point count, x the exit-point count,
// and X the sum of exit points over all components.
package complexity

import "errors"

// ErrEmptyGraph is returned when a graph with zero nodes is evaluated. A
// graph built by the bytecode builder always has at least one node, so this
// indicates a precondition violation upstream.
var ErrEmptyGraph = errors.New("empty graph")

// Metrics exposes the structural counts the measures are computed from.
// Both the bytecode graph and the source-line quotient graph satisfy it.
type Metrics interface {
	NodeCount() int
	EdgeCount() int
	ComponentCount() int
	DecisionPoints() int
	ExitPoints() int
	ExitPointsPerComponent() []int
}

// Report holds the six measures for one graph.
type Report struct {
	McCabe                              int `json:"mccabe" msgpack:"mc"`
	McCabeGeneralised                   int `json:"mccabe_generalised" msgpack:"mcg"`
	HendersonSellers                    int `json:"henderson_sellers" msgpack:"hs"`
	HendersonSellersTegarden            int `json:"henderson_sellers_tegarden" msgpack:"hst"`
	HendersonSellersTegardenGeneralised int `json:"henderson_sellers_tegarden_generalised" msgpack:"hstg"`
	Harrison                            int `json:"harrison" msgpack:"ha"`
}

// Evaluate computes all six measures from the given graph metrics.
func Evaluate(m Metrics) (*Report, error) {
	n := m.NodeCount()
	if n == 0 {
		return nil, ErrEmptyGraph
	}

	e := m.EdgeCount()
	p := m.ComponentCount()
	d := m.DecisionPoints()
	x := m.ExitPoints()

	sumExits := 0
	for _, xi := range m.ExitPointsPerComponent() {
		sumExits += xi
	}

	return &Report{
		McCabe:                              e - n + 2,
		McCabeGeneralised:                   e - n + 2*p,
		HendersonSellers:                    e - n + p + 1,
		HendersonSellersTegarden:            e - n + p,
		HendersonSellersTegardenGeneralised: e - n + sumExits + 2,
		Harrison:                            d - x + 2,
	}, nil
}

// RiskLevel buckets a McCabe value against thresholds.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Assess classifies a McCabe value. Values up to low are low risk, values
// up to medium are medium risk, everything above is high risk.
func Assess(mccabe, low, medium int) RiskLevel {
	switch {
	case mccabe <= low:
		return RiskLow
	case mccabe <= medium:
		return RiskMedium
	default:
		return RiskHigh
	}
}
