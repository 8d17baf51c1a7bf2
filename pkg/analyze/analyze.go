// Package analyze wires the pipeline together: it builds the bytecode graph
// of each callable, derives the source-line quotient, evaluates the
// complexity measures on both, counts basis paths, and aggregates listing
// level summaries. Callables are independent and stateless, so a listing is
// analyzed on a small worker pool.
package analyze

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/l3aro/go-ccm/pkg/basispath"
	"github.com/l3aro/go-ccm/pkg/bytegraph"
	"github.com/l3aro/go-ccm/pkg/cache"
	"github.com/l3aro/go-ccm/pkg/complexity"
	"github.com/l3aro/go-ccm/pkg/dis"
	"github.com/l3aro/go-ccm/pkg/instr"
	"github.com/l3aro/go-ccm/pkg/linegraph"
)

// Default risk thresholds for the bytecode-level McCabe value.
const (
	DefaultLowThreshold    = 9
	DefaultMediumThreshold = 19
)

// Options configures an Analyzer. The zero value selects the default
// instruction set, default thresholds, no cache, and one worker per CPU.
type Options struct {
	Table           *instr.OpTable
	Cache           *cache.LRU
	LowThreshold    int
	MediumThreshold int
	Workers         int
}

// Result is the complexity report for one callable.
type Result struct {
	Callable   string               `json:"callable"`
	File       string               `json:"file,omitempty"`
	FirstLine  int                  `json:"first_line,omitempty"`
	Bytecode   complexity.Report    `json:"bytecode"`
	Source     complexity.Report    `json:"source"`
	BasisPaths int                  `json:"basis_paths"`
	Risk       complexity.RiskLevel `json:"risk"`
	Cached     bool                 `json:"cached,omitempty"`
}

// Summary aggregates a listing's results.
type Summary struct {
	TotalCallables    int     `json:"total_callables"`
	AverageComplexity float64 `json:"average_complexity"`
	MaxComplexity     int     `json:"max_complexity"`
	LowRisk           int     `json:"low_risk"`
	MediumRisk        int     `json:"medium_risk"`
	HighRisk          int     `json:"high_risk"`
}

// Response is the complete result of analyzing one listing.
type Response struct {
	InstructionSet string    `json:"instruction_set"`
	Results        []Result  `json:"results"`
	Summary        Summary   `json:"summary"`
	Errors         []string  `json:"errors,omitempty"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Analyzer runs the pipeline. Safe for concurrent use.
type Analyzer struct {
	opts Options
}

// New creates an Analyzer, filling unset options with defaults.
func New(opts Options) *Analyzer {
	if opts.Table == nil {
		opts.Table = instr.Default()
	}
	if opts.LowThreshold <= 0 {
		opts.LowThreshold = DefaultLowThreshold
	}
	if opts.MediumThreshold <= opts.LowThreshold {
		opts.MediumThreshold = DefaultMediumThreshold
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Analyzer{opts: opts}
}

// Callable analyzes one callable with the analyzer's instruction set.
func (a *Analyzer) Callable(c dis.Callable) (*Result, error) {
	return a.callable(c, a.opts.Table)
}

func (a *Analyzer) callable(c dis.Callable, table *instr.OpTable) (*Result, error) {
	key := cache.Fingerprint(c.Instructions, table.Version())
	if a.opts.Cache != nil {
		if e, ok := a.opts.Cache.Get(key); ok {
			return &Result{
				Callable:   c.ID(),
				File:       c.File,
				FirstLine:  c.FirstLine,
				Bytecode:   e.Bytecode,
				Source:     e.Source,
				BasisPaths: e.BasisPaths,
				Risk:       e.Risk,
				Cached:     true,
			}, nil
		}
	}

	bg, err := bytegraph.NewBuilder(table).Build(c.Instructions)
	if err != nil {
		return nil, fmt.Errorf("building bytecode graph for %s: %w", c.ID(), err)
	}

	bytecodeReport, err := complexity.Evaluate(bg)
	if err != nil {
		return nil, fmt.Errorf("evaluating bytecode graph for %s: %w", c.ID(), err)
	}

	sourceReport, err := complexity.Evaluate(linegraph.FromBytecode(bg))
	if err != nil {
		return nil, fmt.Errorf("evaluating source graph for %s: %w", c.ID(), err)
	}

	res := &Result{
		Callable:   c.ID(),
		File:       c.File,
		FirstLine:  c.FirstLine,
		Bytecode:   *bytecodeReport,
		Source:     *sourceReport,
		BasisPaths: basispath.Count(bg),
		Risk:       complexity.Assess(bytecodeReport.McCabe, a.opts.LowThreshold, a.opts.MediumThreshold),
	}

	if a.opts.Cache != nil {
		a.opts.Cache.Set(cache.Entry{
			Key:        key,
			Callable:   res.Callable,
			Bytecode:   res.Bytecode,
			Source:     res.Source,
			BasisPaths: res.BasisPaths,
			Risk:       res.Risk,
			CreatedAt:  time.Now().UTC(),
		})
	}

	return res, nil
}

// Listing analyzes every callable of a listing. The listing's declared
// instruction set overrides the analyzer's table; per-callable failures are
// collected in Response.Errors rather than aborting the batch.
func (a *Analyzer) Listing(l *dis.Listing) (*Response, error) {
	table := a.opts.Table
	if l.InstructionSet != "" {
		t, err := instr.Lookup(l.InstructionSet)
		if err != nil {
			return nil, err
		}
		table = t
	}

	results := make([]*Result, len(l.Callables))
	errs := make([]error, len(l.Callables))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < a.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = a.callable(l.Callables[i], table)
			}
		}()
	}
	for i := range l.Callables {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	resp := &Response{
		InstructionSet: table.Version(),
		GeneratedAt:    time.Now().UTC(),
	}
	for i, r := range results {
		if errs[i] != nil {
			resp.Errors = append(resp.Errors, errs[i].Error())
			continue
		}
		resp.Results = append(resp.Results, *r)
	}
	resp.Summary = summarize(resp.Results)

	return resp, nil
}

func summarize(results []Result) Summary {
	s := Summary{TotalCallables: len(results)}
	if len(results) == 0 {
		return s
	}

	total := 0
	for _, r := range results {
		total += r.Bytecode.McCabe
		if r.Bytecode.McCabe > s.MaxComplexity {
			s.MaxComplexity = r.Bytecode.McCabe
		}
		switch r.Risk {
		case complexity.RiskLow:
			s.LowRisk++
		case complexity.RiskMedium:
			s.MediumRisk++
		case complexity.RiskHigh:
			s.HighRisk++
		}
	}
	s.AverageComplexity = float64(total) / float64(len(results))
	return s
}
