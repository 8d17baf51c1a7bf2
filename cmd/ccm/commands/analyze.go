package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/l3aro/go-ccm/internal/config"
	"github.com/l3aro/go-ccm/internal/log"
	"github.com/l3aro/go-ccm/internal/scanner"
	"github.com/l3aro/go-ccm/pkg/analyze"
	"github.com/l3aro/go-ccm/pkg/cache"
	"github.com/l3aro/go-ccm/pkg/dis"
	"github.com/l3aro/go-ccm/pkg/instr"
	"github.com/l3aro/go-ccm/pkg/source"
	"github.com/spf13/cobra"
)

// FileReport is the analysis output for one listing file.
type FileReport struct {
	Path string `json:"path"`
	*analyze.Response
	Spans map[string]*source.Span `json:"spans,omitempty"`
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Compute complexity measures for disassembly listings",
	Long: `Analyzes a listing file (*.dis.json or *.dis.msgb) or every listing
found under a directory. For each callable it reports the six cyclomatic
complexity measures on the bytecode graph and on the source-line graph,
the number of basis paths, and a risk assessment.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		noCache, _ := cmd.Flags().GetBool("no-cache")
		withSource, _ := cmd.Flags().GetBool("source")
		tableOverride, _ := cmd.Flags().GetString("instruction-set")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		table, err := cfg.Table()
		if err != nil {
			return err
		}
		if tableOverride != "" {
			table, err = instr.Lookup(tableOverride)
			if err != nil {
				return err
			}
		}

		var lru *cache.LRU
		if cfg.CacheEnabled && !noCache {
			lru = cache.NewLRU(cfg.CacheSize)
			if err := lru.LoadFile(cfg.CachePath); err != nil {
				log.Default().Warn("ignoring unreadable cache", "path", cfg.CachePath, "error", err)
				lru = cache.NewLRU(cfg.CacheSize)
			}
		}

		analyzer := analyze.New(analyze.Options{
			Table:           table,
			Cache:           lru,
			LowThreshold:    cfg.LowThreshold,
			MediumThreshold: cfg.MediumThreshold,
			Workers:         cfg.Workers,
		})

		listings, err := collectListings(path)
		if err != nil {
			return err
		}
		if len(listings) == 0 {
			return fmt.Errorf("no listings found under %s", path)
		}

		var spinner *log.ProgressSpinner
		if !jsonOutput && log.IsTTY() && len(listings) > 1 {
			spinner = log.NewProgressSpinner("Analyzing listings...")
			spinner.Start()
		}

		var reports []FileReport
		for _, listingPath := range listings {
			l, err := dis.Load(listingPath)
			if err != nil {
				return err
			}
			resp, err := analyzer.Listing(l)
			if err != nil {
				return fmt.Errorf("analyzing %s: %w", listingPath, err)
			}
			report := FileReport{Path: listingPath, Response: resp}
			if withSource {
				report.Spans = locateSpans(resp)
			}
			reports = append(reports, report)
		}

		if spinner != nil {
			spinner.Stop()
		}

		if lru != nil {
			if err := lru.SaveFile(cfg.CachePath); err != nil {
				log.Default().Warn("failed to persist cache", "path", cfg.CachePath, "error", err)
			}
		}

		if jsonOutput {
			data, err := json.MarshalIndent(reports, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		displayReports(reports, cfg.GraphLevel)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	analyzeCmd.Flags().Bool("no-cache", false, "Skip the result cache")
	analyzeCmd.Flags().Bool("source", false, "Annotate callables with source definition spans")
	analyzeCmd.Flags().String("instruction-set", "", "Instruction set for listings that omit one")
}

// collectListings resolves path to the listing files to analyze. A single
// file is taken as-is, a directory is scanned recursively.
func collectListings(path string) ([]string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	if !info.IsDir() {
		return []string{absPath}, nil
	}

	files, err := scanner.Scan(absPath)
	if err != nil {
		return nil, fmt.Errorf("scanning directory: %w", err)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.FullPath)
	}
	return paths, nil
}

// locateSpans looks up the source definition span of every result that
// carries a source file reference. Missing files or callables are skipped.
func locateSpans(resp *analyze.Response) map[string]*source.Span {
	locator := source.NewLocator()
	spans := make(map[string]*source.Span)
	for _, r := range resp.Results {
		if r.File == "" {
			continue
		}
		span, err := locator.Locate(r.File, r.Callable)
		if err != nil {
			continue
		}
		spans[r.Callable] = span
	}
	if len(spans) == 0 {
		return nil
	}
	return spans
}

func displayReports(reports []FileReport, level config.GraphLevel) {
	for _, report := range reports {
		fmt.Printf("%s (%s)\n", report.Path, report.InstructionSet)

		for _, r := range report.Results {
			headline := r.Bytecode
			if level == config.GraphSource {
				headline = r.Source
			}

			cachedMark := ""
			if r.Cached {
				cachedMark = " (cached)"
			}
			fmt.Printf("  %s %-30s McCabe=%d  HS=%d  Harrison=%d  paths=%d  risk=%s%s\n",
				riskIcon(string(r.Risk)), r.Callable,
				headline.McCabe, headline.HendersonSellers, headline.Harrison,
				r.BasisPaths, r.Risk, cachedMark)

			if span, ok := report.Spans[r.Callable]; ok {
				fmt.Printf("      %s:%d-%d\n", r.File, span.StartLine, span.EndLine)
			}
		}

		for _, e := range report.Errors {
			fmt.Printf("  ✗ %s\n", e)
		}

		s := report.Summary
		fmt.Printf("  %d callables, avg %.1f, max %d (low %d / medium %d / high %d)\n\n",
			s.TotalCallables, s.AverageComplexity, s.MaxComplexity,
			s.LowRisk, s.MediumRisk, s.HighRisk)
	}
}

func riskIcon(risk string) string {
	switch risk {
	case "low":
		return "✓"
	case "medium":
		return "!"
	case "high":
		return "✗"
	default:
		return "•"
	}
}
