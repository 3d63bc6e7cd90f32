package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trendops/whatif/internal/collab"
	"github.com/trendops/whatif/internal/history"
	"github.com/trendops/whatif/internal/report"
	"github.com/trendops/whatif/internal/simulation"
)

// whatif runs a single scenario and prints the result. By default it uses
// the static collaborators so it works offline; pass the upstream URLs to
// query the real systems. Useful for trying scenarios without standing up
// the server.
func main() {
	inputPath := flag.String("input", "", "Path to scenario JSON (use - for stdin)")
	format := flag.String("format", "json", "Output format: json or markdown")
	outputPath := flag.String("output", "", "Path to write output (defaults to stdout)")
	dbPath := flag.String("db", "", "Optional SQLite path to record the run")
	skipSummary := flag.Bool("no-summary", false, "Skip the executive summary block")
	trendURL := flag.String("trend-url", "", "Trend lifecycle engine base URL (default: static fixtures)")
	riskURL := flag.String("risk-url", "", "Early decline detector base URL (default: static fixtures)")
	roiURL := flag.String("roi-url", "", "ROI attribution base URL (default: static estimator)")
	timeout := flag.Duration("timeout", 5*time.Second, "Timeout per collaborator query")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	blob, err := readInput(*inputPath)
	if err != nil {
		log.Fatalf("read scenario: %v", err)
	}
	var scenario simulation.ScenarioInput
	if err := json.Unmarshal(blob, &scenario); err != nil {
		log.Fatalf("decode scenario JSON: %v", err)
	}

	var trends simulation.TrendLifecycleEngine = &collab.StaticTrendEngine{}
	if *trendURL != "" {
		trends = collab.NewTrendLifecycleClient(*trendURL, *timeout)
	}
	var risks simulation.EarlyDeclineDetector = &collab.StaticDeclineDetector{}
	if *riskURL != "" {
		risks = collab.NewEarlyDeclineClient(*riskURL, *timeout)
	}
	var roiSystem simulation.ROIAttributor = &collab.StaticROIAttributor{}
	if *roiURL != "" {
		roiSystem = collab.NewROIAttributionClient(*roiURL, *timeout)
	}

	sim := simulation.NewSimulator(simulation.SimulatorConfig{
		Trends:       trends,
		Risks:        risks,
		ROI:          roiSystem,
		QueryTimeout: *timeout,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	resp, err := sim.SimulateWithOptions(ctx, scenario, simulation.SimulateOptions{
		SkipExecutiveSummary: *skipSummary,
	})
	if err != nil {
		envelope := simulation.AsErrorResponse(err)
		out, _ := json.MarshalIndent(envelope, "", "  ")
		fmt.Fprintln(os.Stderr, string(out))
		os.Exit(1)
	}

	if *dbPath != "" {
		store, err := history.Open(*dbPath)
		if err != nil {
			log.Fatalf("open history store: %v", err)
		}
		if err := store.Save(&resp); err != nil {
			store.Close()
			log.Fatalf("record run: %v", err)
		}
		store.Close()
	}

	var rendered []byte
	switch *format {
	case "json":
		rendered, err = json.MarshalIndent(resp, "", "  ")
		if err != nil {
			log.Fatalf("encode response: %v", err)
		}
		rendered = append(rendered, '\n')
	case "markdown":
		rendered = []byte(report.BuildMarkdown(&resp))
	default:
		log.Fatalf("unsupported -format %q (want json or markdown)", *format)
	}

	if err := writeOutput(*outputPath, rendered); err != nil {
		log.Fatalf("write output: %v", err)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
