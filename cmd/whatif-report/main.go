package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/trendops/whatif/internal/history"
	"github.com/trendops/whatif/internal/report"
	"github.com/trendops/whatif/internal/simulation"
)

// whatif-report rebuilds a report from a saved simulation, either a response
// JSON file or a run recorded in the history database.
func main() {
	inputPath := flag.String("input", "", "Path to saved simulation response JSON")
	dbPath := flag.String("db", "", "History SQLite path (used with -scenario)")
	scenarioID := flag.String("scenario", "", "Scenario id to load from the history database")
	format := flag.String("format", "markdown", "Output format: markdown, html, or pdf")
	outputPath := flag.String("output", "", "Path to write output (defaults to stdout; required for pdf)")
	flag.Parse()

	resp, err := loadResponse(*inputPath, *dbPath, *scenarioID)
	if err != nil {
		log.Fatal(err)
	}

	md := report.BuildMarkdown(resp)
	title := resp.SimulationSummary.ScenarioID

	switch *format {
	case "markdown":
		if err := writeOutput(*outputPath, []byte(md)); err != nil {
			log.Fatalf("write markdown: %v", err)
		}
	case "html":
		doc, err := report.RenderHTML(md, title)
		if err != nil {
			log.Fatalf("render html: %v", err)
		}
		if err := writeOutput(*outputPath, []byte(doc)); err != nil {
			log.Fatalf("write html: %v", err)
		}
	case "pdf":
		if *outputPath == "" {
			log.Fatal("-output is required for pdf")
		}
		pdf, err := report.NewPDFRenderer().Render(context.Background(), md, title)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*outputPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
	default:
		log.Fatalf("unsupported -format %q (want markdown, html, or pdf)", *format)
	}
}

func loadResponse(inputPath, dbPath, scenarioID string) (*simulation.SimulationResponse, error) {
	switch {
	case inputPath != "":
		blob, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, err
		}
		var resp simulation.SimulationResponse
		if err := json.Unmarshal(blob, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	case dbPath != "" && scenarioID != "":
		store, err := history.Open(dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Get(scenarioID)
	default:
		flag.Usage()
		os.Exit(2)
		return nil, nil
	}
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
