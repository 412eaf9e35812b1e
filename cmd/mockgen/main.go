package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"sprint-metrics/cmd/mockgen/engine"
	"sprint-metrics/internal/jira"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, chaos, drift")
	distribution := flag.String("distribution", "uniform", "Distribution to use: uniform, weibull")
	out := flag.String("out", "./.cache/dataset.json", "Output path for the dataset file")
	sprints := flag.Int("sprints", 6, "Number of sprints to generate")
	issues := flag.Int("issues", 20, "Number of issues per sprint")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:        *scenario,
		Distribution:    *distribution,
		Sprints:         *sprints,
		IssuesPerSprint: *issues,
		Now:             time.Now(),
		Seed:            *seed,
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Sprints: %d x %d issues) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Sprints, cfg.IssuesPerSprint, *out)

	if err := jira.SaveDataset(*out, engine.Generate(cfg)); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done. Point JIRA_DATASET at the file to use it.")
}
