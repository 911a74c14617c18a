package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kwintel/internal/analysis"
	"kwintel/internal/config"
	"kwintel/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	yamlCfg.Apply(cfg)

	gscPath := flag.String("gsc", "", "Organic search performance CSV (required)")
	adsPath := flag.String("ads", "", "Paid search spend CSV (required)")
	outPath := flag.String("out", "", "Output path for the recommendation report (required)")
	fuzzy := flag.Bool("fuzzy", cfg.FuzzyEnabled, "Enable approximate keyword matching")
	threshold := flag.Int("threshold", cfg.FuzzyThreshold, "Approximate match acceptance threshold (0-100)")
	segmentsDir := flag.String("segments-dir", "", "Optional directory to write segment CSVs")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *gscPath == "" || *adsPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: kwintel --gsc organic.csv --ads paid.csv --out report.md [--fuzzy] [--threshold 90] [--segments-dir DIR]")
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	var aliases map[string][]string
	if yamlCfg != nil {
		aliases = yamlCfg.FieldAliases
	}
	pipeline := analysis.NewPipeline(logger, service.NewSchemaResolverWithAliases(aliases))

	result, err := pipeline.RunCSVFiles(*gscPath, *adsPath, analysis.Options{
		Fuzzy:     *fuzzy,
		Threshold: *threshold,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis error: %v\n", err)
		os.Exit(1)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if err := analysis.WriteReport(result, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "write error: %v\n", err)
		os.Exit(1)
	}
	if *segmentsDir != "" {
		if err := analysis.WriteSegments(result, *segmentsDir); err != nil {
			fmt.Fprintf(os.Stderr, "write error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Wrote recommendations to %s\n", *outPath)
	fmt.Printf("Segments: overlap=%d organic_only=%d paid_only=%d\n",
		result.Segments.Overlap.Len(),
		result.Segments.OrganicOnly.Len(),
		result.Segments.PaidOnly.Len())
}
