// healthbridge-import loads Health Auto Export files into the HealthKit
// mirror. Accepts plain or gzipped JSON exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/healthbridge/internal/importer"
	"github.com/claude/healthbridge/internal/provider/healthkit"
)

func main() {
	dbPath := flag.String("db", "", "path to the HealthKit mirror SQLite file (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the mirror")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dbPath == "" || flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: healthbridge-import -db healthkit.db [-dry-run] export.json [export2.json.gz ...]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	store, err := healthkit.OpenStore(*dbPath)
	if err != nil {
		log.Error("failed to open mirror", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if *dryRun {
		log.Info("DRY RUN mode — nothing will be written to the mirror")
	}

	imp := importer.New(store, nil, log, *dryRun)
	ctx := context.Background()

	var failed bool
	for _, path := range flag.Args() {
		summary, err := imp.ImportFile(ctx, path)
		if err != nil {
			log.Error("import failed", "file", filepath.Base(path), "error", err)
			failed = true
			continue
		}
		log.Info("imported",
			"file", filepath.Base(path),
			"quantitySamples", summary.QuantitySamples,
			"categorySamples", summary.CategorySamples,
			"workouts", summary.Workouts,
			"rejectedMetrics", len(summary.RejectedMetrics),
		)
		for _, name := range summary.RejectedMetrics {
			log.Warn("unknown metric skipped", "metric", name)
		}
	}

	if failed {
		os.Exit(1)
	}
	log.Info("import complete")
}
