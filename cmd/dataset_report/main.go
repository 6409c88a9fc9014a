package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/pageza/pantry/backend/config"
	"github.com/pageza/pantry/backend/internal/logger"
	"github.com/pageza/pantry/backend/internal/service"
)

// dataset_report loads the configured dataset and prints how each recipe's
// image was resolved, so a new dataset drop can be checked before deploying.
func main() {
	query := flag.String("ingredients", "", "optional comma-separated ingredients to run a sample search")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zlog := logger.New(logger.Config{Level: "warn", Format: "console"})

	path := cfg.DatasetPath
	if config.IsS3URI(path) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		s3cfg, err := config.NewS3Config(ctx, cfg.AWSRegion)
		if err != nil {
			log.Fatalf("Failed to configure S3: %v", err)
		}
		if path, err = s3cfg.FetchDataset(ctx, cfg.DatasetPath, cfg.DatasetCacheDir); err != nil {
			log.Fatalf("Failed to fetch dataset: %v", err)
		}
	}

	ds, err := service.LoadDataset(path, cfg.ImagesDir, zlog)
	if err != nil {
		log.Printf("Dataset only partially loaded: %v", err)
	}

	fmt.Printf("dataset:      %s\n", path)
	fmt.Printf("recipes:      %d\n", len(ds.Recipes))
	fmt.Printf("images:       %d\n", ds.ImageCount)
	fmt.Printf("skipped rows: %d\n\n", ds.SkippedRows)

	tiers := make([]string, 0, len(ds.TierCounts))
	for tier := range ds.TierCounts {
		tiers = append(tiers, tier)
	}
	sort.Strings(tiers)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIER\tRECIPES")
	for _, tier := range tiers {
		fmt.Fprintf(w, "%s\t%d\n", tier, ds.TierCounts[tier])
	}
	w.Flush()

	if *query == "" {
		return
	}
	catalog := service.NewCatalog(ds.Recipes, service.NewImageLocator(cfg.ImagesDir, cfg.StaticImagesDir()))
	resp := catalog.Search(*query)
	if len(resp.Query) == 0 {
		fmt.Println("\nno usable ingredients in query")
		return
	}
	fmt.Printf("\nsearch %v: %d results\n", resp.Query, len(resp.Results))
	for _, r := range resp.Results {
		fmt.Printf("  %3d%%  %s  (%s)\n", *r.MatchPercent, r.Title, r.ImageURL)
	}
}
