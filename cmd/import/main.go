package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MaxKocheshkov/API-service-for-retail/internal/catalog"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/config"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/logger"
)

// Imports a supplier feed on behalf of a partner without going through
// the HTTP API. Useful for backfills and local testing.
func main() {
	logg := logger.New(logger.Options{ServiceName: "import"})

	_ = godotenv.Load()

	file := flag.String("file", "", "path to a YAML feed file")
	url := flag.String("url", "", "URL of a YAML feed")
	owner := flag.String("owner", "", "user id of the partner that owns the feed")

	flag.Parse()

	ctx := context.Background()

	if (*file == "") == (*url == "") {
		fmt.Fprintln(os.Stderr, "provide exactly one of -file or -url")
		os.Exit(1)
	}

	ownerID, err := uuid.Parse(*owner)
	if err != nil {
		fmt.Fprintln(os.Stderr, "-owner must be a user uuid")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "import",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	importer, err := catalog.NewImporter(catalog.ImporterParams{
		Repo:   catalog.NewRepository(dbClient.DB()),
		Tx:     dbClient,
		Config: cfg.Importer,
	})
	if err != nil {
		logg.Error(ctx, "failed to create feed importer", err)
		os.Exit(1)
	}

	var result *catalog.ImportResult
	if *url != "" {
		result, err = importer.ImportFromURL(ctx, ownerID, *url)
	} else {
		var data []byte
		data, err = os.ReadFile(*file)
		if err == nil {
			result, err = importer.ImportFeed(ctx, ownerID, data, nil)
		}
	}
	if err != nil {
		logg.Error(ctx, "feed import failed", err)
		os.Exit(1)
	}

	fmt.Printf("imported %q: %d categories, %d goods created, %d updated, %d parameters\n",
		result.Shop, result.Categories, result.GoodsCreated, result.GoodsUpdated, result.ParamsWritten)
}
