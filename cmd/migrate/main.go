// Package main implements the migration entry point that imports a
// legacy flat-archive JSON file into the content graph containers.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/cardgraph/internal/config"
	"github.com/phrazzld/cardgraph/internal/platform/jsonstore"
	"github.com/phrazzld/cardgraph/internal/platform/logger"
	"github.com/phrazzld/cardgraph/internal/service"
)

func main() {
	archivePath := flag.String("archive", "legacy_cards.json",
		"path to the legacy archive JSON file")
	flag.Parse()

	if err := run(*archivePath); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

// run loads configuration, wires the store and services, and imports the
// archive. Kept separate from main so the exit path stays trivial.
func run(archivePath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	graph, err := jsonstore.Open(cfg.Data.Dir, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open data directory %q: %w", cfg.Data.Dir, err)
	}

	creators := graph.Creators()
	sets := graph.Sets()
	cards := graph.Cards()

	validator, err := service.NewIntegrityValidator(creators, sets, cards)
	if err != nil {
		return fmt.Errorf("failed to build integrity validator: %w", err)
	}
	writer, err := service.NewBatchWriter(creators, sets, cards, validator, appLogger)
	if err != nil {
		return fmt.Errorf("failed to build batch writer: %w", err)
	}
	importer, err := service.NewImportService(
		creators, sets, cards, writer, service.DefaultImporterConfig(), appLogger)
	if err != nil {
		return fmt.Errorf("failed to build import service: %w", err)
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return fmt.Errorf("failed to read archive %q: %w", archivePath, err)
	}
	var archive service.LegacyArchive
	if err := json.Unmarshal(data, &archive); err != nil {
		return fmt.Errorf("failed to parse archive %q: %w", archivePath, err)
	}

	slog.Info("Importing legacy archive",
		"archive", archivePath,
		"cards", len(archive.Cards),
		"data_dir", cfg.Data.Dir)

	result, err := importer.ImportArchive(context.Background(), archive)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	slog.Info("Import finished",
		"creator_created", result.CreatorCreated,
		"set_created", result.SetCreated,
		"cards_imported", result.CardsImported,
		"cards_skipped", result.CardsSkipped)
	for _, warning := range result.Warnings {
		slog.Warn("Import warning", "detail", warning)
	}

	return nil
}
