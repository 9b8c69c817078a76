// File: cmd/seed/main.go
//
// seed imports an instrument dump (broker CSV) into MongoDB. Run it once
// after downloading a fresh instrument list, then let the screener classify
// liquidity over the weekend.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/annuu1/StockAlertBot/internal/config"
	mongodb "github.com/annuu1/StockAlertBot/internal/infra/db/mongo"
	"github.com/annuu1/StockAlertBot/internal/infra/logging"
	"github.com/annuu1/StockAlertBot/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	csvPath := flag.String("csv", "", "path to the instrument CSV dump")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("usage: seed -csv instruments.csv [-config config.yaml]")
	}

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, disconnect, err := mongodb.Connect(ctx, cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		logger.Fatal().Err(err).Msg("mongo")
	}
	defer func() { _ = disconnect(context.Background()) }()

	f, err := os.Open(*csvPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *csvPath).Msg("open csv")
	}
	defer f.Close()

	importer := usecase.NewImportUseCase(mongodb.NewInstrumentRepo(db), logger)
	report, err := importer.ImportCSV(ctx, f)
	if err != nil {
		logger.Fatal().Err(err).Msg("import failed")
	}
	logger.Info().Int("imported", report.Imported).Int("skipped", report.Skipped).
		Str("path", *csvPath).Msg("instrument import complete")
}
