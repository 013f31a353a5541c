// Command sheetimport ingests spreadsheets from disk on behalf of a user,
// through the same pipeline as uploads.
//
//	sheetimport -owner 7f0c...e1 report.xlsx sales.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sheet-insights-api/internal"
)

func main() {
	owner := flag.String("owner", "", "uuid of the user the files are imported for")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s -owner <uuid> file...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	ownerID, err := uuid.Parse(*owner)
	if err != nil || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := internal.NewCLIApp(ctx)
	if err != nil {
		log.Fatalf("init app failed: %v", err)
	}
	defer app.Close()

	logger := app.Logger()
	is := app.IngestionService()

	// imports for unknown users would be unreachable through the API
	u, err := app.UserService().FindUserByID(ctx, ownerID)
	if err != nil {
		logger.Fatal("FindUserByID() error", zap.Error(err))
	}
	if u == nil {
		logger.Fatal("owner not found", zap.Stringer("owner_id", ownerID))
	}

	failed := 0
	for _, path := range flag.Args() {
		if ctx.Err() != nil {
			break
		}

		res, err := is.IngestPath(ctx, ownerID, path)
		if err != nil {
			failed++
			logger.Error("IngestPath() error", zap.String("path", path), zap.Error(err))
			continue
		}
		logger.Info("file imported",
			zap.String("path", path),
			zap.Stringer("file_id", res.File.ID),
			zap.Int("row_count", res.RowCount),
		)
	}

	if failed > 0 {
		app.Close()
		os.Exit(1)
	}
}
