package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stemsi/quizbank-backend/internal/config"
	"github.com/stemsi/quizbank-backend/internal/database"
	"github.com/stemsi/quizbank-backend/internal/logger"
	"github.com/stemsi/quizbank-backend/internal/repository"
	"github.com/stemsi/quizbank-backend/internal/service"
)

func main() {
	var path string
	var dryRun bool
	flag.StringVar(&path, "file", "", "Path to the xlsx workbook")
	flag.BoolVar(&dryRun, "dry-run", false, "Parse and report without storing")
	flag.Parse()

	if path == "" {
		fmt.Println("Usage: import-questions -file <questions.xlsx> [-dry-run]")
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to open workbook")
	}
	defer f.Close()

	inputs, rowErrs, err := service.ParseQuestionSheet(f)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse workbook")
	}

	fmt.Println("=== Importing Questions ===")
	for _, re := range rowErrs {
		fmt.Printf("Row %d skipped: %s\n", re.Row, re.Error)
	}
	fmt.Printf("Parsed %d questions, %d rows skipped.\n", len(inputs), len(rowErrs))

	if dryRun || len(inputs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionService := service.NewQuestionService(repository.NewQuestionRepository(pool), log)

	created, err := questionService.Create(ctx, inputs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to store questions")
	}

	fmt.Printf("\nSuccess! %d questions added to the catalog.\n", len(created))
}
