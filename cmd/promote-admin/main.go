package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/stemsi/quizbank-backend/internal/config"
	"github.com/stemsi/quizbank-backend/internal/database"
	"github.com/stemsi/quizbank-backend/internal/logger"
	"github.com/stemsi/quizbank-backend/internal/repository"
)

func main() {
	var email string
	var revoke bool
	flag.StringVar(&email, "email", "", "Email of the account to change")
	flag.BoolVar(&revoke, "revoke", false, "Remove the administrator flag instead of granting it")
	flag.Parse()

	if email == "" {
		fmt.Println("Usage: promote-admin -email <address> [-revoke]")
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	accountRepo := repository.NewAccountRepository(pool)

	if err := accountRepo.SetAdmin(ctx, email, !revoke); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			fmt.Printf("Error: no account with email %s\n", email)
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Failed to update administrator flag")
	}

	if revoke {
		fmt.Printf("Success! %s is no longer an administrator.\n", email)
		return
	}
	fmt.Printf("Success! %s is now an administrator.\n", email)
}
