package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stemsi/quizbank-backend/internal/config"
	"github.com/stemsi/quizbank-backend/internal/database"
	"github.com/stemsi/quizbank-backend/internal/identity"
	"github.com/stemsi/quizbank-backend/internal/logger"
	"github.com/stemsi/quizbank-backend/internal/model"
	"github.com/stemsi/quizbank-backend/internal/repository"
	"github.com/stemsi/quizbank-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL and Redis ───────────────────────────────
	clients, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to backing stores")
	}
	defer clients.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	accountService := service.NewAccountService(
		repository.NewAccountRepository(clients.Pool),
		repository.NewAssignmentRepository(clients.Pool),
		identity.NewCasdoorGateway(cfg.Casdoor, log),
		service.NewAuthService(cfg, clients.Redis),
		log,
	)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin Account ===")

	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println()
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	account, err := accountService.RegisterAdmin(ctx, model.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %s\n", account.Name, account.Email, account.ID)
}
