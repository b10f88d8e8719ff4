package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/postlens/post-analyzer-api/internal/domain/apikey"
	"github.com/postlens/post-analyzer-api/internal/storage/postgres"
	"github.com/postlens/post-analyzer-api/internal/util"
	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "Email of the account to issue the key for")
	label := flag.String("label", "CLI-issued key", "Human-readable label for the key")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email flag is required")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	logger, _ := zap.NewDevelopment()
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	accountRepo := postgres.NewAccountRepository(pool, logger)
	keyRepo := postgres.NewAPIKeyRepository(pool, logger)

	acc, err := accountRepo.FindByEmail(context.Background(), *email)
	if err != nil {
		log.Fatalf("Failed to find account %q: %v", *email, err)
	}

	plaintext, digest, suffix, err := util.GenerateAPIKey()
	if err != nil {
		log.Fatalf("Failed to generate API key: %v", err)
	}

	keyID, err := keyRepo.Create(context.Background(), &apikey.APIKey{
		AccountID: acc.ID,
		Label:     *label,
		Digest:    digest,
		Suffix:    suffix,
	})
	if err != nil {
		log.Fatalf("Failed to save API key to database: %v", err)
	}

	fmt.Printf("Generated API Key (SAVE THIS securely, it will not be shown again!):\n%s\n\n", plaintext)
	fmt.Printf("Key ID:  %s\n", keyID)
	fmt.Printf("Account: %s (%s)\n", acc.Email, acc.ID)
	fmt.Printf("Suffix:  %s\n", suffix)
}
