package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/franciscosanchezn/gin-tapas-api/internal/auth"
	"github.com/franciscosanchezn/gin-tapas-api/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command line flags
	ttl := flag.Duration("ttl", time.Hour, "Lifetime of the issued token")
	host := flag.String("host", "http://localhost:8080", "API base URL used in the printed example")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	gate, err := auth.NewGate(auth.Settings{
		Password: config.GetEnvWithDefault("AUTH_PASSWORD", ""),
		Secret:   config.GetEnvWithDefault("AUTH_SECRET_KEY", ""),
		TTL:      *ttl,
	})
	if err != nil {
		log.Fatal("Failed to build auth gate (set AUTH_PASSWORD and AUTH_SECRET_KEY): ", err)
	}

	token, expiresAt, err := gate.IssueToken()
	if err != nil {
		log.Fatal("Failed to issue token: ", err)
	}

	fmt.Println("✓ Development admin token issued")
	fmt.Printf("Token: %s\n", token)
	fmt.Printf("Expires at: %s\n", expiresAt.UTC().Format(time.RFC3339))
	fmt.Println("\nUse it for testing:")
	fmt.Printf("curl %s/api/tapas/main \\\n", *host)
	fmt.Printf("  -H 'Authorization: Bearer %s'\n", token)
}
