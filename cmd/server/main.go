/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the bookkeeping ledger server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Read environment configuration, then apply flag overrides
  2. Initialize SQLite store
  3. Create session manager and API handler
  4. Configure HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  PORT             HTTP server port (default: 8080)
  DB_PATH          SQLite database path (default: ledger.db)
                   Use ":memory:" for an in-memory database
  ALLOWED_ORIGINS  Comma-separated CORS origins (default: localhost dev)

  Flags -port and -db override the environment when set.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close open sessions and the database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/books.db"

  # Run on different port
  PORT=3000 ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/warp/ledger-engine/api"
	"github.com/warp/ledger-engine/store/sqlite"
)

type config struct {
	Port           int      `env:"PORT" envDefault:"8080"`
	DBPath         string   `env:"DB_PATH" envDefault:"ledger.db"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}

	// Flags override the environment when set.
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Sessions and handler
	sessions := api.NewSessionManager(store)
	defer sessions.CloseAll()

	handler := api.NewHandler(sessions)
	router := api.NewRouter(handler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
