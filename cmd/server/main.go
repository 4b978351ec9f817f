/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the alarm engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Start the in-process exact-alarm scheduler (fire callback registered)
  4. Create the scheduling service and HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: alarms.db)
           Use ":memory:" for an in-memory database
  -level   Log level (default: info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the scheduler and close the database
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/alarms.db"

  # Run with in-memory database
  ./server -db=":memory:" -level=debug

SEE ALSO:
  - api/server.go: Router configuration
  - platform/local: In-process scheduler
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/alarm-engine/alarm"
	"github.com/warp/alarm-engine/api"
	"github.com/warp/alarm-engine/firesignal"
	"github.com/warp/alarm-engine/platform/local"
	"github.com/warp/alarm-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "alarms.db", "SQLite database path")
	level := flag.String("level", "info", "log level")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger()

	// Initialize store
	store, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	// Start the exact-alarm scheduler with the process-wide fire callback.
	scheduler := local.NewScheduler(alarm.Fire, log)
	scheduler.Start()
	defer scheduler.Stop()

	// Log fire events so the engine is observable without a notification layer.
	fires, stopFires := firesignal.Subscribe(alarm.FireChannel)
	defer stopFires()
	go func() {
		for sig := range fires {
			log.Info().Int32("scheduler_id", sig.ID).Str("token", sig.Token).Msg("alarm fired")
		}
	}()

	service := alarm.NewSchedulingService(store, scheduler, local.NewPlatform(log), log)
	router := api.NewRouter(api.NewHandler(service, log))

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", *port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
