package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/specmock/specmock/internal/api"
	"github.com/specmock/specmock/internal/config"
	"github.com/specmock/specmock/internal/engine"
	"github.com/specmock/specmock/internal/sources"
	"github.com/specmock/specmock/internal/stats"
	"github.com/specmock/specmock/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Specmock server",
	Long: `Starts the Specmock server.

The server will:
  - Load HAR archives and OpenAPI documents listed in the configuration
  - Register one interception handler per archive entry and spec operation
  - Expose the Admin API at /_api/
  - Answer every other request through the interception engine

Configuration is loaded from config.yaml in the current directory,
or specify a custom config file with the --config flag.`,
	RunE: runServe,
}

var portFlag int

func init() {
	serveCmd.Flags().IntVarP(&portFlag, "port", "p", 0, "Override server port")
	serveCmd.Flags().StringSlice("archive", nil, "HAR archive to load (repeatable)")
	serveCmd.Flags().StringSlice("spec", nil, "OpenAPI document to load (repeatable)")

	// Bind flags to viper
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("sources.archives", serveCmd.Flags().Lookup("archive"))
	viper.BindPFlag("sources.specs", serveCmd.Flags().Lookup("spec"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromViper()
	if err != nil {
		return err
	}

	// Override port if flag was explicitly set
	if portFlag > 0 {
		cfg.Server.Port = portFlag
	}

	// Initialize statistics collector
	statsCollector := stats.NewCollector()

	// Initialize tracing service
	tracingService := tracing.NewService(cfg.Tracing.MaxTraces)

	// Initialize interception engine
	mockEngine := engine.New(statsCollector, tracingService)

	// Load declarative sources and register their handlers
	handlers, err := sources.Load(cfg.Sources)
	if err != nil {
		return err
	}
	if err := mockEngine.RegisterAll(handlers); err != nil {
		return fmt.Errorf("register handlers: %w", err)
	}
	log.Printf("Registered %d handlers", len(handlers))

	// Setup router
	router := api.NewRouter(mockEngine, statsCollector, tracingService)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting Specmock server on %s", addr)
		log.Printf("Admin API available at http://%s/_api/", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}
