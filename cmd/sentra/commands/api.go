package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/prasetyo/sentra/internal/agent"
	"github.com/prasetyo/sentra/internal/api"
	"github.com/prasetyo/sentra/internal/api/handlers"
	"github.com/prasetyo/sentra/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Jalankan dashboard web",
	Long: `Menjalankan server dashboard monitoring penjualan.

Perintah ini:
- Menjalankan server HTTP dashboard
- Menyediakan endpoint API JSON
- Menyediakan stream metrik via WebSocket

Endpoints:
  GET  /overview        - Ringkasan performa
  GET  /insight         - Laporan AI insight
  GET  /alerts          - Daftar alert aktif
  GET  /import          - Form unggah data CSV
  GET  /api/metrics     - Metrik ringkasan (JSON)
  GET  /api/report      - Laporan lengkap (JSON)
  GET  /ws/metrics      - Stream metrik (WebSocket)

Example:
  go run ./cmd/sentra api
  go run ./cmd/sentra api --port 8085`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "port server dashboard")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Sentra Dashboard ===")

	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
		"data": cfg.Data.Path,
	}).Info("Initializing dashboard server")

	// 3. Create the analysis agent
	salesAgent := agent.New(cfg, log)

	// 4. Create handlers
	pages, err := handlers.NewPageHandler(salesAgent, log)
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	analysis := handlers.NewAnalysisHandler(salesAgent, log)

	// 5. Create the live metrics hub
	hub := api.NewHub(salesAgent, log)

	importer := handlers.NewImportHandler(salesAgent, cfg, hub, log)

	// 6. Create router
	router := api.NewRouter(pages, analysis, importer, hub, log)

	// 7. Create server
	server := api.New(cfg, log, router)

	// 8. Start server with graceful shutdown
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx, 30*time.Second)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("Dashboard server started successfully")
	fmt.Printf("\n✅ Dashboard running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable pages:")
	fmt.Println("  GET  /overview")
	fmt.Println("  GET  /insight")
	fmt.Println("  GET  /alerts")
	fmt.Println("  GET  /workflow")
	fmt.Println("  GET  /import")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	stopHub()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
