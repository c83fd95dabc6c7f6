package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prasetyo/sentra/internal/agent"
	"github.com/prasetyo/sentra/internal/scheduler"
	"github.com/prasetyo/sentra/internal/scheduler/jobs"
	"github.com/prasetyo/sentra/pkg/logger"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Jalankan scheduler laporan harian",
	Long: `Menjalankan scheduler yang menyusun laporan harian secara otomatis.

Registered jobs:
- daily_report: setiap hari jam 7 pagi (laporan eksekutif ke direktori reports)

Scheduler dapat dihentikan dengan Ctrl+C.

Example:
  go run ./cmd/sentra watch
  go run ./cmd/sentra watch --run-now`,
	RunE: runWatch,
}

var (
	watchRunNow bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	// Flags
	watchCmd.Flags().BoolVar(&watchRunNow, "run-now", false, "jalankan job laporan sekali sebelum menunggu jadwal")
}

func runWatch(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Sentra Scheduler ===")

	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Create the analysis agent
	salesAgent := agent.New(cfg, log)

	// 4. Create scheduler and register jobs
	sched := scheduler.New(log)

	reportJob := jobs.NewDailyReportJob(salesAgent, cfg.Reports.Dir, cfg.Reports.Schedule, log)
	if err := sched.AddJob(reportJob); err != nil {
		return fmt.Errorf("add job: %w", err)
	}

	// 5. Start scheduler
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if watchRunNow {
		if err := sched.RunJob(reportJob.Name()); err != nil {
			return fmt.Errorf("run job: %w", err)
		}
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}
