package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prasetyo/sentra/internal/agent"
	"github.com/prasetyo/sentra/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analisis sekali jalan",
	Long: `Menjalankan satu siklus analisis penuh dan mencetak laporannya.

Perintah ini:
- Memuat dataset penjualan harian
- Mengevaluasi aturan performa per baris
- Mencetak laporan eksekutif ke stdout

Example:
  go run ./cmd/sentra analyze
  go run ./cmd/sentra analyze --json
  go run ./cmd/sentra analyze --output report.md`,
	RunE: runAnalyze,
}

var (
	analyzeJSON   bool
	analyzeOutput string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "cetak hasil lengkap sebagai JSON")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "tulis laporan ke file")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Run one analysis cycle
	salesAgent := agent.New(cfg, log)

	result, err := salesAgent.Run()
	if err != nil {
		return fmt.Errorf("run analysis: %w", err)
	}

	// 4. Emit the report
	var output string
	if analyzeJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		output = string(data)
	} else {
		output = result.Insight
	}

	if analyzeOutput != "" {
		if err := os.WriteFile(analyzeOutput, []byte(output), 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("✅ Report written to %s\n", analyzeOutput)
		return nil
	}

	fmt.Println(output)
	return nil
}
