package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prasetyo/sentra/internal/convert"
	"github.com/prasetyo/sentra/pkg/logger"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [input.csv]",
	Short: "Konversi data transaksi mentah",
	Long: `Mengonversi CSV transaksi retail mentah menjadi dataset penjualan harian.

Perintah ini:
- Mengagregasi transaksi per hari/wilayah/produk
- Menurunkan kolom target, tren dan delta
- Menyimpan hasil ke path dataset (atau --output)

Example:
  go run ./cmd/sentra convert raw_retail.csv
  go run ./cmd/sentra convert raw_retail.csv --output data/daily_sales.csv
  go run ./cmd/sentra convert raw_retail.csv --keep-days 60`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

var (
	convertOutput   string
	convertKeepDays int
)

func init() {
	rootCmd.AddCommand(convertCmd)

	// Flags
	convertCmd.Flags().StringVar(&convertOutput, "output", "", "path file hasil (default DATA_PATH)")
	convertCmd.Flags().IntVar(&convertKeepDays, "keep-days", 0, "batasi hasil ke N hari terakhir (default 30)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	outputPath := convertOutput
	if outputPath == "" {
		outputPath = cfg.Data.Path
	}

	opts := convert.DefaultOptions()
	if convertKeepDays > 0 {
		opts.KeepDays = convertKeepDays
	}

	// 3. Convert
	converter := convert.New(opts, log)

	rows, err := converter.ConvertFile(inputPath, outputPath)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Converted %s -> %s (%d rows)\n", inputPath, outputPath, rows)
	return nil
}
