// Package insight renders the daily natural-language sales report.
// Generation is pure template branching on the overall status plus field
// interpolation: no randomness and no external calls, so two runs on the
// same summary produce byte-identical text.
package insight

import (
	"fmt"
	"strings"

	"github.com/prasetyo/sentra/internal/contracts"
	"github.com/prasetyo/sentra/pkg/format"
)

// Bullet caps in the alerts section.
const (
	maxCriticalBullets = 3
	maxWarningBullets  = 2
)

// dayNames translates English day names for the report header.
var dayNames = map[string]string{
	"Monday":    "Senin",
	"Tuesday":   "Selasa",
	"Wednesday": "Rabu",
	"Thursday":  "Kamis",
	"Friday":    "Jumat",
	"Saturday":  "Sabtu",
	"Sunday":    "Minggu",
}

// Compose builds the daily insight report from a portfolio summary.
func Compose(summary *contracts.PortfolioSummary) string {
	var b strings.Builder

	dayName := summary.DayName
	if translated, ok := dayNames[dayName]; ok {
		dayName = translated
	}

	fmt.Fprintf(&b, "🧾 LAPORAN PENJUALAN HARIAN — %s, %s\n\n", dayName, summary.Date)
	b.WriteString("📌 **Ringkasan Eksekutif**\n")
	writeExecutiveSummary(&b, summary)

	b.WriteString("\n📊 **Metrik Utama**\n")
	fmt.Fprintf(&b, "- **Total Penjualan**: %s\n", format.Currency(summary.TotalSales))
	fmt.Fprintf(&b, "- **Target**: %s\n", format.Currency(summary.TotalTarget))
	fmt.Fprintf(&b, "- **Selisih vs Target**: %s\n", format.SignedPercent(summary.PortfolioAchievement-100))
	fmt.Fprintf(&b, "- **Perubahan vs Kemarin**: %s\n", format.SignedPercent(summary.DeltaVsYesterday))

	b.WriteString("\n⚠️ **Peringatan & Risiko**\n")
	writeAlerts(&b, summary)

	b.WriteString("\n🧠 **Analisis AI (Mengapa ini terjadi)**\n")
	writeAnalysis(&b, summary.OverallStatus)

	b.WriteString("\n🎯 **Tindakan yang Direkomendasikan (Hari Ini)**\n")
	writeRecommendations(&b, summary.OverallStatus)

	fmt.Fprintf(&b, "\n**Status**: %s %s\n", statusEmoji(summary.OverallStatus), summary.OverallStatus)

	return b.String()
}

func writeExecutiveSummary(b *strings.Builder, summary *contracts.PortfolioSummary) {
	trend := trendWord(summary.DeltaVsYesterday)
	achievement := format.Percent(summary.PortfolioAchievement)
	deltaAbs := format.Percent(abs(summary.DeltaVsYesterday))

	switch summary.OverallStatus {
	case contracts.StatusCritical:
		fmt.Fprintf(b, "- Portofolio berkinerja jauh di bawah target: **%s dari target tercapai**\n", achievement)
		fmt.Fprintf(b, "- %d masalah kritis memerlukan perhatian segera\n", summary.CriticalCount)
		fmt.Fprintf(b, "- Penjualan %s %s vs kemarin\n", trend, deltaAbs)
		b.WriteString("- Intervensi mendesak diperlukan untuk mencegah penurunan lebih lanjut\n")
		b.WriteString("- Manajer regional harus menyelidiki akar masalah hari ini\n")
	case contracts.StatusWarning:
		fmt.Fprintf(b, "- Portofolio mencapai **%s dari target** — di bawah ekspektasi\n", achievement)
		fmt.Fprintf(b, "- %d sinyal peringatan terdeteksi, %d masalah kritis\n", summary.WarningCount, summary.CriticalCount)
		fmt.Fprintf(b, "- Penjualan %s %s vs kemarin\n", trend, deltaAbs)
		b.WriteString("- Pemantauan ketat diperlukan; siapkan rencana kontingensi\n")
		b.WriteString("- Beberapa titik terang teridentifikasi pada performa terbaik\n")
	default:
		fmt.Fprintf(b, "- Portofolio berkinerja baik: **%s dari target tercapai**\n", achievement)
		b.WriteString("- Semua wilayah dan produk dalam rentang yang dapat diterima\n")
		fmt.Fprintf(b, "- Penjualan %s %s vs kemarin\n", trend, deltaAbs)
		b.WriteString("- Tidak ada kekhawatiran mendesak; pertahankan momentum saat ini\n")
		b.WriteString("- Lanjutkan pemantauan untuk tren yang muncul\n")
	}
}

func writeAlerts(b *strings.Builder, summary *contracts.PortfolioSummary) {
	criticals := summary.CriticalIssues
	if len(criticals) > maxCriticalBullets {
		criticals = criticals[:maxCriticalBullets]
	}
	for _, issue := range criticals {
		fmt.Fprintf(b, "- 🚨 **KRITIS**: %s - %s: %s (%s vs target, %s vs kemarin). %s\n",
			issue.Region, issue.Product,
			format.Currency(issue.TotalSales),
			format.SignedPercent(issue.DeltaVsTarget),
			format.SignedPercent(issue.DeltaVsYesterday),
			issue.PrimaryIssue(),
		)
	}

	warnings := summary.WarningIssues
	if len(warnings) > maxWarningBullets {
		warnings = warnings[:maxWarningBullets]
	}
	for _, issue := range warnings {
		fmt.Fprintf(b, "- ⚠️ **PERINGATAN**: %s - %s (%s vs target). %s\n",
			issue.Region, issue.Product,
			format.SignedPercent(issue.DeltaVsTarget),
			issue.PrimaryIssue(),
		)
	}

	if len(summary.CriticalIssues) == 0 && len(summary.WarningIssues) == 0 {
		b.WriteString("- ✅ Tidak ada masalah kritis atau peringatan terdeteksi\n")
	}
}

func writeAnalysis(b *strings.Builder, status contracts.Status) {
	switch status {
	case contracts.StatusCritical:
		b.WriteString("- Penurunan tajam menunjukkan masalah operasional (inventori, staf, sistem) atau faktor eksternal (aktivitas kompetitor, cuaca)\n")
		b.WriteString("- Beberapa masalah kritis mengindikasikan masalah sistemik yang memerlukan perhatian pimpinan\n")
		b.WriteString("- Analisis pola menunjukkan ini bukan fluktuasi normal\n")
	case contracts.StatusWarning:
		b.WriteString("- Penurunan kinerja mungkin sementara, tetapi tren memerlukan pemantauan\n")
		b.WriteString("- Beberapa wilayah/produk berkinerja buruk sementara yang lain mengkompensasi\n")
		b.WriteString("- Pola akhir pekan/hari kerja mungkin mempengaruhi hasil\n")
	default:
		b.WriteString("- Eksekusi kuat di semua wilayah dan lini produk\n")
		b.WriteString("- Momentum penjualan positif dan berkelanjutan\n")
		b.WriteString("- Strategi saat ini efektif\n")
	}
}

func writeRecommendations(b *strings.Builder, status contracts.Status) {
	switch status {
	case contracts.StatusCritical:
		b.WriteString("1. **MENDESAK**: Manajer regional hubungi lokasi yang berkinerja buruk segera\n")
		b.WriteString("2. **MENDESAK**: Verifikasi inventori, staf, dan fungsi sistem\n")
		b.WriteString("3. Eskalasi ke VP Penjualan jika masalah tidak terselesaikan pada akhir hari\n")
		b.WriteString("4. Siapkan rencana tindakan korektif untuk besok\n")
		b.WriteString("5. Periksa ulang penjualan jam 3 sore untuk menilai efektivitas intervensi\n")
	case contracts.StatusWarning:
		b.WriteString("1. Tinjau kombinasi wilayah-produk yang ditandai untuk masalah yang diketahui\n")
		b.WriteString("2. Periksa promosi kompetitor atau perubahan pasar\n")
		b.WriteString("3. Siapkan kontingensi jika tren berlanjut besok\n")
		b.WriteString("4. Pantau dengan ketat sepanjang hari\n")
		b.WriteString("5. Dokumentasikan temuan untuk analisis pola\n")
	default:
		b.WriteString("1. Lanjutkan strategi dan eksekusi penjualan saat ini\n")
		b.WriteString("2. Bagikan praktik terbaik dari performa terbaik\n")
		b.WriteString("3. Pertahankan tingkat inventori dan staf\n")
		b.WriteString("4. Pantau untuk masalah yang muncul\n")
		b.WriteString("5. Persiapkan untuk periode promosi mendatang\n")
	}
}

func statusEmoji(status contracts.Status) string {
	switch status {
	case contracts.StatusCritical:
		return "🚨"
	case contracts.StatusWarning:
		return "⚠️"
	default:
		return "✅"
	}
}

func trendWord(delta float64) string {
	if delta < 0 {
		return "menurun"
	}
	return "meningkat"
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
