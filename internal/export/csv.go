// Package export renders portfolio data as semicolon-delimited CSV files.
// Files are written with a UTF-8 BOM so that spreadsheet applications on
// Windows detect the encoding.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/repository"
	"github.com/xKrikZ/MeinPortfolio-App/internal/service"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/utils"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var portfolioHeader = []string{
	"Symbol", "Name", "Menge", "Ø Kaufpreis", "Aktueller Kurs", "Währung",
	"Aktueller Wert", "Gesamtkosten", "Gewinn/Verlust", "Gewinn/Verlust %",
	"Letztes Update",
}

var priceHeader = []string{"Symbol", "Name", "Close", "Currency", "Source", "Datum"}

var dividendHeader = []string{
	"Symbol", "Name", "Datum", "Brutto", "Steuer", "Netto", "Währung", "Typ", "Notizen",
}

// Writer writes CSV exports into a target directory.
type Writer struct {
	outputDir string
}

// NewWriter creates a CSV writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// WritePortfolio exports the portfolio summary. Returns the written path.
func (w *Writer) WritePortfolio(summaries []dto.PortfolioSummary, filename string) (string, error) {
	if len(summaries) == 0 {
		return "", service.NewValidationError("Export nicht möglich", "Keine Portfolio-Daten vorhanden")
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Symbol,
			s.Name,
			formatQuantity(s.Quantity),
			formatAmount(s.AverageBuyPrice),
			formatAmount(s.CurrentPrice),
			s.Currency,
			formatAmount(s.CurrentValue),
			formatAmount(s.TotalCost),
			formatAmount(s.ProfitLoss),
			formatAmount(s.ProfitLossPercent),
			utils.FormatDate(s.LastUpdate),
		})
	}
	return w.write(filename, portfolioHeader, rows)
}

// WritePrices exports filtered price rows. Returns the written path.
func (w *Writer) WritePrices(prices []dto.PriceView, filename string) (string, error) {
	if len(prices) == 0 {
		return "", service.NewValidationError("Export nicht möglich", "Keine Kursdaten vorhanden")
	}

	rows := make([][]string, 0, len(prices))
	for _, p := range prices {
		rows = append(rows, []string{
			p.Symbol,
			p.Name,
			formatAmount(p.Close),
			p.Currency,
			p.Source,
			utils.FormatDate(p.PriceDate),
		})
	}
	return w.write(filename, priceHeader, rows)
}

// WriteDividends exports dividend payments. Returns the written path.
func (w *Writer) WriteDividends(dividends []repository.DividendRow, filename string) (string, error) {
	if len(dividends) == 0 {
		return "", service.NewValidationError("Export nicht möglich", "Keine Dividenden vorhanden")
	}

	rows := make([][]string, 0, len(dividends))
	for _, d := range dividends {
		rows = append(rows, []string{
			d.Symbol,
			d.Name,
			utils.FormatDate(d.PaymentDate),
			formatAmount(d.Amount),
			formatAmount(d.TaxWithheld),
			formatAmount(d.Amount - d.TaxWithheld),
			d.Currency,
			d.DividendType,
			d.Notes,
		})
	}
	return w.write(filename, dividendHeader, rows)
}

// DefaultFilename builds a timestamped export name such as
// "portfolio_export_2024-05-01.csv".
func DefaultFilename(kind string) string {
	return fmt.Sprintf("%s_export_%s.csv", kind, utils.FormatDate(time.Now()))
}

func (w *Writer) write(filename string, header []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(w.outputDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return "", err
	}

	cw := csv.NewWriter(f)
	cw.Comma = ';'

	if err := cw.Write(header); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}
	return path, nil
}

// formatQuantity renders a quantity with up to six decimal places, trimming
// trailing zeros so whole-share counts stay readable.
func formatQuantity(q float64) string {
	s := strconv.FormatFloat(q, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func formatAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', 2, 64)
}
