package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/repository"
	"github.com/xKrikZ/MeinPortfolio-App/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readExport(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "file must start with a UTF-8 BOM")

	r := csv.NewReader(bytes.NewReader(data[3:]))
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestWritePortfolio(t *testing.T) {
	w := NewWriter(t.TempDir())

	path, err := w.WritePortfolio([]dto.PortfolioSummary{
		{
			Symbol:            "SAP",
			Name:              "SAP SE",
			Quantity:          10.5,
			AverageBuyPrice:   133.333333,
			CurrentPrice:      150,
			Currency:          "EUR",
			CurrentValue:      1575,
			TotalCost:         1400,
			ProfitLoss:        175,
			ProfitLossPercent: 12.5,
			LastUpdate:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}, "portfolio.csv")
	require.NoError(t, err)

	records := readExport(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"Symbol", "Name", "Menge", "Ø Kaufpreis", "Aktueller Kurs", "Währung",
		"Aktueller Wert", "Gesamtkosten", "Gewinn/Verlust", "Gewinn/Verlust %",
		"Letztes Update",
	}, records[0])
	assert.Equal(t, []string{
		"SAP", "SAP SE", "10.5", "133.33", "150.00", "EUR",
		"1575.00", "1400.00", "175.00", "12.50", "2024-03-01",
	}, records[1])
}

func TestWritePortfolio_WholeQuantityTrimmed(t *testing.T) {
	w := NewWriter(t.TempDir())

	path, err := w.WritePortfolio([]dto.PortfolioSummary{
		{Symbol: "SAP", Quantity: 10, Currency: "EUR", LastUpdate: time.Now()},
	}, "portfolio.csv")
	require.NoError(t, err)

	records := readExport(t, path)
	assert.Equal(t, "10", records[1][2])
}

func TestWritePrices(t *testing.T) {
	w := NewWriter(t.TempDir())

	path, err := w.WritePrices([]dto.PriceView{
		{
			Symbol:    "BMW",
			Name:      "BMW AG",
			Close:     87.4,
			Currency:  "EUR",
			Source:    "manual_gui",
			PriceDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}, "prices.csv")
	require.NoError(t, err)

	records := readExport(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Symbol", "Name", "Close", "Currency", "Source", "Datum"}, records[0])
	assert.Equal(t, []string{"BMW", "BMW AG", "87.40", "EUR", "manual_gui", "2024-03-01"}, records[1])
}

func TestWriteDividends(t *testing.T) {
	w := NewWriter(t.TempDir())

	path, err := w.WriteDividends([]repository.DividendRow{
		{
			Symbol:       "SAP",
			Name:         "SAP SE",
			PaymentDate:  time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
			Amount:       120,
			TaxWithheld:  20,
			Currency:     "EUR",
			DividendType: "regular",
			Notes:        "Jahresdividende",
		},
	}, "dividends.csv")
	require.NoError(t, err)

	records := readExport(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"Symbol", "Name", "Datum", "Brutto", "Steuer", "Netto", "Währung", "Typ", "Notizen",
	}, records[0])
	assert.Equal(t, []string{
		"SAP", "SAP SE", "2024-05-15", "120.00", "20.00", "100.00", "EUR", "regular", "Jahresdividende",
	}, records[1])
}

func TestWrite_EmptyInputRejected(t *testing.T) {
	w := NewWriter(t.TempDir())

	var valErr *service.ValidationError
	_, err := w.WritePortfolio(nil, "portfolio.csv")
	assert.ErrorAs(t, err, &valErr)
	_, err = w.WritePrices(nil, "prices.csv")
	assert.ErrorAs(t, err, &valErr)
	_, err = w.WriteDividends(nil, "dividends.csv")
	assert.ErrorAs(t, err, &valErr)
}

func TestDefaultFilename(t *testing.T) {
	name := DefaultFilename("portfolio")
	assert.Regexp(t, `^portfolio_export_\d{4}-\d{2}-\d{2}\.csv$`, name)
}
