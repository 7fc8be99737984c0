package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/pkg/utils"
)

// Input bounds shared by quantity and price validation.
const (
	minAmount       = 1e-8
	maxAmount       = 1e9
	maxSymbolLength = 255
)

// normalizeNumber accepts German-style decimal commas and embedded spaces.
func normalizeNumber(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), " ", "")
}

// ParseQuantity validates and parses a quantity entered as text.
func ParseQuantity(quantityStr string) (float64, error) {
	if strings.TrimSpace(quantityStr) == "" {
		return 0, NewValidationError("Menge fehlt", "Bitte geben Sie eine Menge ein.")
	}

	quantity, err := strconv.ParseFloat(normalizeNumber(quantityStr), 64)
	if err != nil {
		return 0, NewValidationError("Ungültige Menge", fmt.Sprintf("'%s' ist keine gültige Zahl.", quantityStr))
	}

	if quantity <= 0 {
		return 0, NewValidationError("Menge muss positiv sein", fmt.Sprintf("Menge %v ist nicht erlaubt. Muss > 0 sein.", quantity))
	}
	if quantity < minAmount {
		return 0, NewValidationError("Menge zu klein", fmt.Sprintf("Minimum: %v", minAmount))
	}
	if quantity > maxAmount {
		return 0, NewValidationError("Menge zu groß", fmt.Sprintf("Maximum: %v", maxAmount))
	}

	return quantity, nil
}

// ParsePrice validates and parses a price entered as text.
func ParsePrice(priceStr string) (float64, error) {
	if strings.TrimSpace(priceStr) == "" {
		return 0, NewValidationError("Preis fehlt", "Bitte geben Sie einen Preis ein.")
	}

	price, err := strconv.ParseFloat(normalizeNumber(priceStr), 64)
	if err != nil {
		return 0, NewValidationError("Ungültiger Preis", fmt.Sprintf("'%s' ist keine gültige Zahl.", priceStr))
	}

	if price <= 0 {
		return 0, NewValidationError("Preis muss positiv sein", fmt.Sprintf("Preis %v ist nicht erlaubt. Muss > 0 sein.", price))
	}
	if price < minAmount {
		return 0, NewValidationError("Preis zu klein", fmt.Sprintf("Minimum: %v", minAmount))
	}
	if price > maxAmount {
		return 0, NewValidationError("Preis zu groß", fmt.Sprintf("Maximum: %v", maxAmount))
	}

	return price, nil
}

// ParseTax validates and parses a withheld-tax amount. An empty string
// means no tax was withheld.
func ParseTax(taxStr string) (float64, error) {
	if strings.TrimSpace(taxStr) == "" {
		return 0, nil
	}

	tax, err := strconv.ParseFloat(normalizeNumber(taxStr), 64)
	if err != nil {
		return 0, NewValidationError("Ungültige Steuer", fmt.Sprintf("'%s' ist keine gültige Zahl.", taxStr))
	}

	if tax < 0 {
		return 0, NewValidationError("Ungültige Steuer", "Steuer darf nicht negativ sein.")
	}

	return tax, nil
}

// ValidateCurrency checks a 3-letter currency code and returns it uppercased.
func ValidateCurrency(currency string) (string, error) {
	clean := strings.ToUpper(strings.TrimSpace(currency))

	if clean == "" {
		return "", NewValidationError("Währung fehlt", "Bitte geben Sie eine Währung ein.")
	}
	if len(clean) != 3 {
		return "", NewValidationError("Ungültige Währung", fmt.Sprintf("'%s' ist kein gültiger Währungscode (z.B. EUR, USD)", currency))
	}
	for _, r := range clean {
		if r < 'A' || r > 'Z' {
			return "", NewValidationError("Ungültige Währung", "Währung darf nur Buchstaben enthalten.")
		}
	}

	return clean, nil
}

// ValidateDate rejects zero dates, future dates and dates before 1970, and
// returns the date truncated to midnight.
func ValidateDate(d time.Time) (time.Time, error) {
	if d.IsZero() {
		return time.Time{}, NewValidationError("Datum fehlt", "Bitte wählen Sie ein Datum.")
	}

	day := utils.DateOnly(d)

	if day.After(utils.Today()) {
		return time.Time{}, NewValidationError(
			"Datum in der Zukunft",
			fmt.Sprintf("%s liegt in der Zukunft. Kurse/Transaktionen können nur für vergangene Daten eingetragen werden.", utils.FormatDate(day)),
		)
	}
	if day.Year() < 1970 {
		return time.Time{}, NewValidationError(
			"Datum zu weit in der Vergangenheit",
			fmt.Sprintf("%s ist vor 1970.", utils.FormatDate(day)),
		)
	}

	return day, nil
}

// ParseDate parses a YYYY-MM-DD string and applies ValidateDate.
func ParseDate(dateStr string) (time.Time, error) {
	d, err := utils.ParseDate(strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, NewValidationError("Ungültiges Datum", fmt.Sprintf("'%s' ist kein gültiges Datum (Format: YYYY-MM-DD).", dateStr))
	}
	return ValidateDate(d)
}

// ValidateSymbol checks an asset symbol and returns it trimmed and uppercased.
func ValidateSymbol(symbol string) (string, error) {
	clean := strings.ToUpper(strings.TrimSpace(symbol))

	if clean == "" {
		return "", NewValidationError("Symbol fehlt", "Bitte geben Sie ein Symbol ein.")
	}
	if len(clean) > maxSymbolLength {
		return "", NewValidationError("Symbol zu lang", fmt.Sprintf("Maximum %d Zeichen.", maxSymbolLength))
	}

	for _, fragment := range []string{"'", `"`, ";", "--", "/*", "*/", "DROP", "DELETE", "INSERT"} {
		if strings.Contains(clean, fragment) {
			return "", NewValidationError("Ungültiges Symbol", fmt.Sprintf("Symbol darf '%s' nicht enthalten.", fragment))
		}
	}

	return clean, nil
}
