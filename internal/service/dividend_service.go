package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"
	"github.com/xKrikZ/MeinPortfolio-App/internal/repository"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/logger"

	"gorm.io/gorm"
)

// DividendService manages dividend payments and their aggregation.
type DividendService interface {
	AddDividend(ctx context.Context, req dto.AddDividendRequest) (uint, error)
	GetDividendsForAsset(ctx context.Context, assetID uint, year *int) ([]entity.Dividend, error)
	DeleteDividend(ctx context.Context, id uint) error
	GetDividendSummary(ctx context.Context, year *int) ([]dto.DividendSummary, error)
	GetTotalDividends(ctx context.Context, year *int, currency string) (float64, error)
	GetExportRows(ctx context.Context, year *int) ([]repository.DividendRow, error)
}

// NewDividendService creates a new dividend service.
func NewDividendService(dividendRepo repository.DividendRepository, transactionRepo repository.TransactionRepository, priceRepo repository.PriceRepository, defaultCurrency string, log *logger.Logger) DividendService {
	return &dividendService{
		dividendRepo:    dividendRepo,
		transactionRepo: transactionRepo,
		priceRepo:       priceRepo,
		defaultCurrency: defaultCurrency,
		logger:          log,
	}
}

type dividendService struct {
	dividendRepo    repository.DividendRepository
	transactionRepo repository.TransactionRepository
	priceRepo       repository.PriceRepository
	defaultCurrency string
	logger          *logger.Logger
}

// AddDividend validates and upserts a dividend payment. A second payment
// for the same asset and date overwrites the first.
func (s *dividendService) AddDividend(ctx context.Context, req dto.AddDividendRequest) (uint, error) {
	if req.AssetID == 0 {
		return 0, NewValidationError("Ungültiges Asset", fmt.Sprintf("Asset ID %d ist ungültig.", req.AssetID))
	}

	paymentDate, err := ParseDate(req.PaymentDate)
	if err != nil {
		return 0, err
	}
	amount, err := ParsePrice(req.Amount)
	if err != nil {
		return 0, err
	}
	tax, err := ParseTax(req.TaxWithheld)
	if err != nil {
		return 0, err
	}
	if tax > amount {
		return 0, NewValidationError(
			"Steuer zu hoch",
			fmt.Sprintf("Quellensteuer (%v) kann nicht höher als Dividende (%v) sein.", tax, amount),
		)
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}
	validatedCurrency, err := ValidateCurrency(currency)
	if err != nil {
		return 0, err
	}

	dividendType := entity.DividendType(req.DividendType)
	if req.DividendType == "" {
		dividendType = entity.DividendTypeRegular
	}
	switch dividendType {
	case entity.DividendTypeRegular, entity.DividendTypeSpecial, entity.DividendTypeCapitalReturn:
	default:
		return 0, NewValidationError("Ungültiger Dividenden-Typ", fmt.Sprintf("'%s' ist kein gültiger Typ.", req.DividendType))
	}

	dividend := entity.Dividend{
		AssetID:      req.AssetID,
		PaymentDate:  paymentDate,
		Amount:       amount,
		Currency:     validatedCurrency,
		TaxWithheld:  tax,
		DividendType: dividendType,
		Notes:        req.Notes,
	}

	if err := s.dividendRepo.Upsert(ctx, &dividend); err != nil {
		return 0, fmt.Errorf("failed to save dividend: %w", err)
	}

	s.logger.DebugContext(ctx, "Dividend saved",
		logger.IntField("asset_id", int(req.AssetID)),
		logger.Float64Field("amount", amount))
	return dividend.ID, nil
}

// GetDividendsForAsset returns the dividends of one asset, optionally for
// one payment year.
func (s *dividendService) GetDividendsForAsset(ctx context.Context, assetID uint, year *int) ([]entity.Dividend, error) {
	dividends, err := s.dividendRepo.FindByAsset(ctx, assetID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load dividends: %w", err)
	}
	return dividends, nil
}

// DeleteDividend removes a dividend payment.
func (s *dividendService) DeleteDividend(ctx context.Context, id uint) error {
	err := s.dividendRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError("Dividende nicht gefunden", fmt.Sprintf("Keine Dividende mit ID %d", id))
	}
	if err != nil {
		return fmt.Errorf("failed to delete dividend: %w", err)
	}
	return nil
}

// GetDividendSummary aggregates dividends per asset and currency and
// estimates the yield against the current market value of the holdings.
// Yield stays nil for assets without positive holdings or without a price.
func (s *dividendService) GetDividendSummary(ctx context.Context, year *int) ([]dto.DividendSummary, error) {
	aggregates, err := s.dividendRepo.Aggregate(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate dividends: %w", err)
	}

	summaries := make([]dto.DividendSummary, 0, len(aggregates))
	for _, aggregate := range aggregates {
		holdings, err := s.transactionRepo.SignedQuantitySum(ctx, aggregate.AssetID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute holdings: %w", err)
		}

		summary := dto.DividendSummary{
			AssetID:         aggregate.AssetID,
			Symbol:          aggregate.Symbol,
			Name:            aggregate.Name,
			NetDividends:    aggregate.NetDividends,
			DividendCount:   aggregate.DividendCount,
			AverageDividend: aggregate.AverageDividend,
			Currency:        aggregate.Currency,
			CurrentHoldings: holdings,
		}

		if holdings > 0 {
			latest, err := s.priceRepo.FindLatest(ctx, aggregate.AssetID)
			if err != nil {
				return nil, fmt.Errorf("failed to load latest price: %w", err)
			}
			if latest != nil {
				totalValue := latest.Close * holdings
				if totalValue > 0 {
					yield := aggregate.NetDividends / totalValue * 100
					summary.AnnualYield = &yield
				}
			}
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// GetTotalDividends sums the net dividends in one currency.
func (s *dividendService) GetTotalDividends(ctx context.Context, year *int, currency string) (float64, error) {
	if currency == "" {
		currency = s.defaultCurrency
	}
	validatedCurrency, err := ValidateCurrency(currency)
	if err != nil {
		return 0, err
	}

	total, err := s.dividendRepo.TotalNet(ctx, year, validatedCurrency)
	if err != nil {
		return 0, fmt.Errorf("failed to compute total dividends: %w", err)
	}
	return total, nil
}

// GetExportRows returns dividends joined with their asset for CSV export.
func (s *dividendService) GetExportRows(ctx context.Context, year *int) ([]repository.DividendRow, error) {
	rows, err := s.dividendRepo.RowsForExport(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load dividends for export: %w", err)
	}
	return rows, nil
}
