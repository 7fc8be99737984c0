package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"
	"github.com/xKrikZ/MeinPortfolio-App/internal/repository"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/logger"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/utils"

	"gorm.io/gorm"
)

// PortfolioService derives positions and valuations from the transaction
// ledger.
type PortfolioService interface {
	AddTransaction(ctx context.Context, req dto.AddTransactionRequest) (uint, error)
	DeleteTransaction(ctx context.Context, id uint) error
	ClearPortfolio(ctx context.Context) (int64, error)
	GetTransactions(ctx context.Context) ([]entity.Transaction, error)
	GetTransactionsForAsset(ctx context.Context, assetID uint) ([]entity.Transaction, error)
	GetPositions(ctx context.Context) ([]dto.PortfolioPosition, error)
	GetSummaries(ctx context.Context) ([]dto.PortfolioSummary, error)
	GetTotalValue(ctx context.Context) (dto.PortfolioTotal, error)
	GetTotalProfitLoss(ctx context.Context) (dto.ProfitLossTotal, error)
	GetValueHistory(ctx context.Context, from, to time.Time) ([]dto.ValueHistoryPoint, error)
	GetAssetQuantity(ctx context.Context, assetID uint) (float64, error)
}

// NewPortfolioService creates a new portfolio service.
func NewPortfolioService(transactionRepo repository.TransactionRepository, priceRepo repository.PriceRepository, defaultCurrency string, log *logger.Logger) PortfolioService {
	return &portfolioService{
		transactionRepo: transactionRepo,
		priceRepo:       priceRepo,
		defaultCurrency: defaultCurrency,
		logger:          log,
	}
}

type portfolioService struct {
	transactionRepo repository.TransactionRepository
	priceRepo       repository.PriceRepository
	defaultCurrency string
	logger          *logger.Logger
}

// AddTransaction validates and records a ledger entry. A sell is rejected
// when it exceeds the asset's current net holdings, so the running quantity
// can never go negative at insertion time.
func (s *portfolioService) AddTransaction(ctx context.Context, req dto.AddTransactionRequest) (uint, error) {
	if req.AssetID == 0 {
		return 0, NewValidationError("Ungültiges Asset", fmt.Sprintf("Asset ID %d ist ungültig.", req.AssetID))
	}

	transactionType := entity.TransactionType(req.Type)
	if transactionType != entity.TransactionTypeBuy && transactionType != entity.TransactionTypeSell {
		return 0, NewValidationError("Ungültiger Transaktionstyp", fmt.Sprintf("'%s' ist weder 'buy' noch 'sell'.", req.Type))
	}

	quantity, err := ParseQuantity(req.Quantity)
	if err != nil {
		return 0, err
	}
	price, err := ParsePrice(req.Price)
	if err != nil {
		return 0, err
	}
	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}
	validatedCurrency, err := ValidateCurrency(currency)
	if err != nil {
		return 0, err
	}
	transactionDate, err := ParseDate(req.TransactionDate)
	if err != nil {
		return 0, err
	}

	if transactionType == entity.TransactionTypeSell {
		if err := s.validateSell(ctx, req.AssetID, quantity); err != nil {
			return 0, err
		}
	}

	transaction := entity.Transaction{
		AssetID:         req.AssetID,
		Type:            transactionType,
		Quantity:        quantity,
		Price:           price,
		Currency:        validatedCurrency,
		TransactionDate: transactionDate,
		Notes:           req.Notes,
	}

	if err := s.transactionRepo.Create(ctx, &transaction); err != nil {
		return 0, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.logger.Info("Transaction recorded",
		logger.IntField("asset_id", int(req.AssetID)),
		logger.StringField("type", string(transactionType)),
		logger.Float64Field("quantity", quantity))
	return transaction.ID, nil
}

// validateSell rejects sells that exceed the current net holdings.
func (s *portfolioService) validateSell(ctx context.Context, assetID uint, quantity float64) error {
	current, err := s.GetAssetQuantity(ctx, assetID)
	if err != nil {
		return err
	}

	if current <= 0 {
		return NewValidationError(
			"Keine Position vorhanden",
			"Sie besitzen dieses Asset nicht und können es daher nicht verkaufen.",
		)
	}
	if quantity > current {
		return NewValidationError(
			"Verkaufsmenge zu groß",
			fmt.Sprintf("Sie besitzen nur %v Stück, können aber nicht %v verkaufen. Maximal verkaufbar: %v", current, quantity, current),
		)
	}
	return nil
}

// DeleteTransaction removes one ledger entry. The remaining ledger of the
// affected asset is re-validated in the same database transaction, so a
// deletion that would retroactively let a sell exceed its holdings rolls
// back instead.
func (s *portfolioService) DeleteTransaction(ctx context.Context, id uint) error {
	err := s.transactionRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError("Transaktion nicht gefunden", fmt.Sprintf("Keine Transaktion mit ID %d", id))
	}
	if errors.Is(err, repository.ErrLedgerInvariant) {
		return NewValidationError(
			"Löschen nicht möglich",
			"Ohne diese Transaktion wären zeitweise mehr Stücke verkauft als gekauft.",
		)
	}
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// ClearPortfolio deletes the whole ledger and returns the entry count.
func (s *portfolioService) ClearPortfolio(ctx context.Context) (int64, error) {
	count, err := s.transactionRepo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear portfolio: %w", err)
	}
	s.logger.Info("Portfolio cleared", logger.Field("deleted", count))
	return count, nil
}

// GetTransactions returns the full ledger, newest first.
func (s *portfolioService) GetTransactions(ctx context.Context) ([]entity.Transaction, error) {
	transactions, err := s.transactionRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return transactions, nil
}

// GetTransactionsForAsset returns the ledger entries of one asset.
func (s *portfolioService) GetTransactionsForAsset(ctx context.Context, assetID uint) ([]entity.Transaction, error) {
	transactions, err := s.transactionRepo.FindByAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return transactions, nil
}

// GetPositions recomputes the current holdings from the ledger. Assets
// with transactions in several currencies yield one position per currency;
// groups netting to zero or less are excluded.
func (s *portfolioService) GetPositions(ctx context.Context) ([]dto.PortfolioPosition, error) {
	positions, err := s.transactionRepo.AggregatePositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	return positions, nil
}

// GetSummaries combines each position with the latest price observation of
// its asset. Positions without any observation are valued at zero with
// today's date as last update.
func (s *portfolioService) GetSummaries(ctx context.Context) ([]dto.PortfolioSummary, error) {
	positions, err := s.GetPositions(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.PortfolioSummary, 0, len(positions))
	for _, position := range positions {
		currentPrice := 0.0
		lastUpdate := utils.Today()

		latest, err := s.priceRepo.FindLatest(ctx, position.AssetID)
		if err != nil {
			return nil, fmt.Errorf("failed to load latest price: %w", err)
		}
		if latest != nil {
			currentPrice = latest.Close
			lastUpdate = latest.PriceDate
		}

		summaries = append(summaries, dto.PortfolioSummary{
			Symbol:            position.Symbol,
			Name:              position.Name,
			Quantity:          position.Quantity,
			AverageBuyPrice:   position.AverageBuyPrice,
			CurrentPrice:      currentPrice,
			Currency:          position.Currency,
			CurrentValue:      position.CurrentValue(currentPrice),
			TotalCost:         position.TotalCost(),
			ProfitLoss:        position.ProfitLoss(currentPrice),
			ProfitLossPercent: position.ProfitLossPercent(currentPrice),
			LastUpdate:        lastUpdate,
		})
	}

	return summaries, nil
}

// GetTotalValue sums the current value of all summaries sharing the first
// currency encountered. Positions in other currencies are excluded; there
// is no cross-currency conversion.
func (s *portfolioService) GetTotalValue(ctx context.Context) (dto.PortfolioTotal, error) {
	summaries, err := s.GetSummaries(ctx)
	if err != nil {
		return dto.PortfolioTotal{}, err
	}
	if len(summaries) == 0 {
		return dto.PortfolioTotal{Currency: s.defaultCurrency}, nil
	}

	currency := summaries[0].Currency
	total := 0.0
	for _, summary := range summaries {
		if summary.Currency == currency {
			total += summary.CurrentValue
		}
	}

	return dto.PortfolioTotal{Value: total, Currency: currency}, nil
}

// GetTotalProfitLoss sums profit/loss and cost over the summaries sharing
// the first currency encountered. Percent is relative to the summed cost,
// zero when there is no cost basis.
func (s *portfolioService) GetTotalProfitLoss(ctx context.Context) (dto.ProfitLossTotal, error) {
	summaries, err := s.GetSummaries(ctx)
	if err != nil {
		return dto.ProfitLossTotal{}, err
	}
	if len(summaries) == 0 {
		return dto.ProfitLossTotal{Currency: s.defaultCurrency}, nil
	}

	currency := summaries[0].Currency
	profitLoss := 0.0
	totalCost := 0.0
	for _, summary := range summaries {
		if summary.Currency == currency {
			profitLoss += summary.ProfitLoss
			totalCost += summary.TotalCost
		}
	}

	percent := 0.0
	if totalCost > 0 {
		percent = profitLoss / totalCost * 100
	}

	return dto.ProfitLossTotal{
		ProfitLoss:        profitLoss,
		ProfitLossPercent: percent,
		Currency:          currency,
	}, nil
}

// GetValueHistory values the current positions on every distinct price
// date in [from, to], using the most recent close on or before each date.
func (s *portfolioService) GetValueHistory(ctx context.Context, from, to time.Time) ([]dto.ValueHistoryPoint, error) {
	positions, err := s.GetPositions(ctx)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return []dto.ValueHistoryPoint{}, nil
	}

	dates, err := s.priceRepo.DistinctDatesBetween(ctx, utils.DateOnly(from), utils.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to load price dates: %w", err)
	}

	history := make([]dto.ValueHistoryPoint, 0, len(dates))
	for _, day := range dates {
		total := 0.0
		for _, position := range positions {
			closeValue, ok, err := s.priceRepo.FindCloseAt(ctx, position.AssetID, day)
			if err != nil {
				return nil, fmt.Errorf("failed to load price history: %w", err)
			}
			if ok {
				total += position.Quantity * closeValue
			}
		}
		history = append(history, dto.ValueHistoryPoint{Date: day, Value: total})
	}

	return history, nil
}

// GetAssetQuantity returns the net holdings of one asset, zero when the
// asset never appears in the ledger.
func (s *portfolioService) GetAssetQuantity(ctx context.Context, assetID uint) (float64, error) {
	sum, err := s.transactionRepo.SignedQuantitySum(ctx, assetID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute holdings: %w", err)
	}
	return sum, nil
}
