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

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// SourceManual tags price observations entered by hand through the UI.
const SourceManual = "manual_gui"

const assetCacheKey = "active_assets"

// PriceService defines the business operations on price observations.
type PriceService interface {
	GetActiveAssets(ctx context.Context) ([]entity.Asset, error)
	GetAssetBySymbol(ctx context.Context, symbol string) (*entity.Asset, error)
	GetCurrencies(ctx context.Context) ([]string, error)
	SavePrice(ctx context.Context, req dto.SavePriceRequest) error
	DeletePrice(ctx context.Context, symbol, dateStr string) error
	ClearAllPrices(ctx context.Context) (int64, error)
	GetPricesFiltered(ctx context.Context, filter dto.PriceFilter) ([]dto.PriceView, error)
}

// NewPriceService creates a new price service. The active-asset list is
// seed data and served from a short-lived in-memory cache.
func NewPriceService(assetRepo repository.AssetRepository, priceRepo repository.PriceRepository, defaultCurrency string, log *logger.Logger) PriceService {
	return &priceService{
		assetRepo:       assetRepo,
		priceRepo:       priceRepo,
		defaultCurrency: defaultCurrency,
		logger:          log,
		assetCache:      cache.New(5*time.Minute, 10*time.Minute),
	}
}

type priceService struct {
	assetRepo       repository.AssetRepository
	priceRepo       repository.PriceRepository
	defaultCurrency string
	logger          *logger.Logger
	assetCache      *cache.Cache
}

// GetActiveAssets returns all active assets, cached briefly.
func (s *priceService) GetActiveAssets(ctx context.Context) ([]entity.Asset, error) {
	if cached, ok := s.assetCache.Get(assetCacheKey); ok {
		return cached.([]entity.Asset), nil
	}

	assets, err := s.assetRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	s.assetCache.Set(assetCacheKey, assets, cache.DefaultExpiration)
	return assets, nil
}

// GetAssetBySymbol resolves an asset by its symbol.
func (s *priceService) GetAssetBySymbol(ctx context.Context, symbol string) (*entity.Asset, error) {
	validated, err := ValidateSymbol(symbol)
	if err != nil {
		return nil, err
	}

	asset, err := s.assetRepo.FindBySymbol(ctx, validated)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("Asset nicht gefunden", fmt.Sprintf("Symbol: %s", validated))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load asset: %w", err)
	}
	return asset, nil
}

// GetCurrencies returns every currency present in the price table.
func (s *priceService) GetCurrencies(ctx context.Context) ([]string, error) {
	currencies, err := s.priceRepo.DistinctCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load currencies: %w", err)
	}
	return currencies, nil
}

// SavePrice validates and upserts a price observation. Saving a second
// observation for the same asset and date overwrites the first.
func (s *priceService) SavePrice(ctx context.Context, req dto.SavePriceRequest) error {
	if req.AssetID == 0 {
		return NewValidationError("Ungültiges Asset", fmt.Sprintf("Asset ID %d ist ungültig.", req.AssetID))
	}

	priceDate, err := ParseDate(req.PriceDate)
	if err != nil {
		return err
	}
	closeValue, err := ParsePrice(req.Close)
	if err != nil {
		return err
	}
	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}
	validatedCurrency, err := ValidateCurrency(currency)
	if err != nil {
		return err
	}

	price := entity.Price{
		AssetID:   req.AssetID,
		PriceDate: priceDate,
		Close:     closeValue,
		Currency:  validatedCurrency,
		Source:    SourceManual,
	}

	if err := s.priceRepo.Upsert(ctx, &price); err != nil {
		return fmt.Errorf("failed to save price: %w", err)
	}

	s.logger.DebugContext(ctx, "Price saved",
		logger.IntField("asset_id", int(req.AssetID)),
		logger.StringField("price_date", req.PriceDate),
		logger.Float64Field("close", closeValue))
	return nil
}

// DeletePrice removes the observation of one symbol on one date.
func (s *priceService) DeletePrice(ctx context.Context, symbol, dateStr string) error {
	asset, err := s.GetAssetBySymbol(ctx, symbol)
	if err != nil {
		return err
	}

	priceDate, err := ParseDate(dateStr)
	if err != nil {
		return err
	}

	err = s.priceRepo.Delete(ctx, asset.ID, priceDate)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError("Eintrag nicht gefunden",
			fmt.Sprintf("Kein Eintrag für %s am %s", asset.Symbol, dateStr))
	}
	if err != nil {
		return fmt.Errorf("failed to delete price: %w", err)
	}
	return nil
}

// ClearAllPrices deletes every price observation and returns the count.
func (s *priceService) ClearAllPrices(ctx context.Context) (int64, error) {
	count, err := s.priceRepo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear prices: %w", err)
	}
	s.logger.Info("Cleared all prices", logger.Field("deleted", count))
	return count, nil
}

// GetPricesFiltered returns price views matching the filter, enriched with
// the day-over-day change per symbol. The first observation of a symbol
// and observations following a non-positive close have no change value.
func (s *priceService) GetPricesFiltered(ctx context.Context, filter dto.PriceFilter) ([]dto.PriceView, error) {
	views, err := s.priceRepo.FindFiltered(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to filter prices: %w", err)
	}

	// Rows arrive ordered by symbol then date, so the previous row of the
	// same symbol is always the previous observation.
	for i := range views {
		if i == 0 || views[i-1].Symbol != views[i].Symbol {
			continue
		}
		prev := views[i-1].Close
		if prev <= 0 {
			continue
		}
		change := (views[i].Close - prev) / prev * 100
		views[i].ChangePercent = &change
	}

	return views, nil
}
