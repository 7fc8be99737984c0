package repository

import (
	"context"
	"errors"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceRepository defines access to price observations.
type PriceRepository interface {
	Upsert(ctx context.Context, price *entity.Price) error
	Delete(ctx context.Context, assetID uint, priceDate time.Time) error
	DeleteAll(ctx context.Context) (int64, error)
	FindLatest(ctx context.Context, assetID uint) (*entity.Price, error)
	FindPreviousBefore(ctx context.Context, assetID uint, before time.Time) (*entity.Price, error)
	FindFiltered(ctx context.Context, filter dto.PriceFilter) ([]dto.PriceView, error)
	DistinctCurrencies(ctx context.Context) ([]string, error)
	DistinctDatesBetween(ctx context.Context, from, to time.Time) ([]time.Time, error)
	FindCloseAt(ctx context.Context, assetID uint, onOrBefore time.Time) (float64, bool, error)
}

// NewPriceRepository creates a new GORM-based price repository.
func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

type priceRepository struct {
	db *gorm.DB
}

// Upsert inserts a price observation or, when one already exists for the
// same asset and date, overwrites its close, currency and source.
func (r *priceRepository) Upsert(ctx context.Context, price *entity.Price) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_id"}, {Name: "price_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"close", "currency", "source"}),
	}).Create(price).Error
}

// Delete removes the observation for one asset and date. Returns
// gorm.ErrRecordNotFound when no such row exists.
func (r *priceRepository) Delete(ctx context.Context, assetID uint, priceDate time.Time) error {
	result := r.db.WithContext(ctx).
		Where("asset_id = ? AND price_date = ?", assetID, priceDate).
		Delete(&entity.Price{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAll removes every price observation and returns the count.
func (r *priceRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&entity.Price{})
	return result.RowsAffected, result.Error
}

// FindLatest returns the observation with the maximum date for the asset,
// or nil when the asset has no prices.
func (r *priceRepository) FindLatest(ctx context.Context, assetID uint) (*entity.Price, error) {
	var price entity.Price
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("price_date DESC").
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// FindPreviousBefore returns the newest observation strictly before the
// given date for the asset, or nil when none exists.
func (r *priceRepository) FindPreviousBefore(ctx context.Context, assetID uint, before time.Time) (*entity.Price, error) {
	var price entity.Price
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND price_date < ?", assetID, before).
		Order("price_date DESC").
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// FindFiltered returns price rows joined with their asset, ordered by
// symbol and date. Zero-valued filter fields are ignored.
func (r *priceRepository) FindFiltered(ctx context.Context, filter dto.PriceFilter) ([]dto.PriceView, error) {
	query := r.db.WithContext(ctx).
		Table("prices p").
		Select("a.symbol, a.name, p.close, p.currency, COALESCE(p.source, '') AS source, p.price_date").
		Joins("JOIN assets a ON a.id = p.asset_id")

	if filter.DateFrom != nil {
		query = query.Where("p.price_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("p.price_date <= ?", *filter.DateTo)
	}
	if filter.AssetID != nil {
		query = query.Where("a.id = ?", *filter.AssetID)
	}
	if filter.Symbol != "" {
		query = query.Where("a.symbol LIKE ?", "%"+filter.Symbol+"%")
	}
	if filter.Currency != "" {
		query = query.Where("p.currency = ?", filter.Currency)
	}

	var views []dto.PriceView
	if err := query.Order("a.symbol, p.price_date").Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

// DistinctCurrencies returns every currency that appears in the price table.
func (r *priceRepository) DistinctCurrencies(ctx context.Context) ([]string, error) {
	var currencies []string
	err := r.db.WithContext(ctx).
		Model(&entity.Price{}).
		Distinct("currency").
		Order("currency").
		Pluck("currency", &currencies).Error
	if err != nil {
		return nil, err
	}
	return currencies, nil
}

// DistinctDatesBetween returns the ordered distinct price dates in [from, to].
func (r *priceRepository) DistinctDatesBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&entity.Price{}).
		Distinct("price_date").
		Where("price_date BETWEEN ? AND ?", from, to).
		Order("price_date").
		Pluck("price_date", &dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}

// FindCloseAt returns the most recent close on or before the given date for
// the asset. The second return value reports whether one exists.
func (r *priceRepository) FindCloseAt(ctx context.Context, assetID uint, onOrBefore time.Time) (float64, bool, error) {
	var price entity.Price
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND price_date <= ?", assetID, onOrBefore).
		Order("price_date DESC").
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return price.Close, true, nil
}
