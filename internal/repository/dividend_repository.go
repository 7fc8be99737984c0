package repository

import (
	"context"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DividendRow is a dividend joined with its asset for listings and export.
type DividendRow struct {
	Symbol       string
	Name         string
	PaymentDate  time.Time
	Amount       float64
	TaxWithheld  float64
	Currency     string
	DividendType string
	Notes        string
}

// DividendAggregate is the per-asset, per-currency grouping used for the
// dividend summary. Yield and holdings are resolved by the service.
type DividendAggregate struct {
	AssetID         uint
	Symbol          string
	Name            string
	NetDividends    float64
	DividendCount   int
	AverageDividend float64
	Currency        string
}

// DividendRepository defines access to dividend payments.
type DividendRepository interface {
	Upsert(ctx context.Context, dividend *entity.Dividend) error
	FindByAsset(ctx context.Context, assetID uint, year *int) ([]entity.Dividend, error)
	Delete(ctx context.Context, id uint) error
	Aggregate(ctx context.Context, year *int) ([]DividendAggregate, error)
	TotalNet(ctx context.Context, year *int, currency string) (float64, error)
	RowsForExport(ctx context.Context, year *int) ([]DividendRow, error)
}

// NewDividendRepository creates a new GORM-based dividend repository.
func NewDividendRepository(db *gorm.DB) DividendRepository {
	return &dividendRepository{db: db}
}

type dividendRepository struct {
	db *gorm.DB
}

// Upsert inserts a dividend or, when one exists for the same asset and
// payment date, overwrites its values.
func (r *dividendRepository) Upsert(ctx context.Context, dividend *entity.Dividend) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_id"}, {Name: "payment_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "currency", "tax_withheld", "dividend_type", "notes"}),
	}).Create(dividend).Error
}

// FindByAsset retrieves the dividends of one asset, newest first,
// optionally limited to a payment year.
func (r *dividendRepository) FindByAsset(ctx context.Context, assetID uint, year *int) ([]entity.Dividend, error) {
	query := r.db.WithContext(ctx).Where("asset_id = ?", assetID)
	if year != nil {
		query = query.Where("strftime('%Y', payment_date) = ?", yearString(*year))
	}

	var dividends []entity.Dividend
	if err := query.Order("payment_date DESC").Find(&dividends).Error; err != nil {
		return nil, err
	}
	return dividends, nil
}

// Delete removes a dividend payment.
func (r *dividendRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Dividend{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Aggregate groups dividends by asset and currency: net sum, count and
// gross average, ordered by net sum descending.
func (r *dividendRepository) Aggregate(ctx context.Context, year *int) ([]DividendAggregate, error) {
	query := r.db.WithContext(ctx).
		Table("dividends d").
		Select(`a.id AS asset_id, a.symbol, a.name,
			SUM(d.amount - COALESCE(d.tax_withheld, 0)) AS net_dividends,
			COUNT(d.id) AS dividend_count,
			AVG(d.amount) AS average_dividend,
			d.currency`).
		Joins("JOIN assets a ON a.id = d.asset_id")

	if year != nil {
		query = query.Where("strftime('%Y', d.payment_date) = ?", yearString(*year))
	}

	var aggregates []DividendAggregate
	err := query.
		Group("a.id, a.symbol, a.name, d.currency").
		Order("net_dividends DESC").
		Scan(&aggregates).Error
	if err != nil {
		return nil, err
	}
	return aggregates, nil
}

// TotalNet sums the net dividends in one currency, optionally limited to a
// payment year.
func (r *dividendRepository) TotalNet(ctx context.Context, year *int, currency string) (float64, error) {
	query := r.db.WithContext(ctx).
		Model(&entity.Dividend{}).
		Select("COALESCE(SUM(amount - COALESCE(tax_withheld, 0)), 0)").
		Where("currency = ?", currency)

	if year != nil {
		query = query.Where("strftime('%Y', payment_date) = ?", yearString(*year))
	}

	var total float64
	if err := query.Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// RowsForExport returns dividends joined with their asset, newest first.
func (r *dividendRepository) RowsForExport(ctx context.Context, year *int) ([]DividendRow, error) {
	query := r.db.WithContext(ctx).
		Table("dividends d").
		Select(`a.symbol, a.name, d.payment_date, d.amount,
			COALESCE(d.tax_withheld, 0) AS tax_withheld,
			d.currency, d.dividend_type, COALESCE(d.notes, '') AS notes`).
		Joins("JOIN assets a ON a.id = d.asset_id")

	if year != nil {
		query = query.Where("strftime('%Y', d.payment_date) = ?", yearString(*year))
	}

	var rows []DividendRow
	if err := query.Order("d.payment_date DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func yearString(year int) string {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
}
