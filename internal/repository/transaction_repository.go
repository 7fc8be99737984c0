package repository

import (
	"context"
	"errors"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"

	"gorm.io/gorm"
)

// ErrLedgerInvariant reports that removing a ledger entry would leave an
// asset with more sold than bought at some point of its history.
var ErrLedgerInvariant = errors.New("ledger invariant violated: holdings would go negative")

// TransactionRepository defines access to the buy/sell ledger and the
// position aggregation derived from it.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	FindAll(ctx context.Context) ([]entity.Transaction, error)
	FindByAsset(ctx context.Context, assetID uint) ([]entity.Transaction, error)
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) (int64, error)
	AggregatePositions(ctx context.Context) ([]dto.PortfolioPosition, error)
	SignedQuantitySum(ctx context.Context, assetID uint) (float64, error)
}

// NewTransactionRepository creates a new GORM-based ledger repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

type transactionRepository struct {
	db *gorm.DB
}

// Create appends a ledger entry.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

// FindAll retrieves the whole ledger, newest first.
func (r *transactionRepository) FindAll(ctx context.Context) ([]entity.Transaction, error) {
	var transactions []entity.Transaction
	if err := r.db.WithContext(ctx).Order("transaction_date DESC, id DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindByAsset retrieves the ledger entries of one asset, newest first.
func (r *transactionRepository) FindByAsset(ctx context.Context, assetID uint) ([]entity.Transaction, error) {
	var transactions []entity.Transaction
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("transaction_date DESC, id DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// Delete removes one ledger entry and re-validates the remaining ledger of
// the affected asset inside the same transaction: when the deletion would
// retroactively let a sell exceed the holdings bought before it, the whole
// operation rolls back with ErrLedgerInvariant.
func (r *transactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var transaction entity.Transaction
		if err := tx.First(&transaction, id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&entity.Transaction{}, id).Error; err != nil {
			return err
		}

		var remaining []entity.Transaction
		err := tx.Where("asset_id = ?", transaction.AssetID).
			Order("transaction_date, id").
			Find(&remaining).Error
		if err != nil {
			return err
		}

		if !ledgerValid(remaining) {
			return ErrLedgerInvariant
		}
		return nil
	})
}

// ledgerValid checks that the running signed quantity sum never goes
// negative in chronological order.
func ledgerValid(transactions []entity.Transaction) bool {
	const epsilon = 1e-9
	running := 0.0
	for _, t := range transactions {
		running += t.SignedQuantity()
		if running < -epsilon {
			return false
		}
	}
	return true
}

// DeleteAll clears the ledger and returns the number of removed entries.
func (r *transactionRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&entity.Transaction{})
	return result.RowsAffected, result.Error
}

// AggregatePositions folds the full ledger into one position per asset and
// transaction currency. Sells subtract from both the quantity and the
// weighted price sum; groups that net to zero or less are dropped.
func (r *transactionRepository) AggregatePositions(ctx context.Context) ([]dto.PortfolioPosition, error) {
	rows := []struct {
		AssetID             uint
		Symbol              string
		Name                string
		Quantity            float64
		AverageBuyPrice     *float64
		Currency            string
		FirstBuyDate        string
		LastTransactionDate string
	}{}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			a.id AS asset_id,
			a.symbol,
			a.name,
			SUM(CASE
				WHEN pt.transaction_type = 'buy' THEN pt.quantity
				WHEN pt.transaction_type = 'sell' THEN -pt.quantity
			END) AS quantity,
			SUM(CASE
				WHEN pt.transaction_type = 'buy' THEN pt.quantity * pt.price
				WHEN pt.transaction_type = 'sell' THEN -pt.quantity * pt.price
			END) / NULLIF(SUM(CASE
				WHEN pt.transaction_type = 'buy' THEN pt.quantity
				WHEN pt.transaction_type = 'sell' THEN -pt.quantity
			END), 0) AS average_buy_price,
			pt.currency,
			strftime('%Y-%m-%d', MIN(pt.transaction_date)) AS first_buy_date,
			strftime('%Y-%m-%d', MAX(pt.transaction_date)) AS last_transaction_date
		FROM portfolio_transactions pt
		JOIN assets a ON a.id = pt.asset_id
		GROUP BY a.id, a.symbol, a.name, pt.currency
		HAVING SUM(CASE
			WHEN pt.transaction_type = 'buy' THEN pt.quantity
			WHEN pt.transaction_type = 'sell' THEN -pt.quantity
		END) > 0
		ORDER BY a.symbol
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	positions := make([]dto.PortfolioPosition, 0, len(rows))
	for _, row := range rows {
		position := dto.PortfolioPosition{
			AssetID:  row.AssetID,
			Symbol:   row.Symbol,
			Name:     row.Name,
			Quantity: row.Quantity,
			Currency: row.Currency,
		}
		if row.AverageBuyPrice != nil {
			position.AverageBuyPrice = *row.AverageBuyPrice
		}
		if d, err := parseDateColumn(row.FirstBuyDate); err == nil {
			position.FirstBuyDate = d
		}
		if d, err := parseDateColumn(row.LastTransactionDate); err == nil {
			position.LastTransactionDate = d
		}
		positions = append(positions, position)
	}
	return positions, nil
}

// SignedQuantitySum returns the net holdings of one asset over the whole
// ledger, unfiltered: the result can be zero or negative.
func (r *transactionRepository) SignedQuantitySum(ctx context.Context, assetID uint) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(CASE
			WHEN transaction_type = 'buy' THEN quantity
			ELSE -quantity
		END), 0)
		FROM portfolio_transactions
		WHERE asset_id = ?
	`, assetID).Scan(&sum).Error
	return sum, err
}
