package repository

import (
	"context"
	"testing"

	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrityCheck(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMaintenanceRepository(db)

	assert.NoError(t, repo.IntegrityCheck(context.Background()))
}

func TestFindAndCleanupOrphans(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMaintenanceRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")

	require.NoError(t, db.Create(&entity.Transaction{
		AssetID: asset.ID, Type: entity.TransactionTypeBuy,
		Quantity: 1, Price: 100, Currency: "EUR", TransactionDate: date(t, "2024-01-10"),
	}).Error)
	require.NoError(t, db.Create(&entity.Price{
		AssetID: 999, PriceDate: date(t, "2024-01-10"), Close: 100, Currency: "EUR",
	}).Error)
	require.NoError(t, db.Create(&entity.Dividend{
		AssetID: 999, PaymentDate: date(t, "2024-01-10"), Amount: 10, Currency: "EUR",
	}).Error)

	report, err := repo.FindOrphans(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, report.Transactions)
	assert.EqualValues(t, 1, report.Prices)
	assert.EqualValues(t, 1, report.Dividends)
	assert.EqualValues(t, 2, report.Total())

	cleaned, err := repo.CleanupOrphans(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, cleaned.Total())

	report, err = repo.FindOrphans(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, report.Total())

	// The valid transaction survives the cleanup.
	var count int64
	require.NoError(t, db.Model(&entity.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
