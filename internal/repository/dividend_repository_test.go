package repository

import (
	"context"
	"testing"

	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func saveDividend(t *testing.T, repo DividendRepository, assetID uint, day string, amount, tax float64) {
	t.Helper()
	require.NoError(t, repo.Upsert(context.Background(), &entity.Dividend{
		AssetID:      assetID,
		PaymentDate:  date(t, day),
		Amount:       amount,
		Currency:     "EUR",
		TaxWithheld:  tax,
		DividendType: entity.DividendTypeRegular,
	}))
}

func TestDividendUpsert_OverwritesSameDay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDividendRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")

	saveDividend(t, repo, asset.ID, "2024-05-15", 100, 25)
	saveDividend(t, repo, asset.ID, "2024-05-15", 120, 30)

	dividends, err := repo.FindByAsset(context.Background(), asset.ID, nil)
	require.NoError(t, err)
	require.Len(t, dividends, 1)
	assert.InDelta(t, 120, dividends[0].Amount, 1e-9)
	assert.InDelta(t, 90, dividends[0].NetAmount(), 1e-9)
}

func TestDividendFindByAsset_YearFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDividendRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")

	saveDividend(t, repo, asset.ID, "2023-05-15", 80, 0)
	saveDividend(t, repo, asset.ID, "2024-05-15", 100, 0)

	year := 2024
	dividends, err := repo.FindByAsset(context.Background(), asset.ID, &year)
	require.NoError(t, err)
	require.Len(t, dividends, 1)
	assert.Equal(t, "2024-05-15", utils.FormatDate(dividends[0].PaymentDate))
}

func TestDividendAggregate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDividendRepository(db)
	sap := createAsset(t, db, "SAP", "SAP SE")
	bmw := createAsset(t, db, "BMW", "BMW AG")

	saveDividend(t, repo, sap.ID, "2024-05-15", 100, 25)
	saveDividend(t, repo, sap.ID, "2024-11-15", 100, 25)
	saveDividend(t, repo, bmw.ID, "2024-05-20", 50, 0)

	aggregates, err := repo.Aggregate(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, aggregates, 2)

	// Ordered by net sum descending.
	assert.Equal(t, "SAP", aggregates[0].Symbol)
	assert.InDelta(t, 150, aggregates[0].NetDividends, 1e-9)
	assert.Equal(t, 2, aggregates[0].DividendCount)
	assert.InDelta(t, 100, aggregates[0].AverageDividend, 1e-9)

	assert.Equal(t, "BMW", aggregates[1].Symbol)
	assert.InDelta(t, 50, aggregates[1].NetDividends, 1e-9)
}

func TestDividendTotalNet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDividendRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")

	saveDividend(t, repo, asset.ID, "2023-05-15", 80, 10)
	saveDividend(t, repo, asset.ID, "2024-05-15", 100, 25)

	total, err := repo.TotalNet(context.Background(), nil, "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 145, total, 1e-9)

	year := 2024
	total, err = repo.TotalNet(context.Background(), &year, "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 75, total, 1e-9)

	total, err = repo.TotalNet(context.Background(), nil, "USD")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDividendDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDividendRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")

	saveDividend(t, repo, asset.ID, "2024-05-15", 100, 0)

	dividends, err := repo.FindByAsset(context.Background(), asset.ID, nil)
	require.NoError(t, err)
	require.Len(t, dividends, 1)

	require.NoError(t, repo.Delete(context.Background(), dividends[0].ID))
	assert.ErrorIs(t, repo.Delete(context.Background(), dividends[0].ID), gorm.ErrRecordNotFound)
}

func TestDividendRowsForExport(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDividendRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")

	saveDividend(t, repo, asset.ID, "2024-05-15", 100, 25)

	rows, err := repo.RowsForExport(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SAP", rows[0].Symbol)
	assert.InDelta(t, 100, rows[0].Amount, 1e-9)
	assert.InDelta(t, 25, rows[0].TaxWithheld, 1e-9)
	assert.Equal(t, "regular", rows[0].DividendType)
}
