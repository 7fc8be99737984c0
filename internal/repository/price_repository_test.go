package repository

import (
	"context"
	"testing"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func savePrice(t *testing.T, repo PriceRepository, assetID uint, day string, close float64, currency string) {
	t.Helper()
	require.NoError(t, repo.Upsert(context.Background(), &entity.Price{
		AssetID:   assetID,
		PriceDate: date(t, day),
		Close:     close,
		Currency:  currency,
		Source:    "manual_gui",
	}))
}

func TestUpsert_OverwritesSameDay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPriceRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")

	savePrice(t, repo, asset.ID, "2024-03-01", 100, "EUR")
	savePrice(t, repo, asset.ID, "2024-03-01", 105, "EUR")

	var count int64
	require.NoError(t, db.Model(&entity.Price{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	latest, err := repo.FindLatest(context.Background(), asset.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.InDelta(t, 105, latest.Close, 1e-9)
}

func TestFindLatest_NoPrices(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPriceRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")

	latest, err := repo.FindLatest(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestFindPreviousBefore_StrictlyEarlier(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPriceRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")

	savePrice(t, repo, asset.ID, "2024-03-01", 100, "EUR")
	savePrice(t, repo, asset.ID, "2024-03-04", 110, "EUR")

	previous, err := repo.FindPreviousBefore(context.Background(), asset.ID, date(t, "2024-03-04"))
	require.NoError(t, err)
	require.NotNil(t, previous)
	assert.InDelta(t, 100, previous.Close, 1e-9)

	// The single oldest observation has no predecessor.
	previous, err = repo.FindPreviousBefore(context.Background(), asset.ID, date(t, "2024-03-01"))
	require.NoError(t, err)
	assert.Nil(t, previous)
}

func TestDelete_Price(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPriceRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")

	savePrice(t, repo, asset.ID, "2024-03-01", 100, "EUR")

	require.NoError(t, repo.Delete(context.Background(), asset.ID, date(t, "2024-03-01")))

	err := repo.Delete(context.Background(), asset.ID, date(t, "2024-03-01"))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindFiltered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPriceRepository(db)
	sap := createAsset(t, db, "SAP", "SAP SE")
	bmw := createAsset(t, db, "BMW", "BMW AG")

	savePrice(t, repo, sap.ID, "2024-03-01", 100, "EUR")
	savePrice(t, repo, sap.ID, "2024-03-02", 102, "EUR")
	savePrice(t, repo, bmw.ID, "2024-03-01", 90, "USD")

	views, err := repo.FindFiltered(context.Background(), dto.PriceFilter{Currency: "EUR"})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "SAP", views[0].Symbol)

	from := date(t, "2024-03-02")
	views, err = repo.FindFiltered(context.Background(), dto.PriceFilter{DateFrom: &from})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.InDelta(t, 102, views[0].Close, 1e-9)

	views, err = repo.FindFiltered(context.Background(), dto.PriceFilter{Symbol: "BM"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "BMW", views[0].Symbol)
}

func TestDistinctCurrenciesAndDates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPriceRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")

	savePrice(t, repo, asset.ID, "2024-03-01", 100, "EUR")
	savePrice(t, repo, asset.ID, "2024-03-02", 101, "USD")
	savePrice(t, repo, asset.ID, "2024-03-03", 102, "EUR")

	currencies, err := repo.DistinctCurrencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"EUR", "USD"}, currencies)

	dates, err := repo.DistinctDatesBetween(context.Background(), date(t, "2024-03-01"), date(t, "2024-03-02"))
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, "2024-03-01", utils.FormatDate(dates[0]))
}

func TestFindCloseAt(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPriceRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")

	savePrice(t, repo, asset.ID, "2024-03-01", 100, "EUR")

	closeValue, ok, err := repo.FindCloseAt(context.Background(), asset.ID, date(t, "2024-03-05"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 100, closeValue, 1e-9)

	_, ok, err = repo.FindCloseAt(context.Background(), asset.ID, date(t, "2024-02-28"))
	require.NoError(t, err)
	assert.False(t, ok)
}
