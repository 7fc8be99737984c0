package service

import (
	"context"
	"testing"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDividendService(env *testEnv) DividendService {
	return NewDividendService(env.dividendRepo, env.transactionRepo, env.priceRepo, "EUR", env.logger)
}

func TestAddDividend_Defaults(t *testing.T) {
	env := setupTestEnv(t)
	svc := newDividendService(env)
	asset := env.createAsset(t, "SAP", "SAP SE")

	id, err := svc.AddDividend(context.Background(), dto.AddDividendRequest{
		AssetID:     asset.ID,
		PaymentDate: "2024-05-15",
		Amount:      "100,00",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	dividends, err := svc.GetDividendsForAsset(context.Background(), asset.ID, nil)
	require.NoError(t, err)
	require.Len(t, dividends, 1)
	assert.Equal(t, "EUR", dividends[0].Currency)
	assert.Equal(t, entity.DividendTypeRegular, dividends[0].DividendType)
	assert.Zero(t, dividends[0].TaxWithheld)
	assert.InDelta(t, 100, dividends[0].NetAmount(), 1e-9)
}

func TestAddDividend_TaxExceedsAmount(t *testing.T) {
	env := setupTestEnv(t)
	svc := newDividendService(env)
	asset := env.createAsset(t, "SAP", "SAP SE")

	_, err := svc.AddDividend(context.Background(), dto.AddDividendRequest{
		AssetID:     asset.ID,
		PaymentDate: "2024-05-15",
		Amount:      "100",
		TaxWithheld: "101",
	})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "Steuer zu hoch", valErr.Message)
}

func TestAddDividend_InvalidType(t *testing.T) {
	env := setupTestEnv(t)
	svc := newDividendService(env)
	asset := env.createAsset(t, "SAP", "SAP SE")

	_, err := svc.AddDividend(context.Background(), dto.AddDividendRequest{
		AssetID:      asset.ID,
		PaymentDate:  "2024-05-15",
		Amount:       "100",
		DividendType: "bonus",
	})
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestAddDividend_SameDayOverwrites(t *testing.T) {
	env := setupTestEnv(t)
	svc := newDividendService(env)
	asset := env.createAsset(t, "SAP", "SAP SE")

	add := func(amount string) {
		_, err := svc.AddDividend(context.Background(), dto.AddDividendRequest{
			AssetID:     asset.ID,
			PaymentDate: "2024-05-15",
			Amount:      amount,
		})
		require.NoError(t, err)
	}
	add("100")
	add("120")

	dividends, err := svc.GetDividendsForAsset(context.Background(), asset.ID, nil)
	require.NoError(t, err)
	require.Len(t, dividends, 1)
	assert.InDelta(t, 120, dividends[0].Amount, 1e-9)
}

func TestGetDividendSummary_Yield(t *testing.T) {
	env := setupTestEnv(t)
	svc := newDividendService(env)
	asset := env.createAsset(t, "SAP", "SAP SE")

	env.addTransaction(t, asset.ID, entity.TransactionTypeBuy, 10, 100, "2024-01-10")
	env.savePrice(t, asset.ID, "2024-05-01", 200)

	_, err := svc.AddDividend(context.Background(), dto.AddDividendRequest{
		AssetID:     asset.ID,
		PaymentDate: "2024-05-15",
		Amount:      "120",
		TaxWithheld: "20",
	})
	require.NoError(t, err)

	summaries, err := svc.GetDividendSummary(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.InDelta(t, 100, s.NetDividends, 1e-9)
	assert.Equal(t, 1, s.DividendCount)
	assert.InDelta(t, 10, s.CurrentHoldings, 1e-9)
	// 100 net on 10 * 200 market value = 5%.
	require.NotNil(t, s.AnnualYield)
	assert.InDelta(t, 5, *s.AnnualYield, 1e-6)
}

func TestGetDividendSummary_NoHoldingsNoYield(t *testing.T) {
	env := setupTestEnv(t)
	svc := newDividendService(env)
	asset := env.createAsset(t, "SAP", "SAP SE")
	env.savePrice(t, asset.ID, "2024-05-01", 200)

	_, err := svc.AddDividend(context.Background(), dto.AddDividendRequest{
		AssetID:     asset.ID,
		PaymentDate: "2024-05-15",
		Amount:      "100",
	})
	require.NoError(t, err)

	summaries, err := svc.GetDividendSummary(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].AnnualYield)
}

func TestGetDividendSummary_NoPriceNoYield(t *testing.T) {
	env := setupTestEnv(t)
	svc := newDividendService(env)
	asset := env.createAsset(t, "SAP", "SAP SE")
	env.addTransaction(t, asset.ID, entity.TransactionTypeBuy, 10, 100, "2024-01-10")

	_, err := svc.AddDividend(context.Background(), dto.AddDividendRequest{
		AssetID:     asset.ID,
		PaymentDate: "2024-05-15",
		Amount:      "100",
	})
	require.NoError(t, err)

	summaries, err := svc.GetDividendSummary(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].AnnualYield)
}

func TestGetTotalDividends_YearAndCurrency(t *testing.T) {
	env := setupTestEnv(t)
	svc := newDividendService(env)
	asset := env.createAsset(t, "SAP", "SAP SE")

	add := func(date, amount, tax string) {
		_, err := svc.AddDividend(context.Background(), dto.AddDividendRequest{
			AssetID:     asset.ID,
			PaymentDate: date,
			Amount:      amount,
			TaxWithheld: tax,
		})
		require.NoError(t, err)
	}
	add("2023-05-15", "100", "20")
	add("2024-05-15", "100", "30")

	total, err := svc.GetTotalDividends(context.Background(), nil, "")
	require.NoError(t, err)
	assert.InDelta(t, 150, total, 1e-9)

	year := 2024
	total, err = svc.GetTotalDividends(context.Background(), &year, "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 70, total, 1e-9)

	total, err = svc.GetTotalDividends(context.Background(), nil, "USD")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDeleteDividend_NotFound(t *testing.T) {
	env := setupTestEnv(t)
	svc := newDividendService(env)

	var nfErr *NotFoundError
	assert.ErrorAs(t, svc.DeleteDividend(context.Background(), 999), &nfErr)
}
