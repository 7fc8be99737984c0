package service

import (
	"context"
	"testing"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPriceService(env *testEnv) PriceService {
	return NewPriceService(env.assetRepo, env.priceRepo, "EUR", env.logger)
}

func TestSavePrice_DefaultsAndUpsert(t *testing.T) {
	env := setupTestEnv(t)
	svc := newPriceService(env)
	asset := env.createAsset(t, "SAP", "SAP SE")

	err := svc.SavePrice(context.Background(), dto.SavePriceRequest{
		AssetID:   asset.ID,
		PriceDate: "2024-03-01",
		Close:     "105,50",
	})
	require.NoError(t, err)

	// Same day again overwrites instead of duplicating.
	err = svc.SavePrice(context.Background(), dto.SavePriceRequest{
		AssetID:   asset.ID,
		PriceDate: "2024-03-01",
		Close:     "110",
	})
	require.NoError(t, err)

	views, err := svc.GetPricesFiltered(context.Background(), dto.PriceFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.InDelta(t, 110, views[0].Close, 1e-9)
	assert.Equal(t, "EUR", views[0].Currency)
	assert.Equal(t, SourceManual, views[0].Source)
}

func TestSavePrice_Validation(t *testing.T) {
	env := setupTestEnv(t)
	svc := newPriceService(env)
	asset := env.createAsset(t, "SAP", "SAP SE")

	cases := []struct {
		name string
		req  dto.SavePriceRequest
	}{
		{"missing asset", dto.SavePriceRequest{PriceDate: "2024-03-01", Close: "100"}},
		{"bad date", dto.SavePriceRequest{AssetID: asset.ID, PriceDate: "01.03.2024", Close: "100"}},
		{"zero close", dto.SavePriceRequest{AssetID: asset.ID, PriceDate: "2024-03-01", Close: "0"}},
		{"bad currency", dto.SavePriceRequest{AssetID: asset.ID, PriceDate: "2024-03-01", Close: "100", Currency: "EURO"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var valErr *ValidationError
			assert.ErrorAs(t, svc.SavePrice(context.Background(), tc.req), &valErr)
		})
	}
}

func TestGetPricesFiltered_ChangePercent(t *testing.T) {
	env := setupTestEnv(t)
	svc := newPriceService(env)
	sap := env.createAsset(t, "SAP", "SAP SE")
	bmw := env.createAsset(t, "BMW", "BMW AG")

	env.savePrice(t, sap.ID, "2024-03-01", 100)
	env.savePrice(t, sap.ID, "2024-03-02", 110)
	env.savePrice(t, bmw.ID, "2024-03-02", 80)

	views, err := svc.GetPricesFiltered(context.Background(), dto.PriceFilter{})
	require.NoError(t, err)
	require.Len(t, views, 3)

	// Ordered by symbol then date: BMW first, then both SAP rows.
	assert.Equal(t, "BMW", views[0].Symbol)
	assert.Nil(t, views[0].ChangePercent, "first observation of a symbol has no change")
	assert.Nil(t, views[1].ChangePercent, "symbol boundary resets the comparison")
	require.NotNil(t, views[2].ChangePercent)
	assert.InDelta(t, 10, *views[2].ChangePercent, 1e-6)
}

func TestDeletePrice(t *testing.T) {
	env := setupTestEnv(t)
	svc := newPriceService(env)
	asset := env.createAsset(t, "SAP", "SAP SE")
	env.savePrice(t, asset.ID, "2024-03-01", 100)

	require.NoError(t, svc.DeletePrice(context.Background(), "sap", "2024-03-01"))

	var nfErr *NotFoundError
	assert.ErrorAs(t, svc.DeletePrice(context.Background(), "SAP", "2024-03-01"), &nfErr)
	assert.ErrorAs(t, svc.DeletePrice(context.Background(), "NOPE", "2024-03-01"), &nfErr)
}

func TestGetAssetBySymbol(t *testing.T) {
	env := setupTestEnv(t)
	svc := newPriceService(env)
	env.createAsset(t, "SAP", "SAP SE")

	asset, err := svc.GetAssetBySymbol(context.Background(), " sap ")
	require.NoError(t, err)
	assert.Equal(t, "SAP", asset.Symbol)

	var valErr *ValidationError
	_, err = svc.GetAssetBySymbol(context.Background(), "SAP;DROP")
	assert.ErrorAs(t, err, &valErr)
}

func TestGetActiveAssets_Cached(t *testing.T) {
	env := setupTestEnv(t)
	svc := newPriceService(env)
	env.createAsset(t, "SAP", "SAP SE")

	assets, err := svc.GetActiveAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 1)

	// A second read within the cache window does not see new rows.
	env.createAsset(t, "BMW", "BMW AG")
	assets, err = svc.GetActiveAssets(context.Background())
	require.NoError(t, err)
	assert.Len(t, assets, 1)
}

func TestClearAllPrices(t *testing.T) {
	env := setupTestEnv(t)
	svc := newPriceService(env)
	asset := env.createAsset(t, "SAP", "SAP SE")
	env.savePrice(t, asset.ID, "2024-03-01", 100)
	env.savePrice(t, asset.ID, "2024-03-02", 101)

	count, err := svc.ClearAllPrices(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	currencies, err := svc.GetCurrencies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, currencies)
}
