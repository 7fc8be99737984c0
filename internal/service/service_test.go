package service

import (
	"context"
	"testing"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"
	"github.com/xKrikZ/MeinPortfolio-App/internal/repository"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/logger"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv bundles a fresh in-memory database with all repositories.
type testEnv struct {
	db              *gorm.DB
	assetRepo       repository.AssetRepository
	priceRepo       repository.PriceRepository
	transactionRepo repository.TransactionRepository
	alertRepo       repository.AlertRepository
	dividendRepo    repository.DividendRepository
	logger          *logger.Logger
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.Asset{},
		&entity.Price{},
		&entity.Transaction{},
		&entity.PriceAlert{},
		&entity.Dividend{},
		&entity.AppSetting{},
	))

	return &testEnv{
		db:              db,
		assetRepo:       repository.NewAssetRepository(db),
		priceRepo:       repository.NewPriceRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		alertRepo:       repository.NewAlertRepository(db),
		dividendRepo:    repository.NewDividendRepository(db),
		logger:          logger.NewNop(),
	}
}

func (e *testEnv) createAsset(t *testing.T, symbol, name string) *entity.Asset {
	t.Helper()
	asset := &entity.Asset{Symbol: symbol, Name: name, Active: true}
	require.NoError(t, e.db.Create(asset).Error)
	return asset
}

func (e *testEnv) savePrice(t *testing.T, assetID uint, day string, close float64) {
	t.Helper()
	require.NoError(t, e.priceRepo.Upsert(context.Background(), &entity.Price{
		AssetID:   assetID,
		PriceDate: testDate(t, day),
		Close:     close,
		Currency:  "EUR",
		Source:    SourceManual,
	}))
}

func (e *testEnv) addTransaction(t *testing.T, assetID uint, txType entity.TransactionType, quantity, price float64, day string) {
	t.Helper()
	require.NoError(t, e.transactionRepo.Create(context.Background(), &entity.Transaction{
		AssetID:         assetID,
		Type:            txType,
		Quantity:        quantity,
		Price:           price,
		Currency:        "EUR",
		TransactionDate: testDate(t, day),
	}))
}

func testDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return d
}
