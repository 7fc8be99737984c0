package repository

import (
	"testing"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every statement on the same in-memory file.
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
	return db
}

func createAsset(t *testing.T, db *gorm.DB, symbol, name string) *entity.Asset {
	t.Helper()
	asset := &entity.Asset{Symbol: symbol, Name: name, Active: true}
	require.NoError(t, db.Create(asset).Error)
	return asset
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return d
}
