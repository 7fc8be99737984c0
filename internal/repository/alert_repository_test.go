package repository

import (
	"context"
	"testing"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createAlert(t *testing.T, repo AlertRepository, assetID uint, alertType entity.AlertType, threshold float64) *entity.PriceAlert {
	t.Helper()
	alert := &entity.PriceAlert{
		AssetID:        assetID,
		AlertType:      alertType,
		ThresholdValue: threshold,
		Currency:       "EUR",
		Active:         true,
	}
	require.NoError(t, repo.Create(context.Background(), alert))
	return alert
}

func TestMarkTriggered_Latches(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAlertRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")
	alert := createAlert(t, repo, asset.ID, entity.AlertTypeAbove, 150)

	now := time.Now()
	require.NoError(t, repo.MarkTriggered(context.Background(), alert.ID, now))

	stored, err := repo.FindByID(context.Background(), alert.ID)
	require.NoError(t, err)
	assert.True(t, stored.Triggered)
	assert.True(t, stored.NotificationSent)
	require.NotNil(t, stored.TriggeredAt)

	// A triggered alert leaves the evaluation set for good.
	active, err := repo.FindActiveUntriggered(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestMarkTriggered_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAlertRepository(db)

	err := repo.MarkTriggered(context.Background(), 42, time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindActiveUntriggered_FiltersByAsset(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAlertRepository(db)
	sap := createAsset(t, db, "SAP", "SAP SE")
	bmw := createAsset(t, db, "BMW", "BMW AG")

	createAlert(t, repo, sap.ID, entity.AlertTypeAbove, 150)
	createAlert(t, repo, bmw.ID, entity.AlertTypeBelow, 80)

	alerts, err := repo.FindActiveUntriggered(context.Background(), &sap.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, sap.ID, alerts[0].AssetID)
}

func TestFindAll_ExcludesTriggeredByDefault(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAlertRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")

	createAlert(t, repo, asset.ID, entity.AlertTypeAbove, 150)
	fired := createAlert(t, repo, asset.ID, entity.AlertTypeBelow, 80)
	require.NoError(t, repo.MarkTriggered(context.Background(), fired.ID, time.Now()))

	alerts, err := repo.FindAll(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	alerts, err = repo.FindAll(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
	// Untriggered alerts sort first.
	assert.False(t, alerts[0].Triggered)
	assert.True(t, alerts[1].Triggered)
}

func TestDeactivate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAlertRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")
	alert := createAlert(t, repo, asset.ID, entity.AlertTypeAbove, 150)

	require.NoError(t, repo.Deactivate(context.Background(), alert.ID))

	active, err := repo.FindActiveUntriggered(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.ErrorIs(t, repo.Deactivate(context.Background(), 999), gorm.ErrRecordNotFound)
}

func TestDeleteAlert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAlertRepository(db)
	asset := createAsset(t, db, "SAP", "SAP SE")
	alert := createAlert(t, repo, asset.ID, entity.AlertTypeAbove, 150)

	require.NoError(t, repo.Delete(context.Background(), alert.ID))
	assert.ErrorIs(t, repo.Delete(context.Background(), alert.ID), gorm.ErrRecordNotFound)
}
