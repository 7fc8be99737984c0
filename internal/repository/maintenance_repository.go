package repository

import (
	"context"
	"fmt"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"

	"gorm.io/gorm"
)

// MaintenanceRepository bundles the integrity and cleanup operations on the
// local database file.
type MaintenanceRepository interface {
	IntegrityCheck(ctx context.Context) error
	FindOrphans(ctx context.Context) (dto.OrphanReport, error)
	CleanupOrphans(ctx context.Context) (dto.OrphanReport, error)
}

// NewMaintenanceRepository creates a new GORM-based maintenance repository.
func NewMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

type maintenanceRepository struct {
	db *gorm.DB
}

// IntegrityCheck runs SQLite's integrity check and fails unless the
// database reports "ok".
func (r *maintenanceRepository) IntegrityCheck(ctx context.Context) error {
	var result string
	if err := r.db.WithContext(ctx).Raw("PRAGMA integrity_check").Scan(&result).Error; err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("database corruption detected: integrity check returned %q", result)
	}
	return nil
}

// FindOrphans counts rows in each dependent table whose asset no longer
// exists.
func (r *maintenanceRepository) FindOrphans(ctx context.Context) (dto.OrphanReport, error) {
	var report dto.OrphanReport

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&entity.Transaction{}, &report.Transactions},
		{&entity.Price{}, &report.Prices},
		{&entity.Dividend{}, &report.Dividends},
		{&entity.PriceAlert{}, &report.PriceAlerts},
	}

	for _, c := range counts {
		err := r.db.WithContext(ctx).Model(c.model).
			Where("asset_id NOT IN (SELECT id FROM assets)").
			Count(c.dest).Error
		if err != nil {
			return dto.OrphanReport{}, err
		}
	}

	return report, nil
}

// CleanupOrphans deletes orphaned rows from all four dependent tables. The
// deletions run in one transaction: either every table is cleaned or none.
func (r *maintenanceRepository) CleanupOrphans(ctx context.Context) (dto.OrphanReport, error) {
	var report dto.OrphanReport

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deletions := []struct {
			model interface{}
			dest  *int64
		}{
			{&entity.Transaction{}, &report.Transactions},
			{&entity.Price{}, &report.Prices},
			{&entity.Dividend{}, &report.Dividends},
			{&entity.PriceAlert{}, &report.PriceAlerts},
		}

		for _, d := range deletions {
			result := tx.Where("asset_id NOT IN (SELECT id FROM assets)").Delete(d.model)
			if result.Error != nil {
				return result.Error
			}
			*d.dest = result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return dto.OrphanReport{}, err
	}

	return report, nil
}
