package repository

import (
	"context"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"

	"gorm.io/gorm"
)

// AlertRepository defines access to price alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.PriceAlert) error
	FindByID(ctx context.Context, id uint) (*entity.PriceAlert, error)
	FindActiveUntriggered(ctx context.Context, assetID *uint) ([]entity.PriceAlert, error)
	FindAll(ctx context.Context, includeTriggered bool) ([]entity.PriceAlert, error)
	MarkTriggered(ctx context.Context, id uint, triggeredAt time.Time) error
	Deactivate(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

// NewAlertRepository creates a new GORM-based alert repository.
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

type alertRepository struct {
	db *gorm.DB
}

// Create stores a new alert.
func (r *alertRepository) Create(ctx context.Context, alert *entity.PriceAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// FindByID retrieves an alert by its ID.
func (r *alertRepository) FindByID(ctx context.Context, id uint) (*entity.PriceAlert, error) {
	var alert entity.PriceAlert
	if err := r.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// FindActiveUntriggered retrieves the alerts eligible for evaluation,
// newest first, optionally limited to one asset.
func (r *alertRepository) FindActiveUntriggered(ctx context.Context, assetID *uint) ([]entity.PriceAlert, error) {
	query := r.db.WithContext(ctx).Where("active = ? AND triggered = ?", true, false)
	if assetID != nil {
		query = query.Where("asset_id = ?", *assetID)
	}

	var alerts []entity.PriceAlert
	if err := query.Order("created_at DESC, id DESC").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindAll retrieves all alerts, untriggered first, newest first within each
// group. Triggered alerts are excluded unless requested.
func (r *alertRepository) FindAll(ctx context.Context, includeTriggered bool) ([]entity.PriceAlert, error) {
	query := r.db.WithContext(ctx)
	if !includeTriggered {
		query = query.Where("triggered = ?", false)
	}

	var alerts []entity.PriceAlert
	if err := query.Order("triggered, created_at DESC, id DESC").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// MarkTriggered latches the triggered state of one alert. The three fields
// change together in a single statement so a trigger is all-or-nothing.
func (r *alertRepository) MarkTriggered(ctx context.Context, id uint, triggeredAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&entity.PriceAlert{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"triggered":         true,
			"triggered_at":      triggeredAt,
			"notification_sent": true,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate disables an alert without deleting it.
func (r *alertRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&entity.PriceAlert{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an alert.
func (r *alertRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.PriceAlert{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
