package repository

import (
	"context"

	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository stores opaque UI preference blobs by key.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*entity.AppSetting, error)
	Put(ctx context.Context, key string, value datatypes.JSON) error
}

// NewSettingRepository creates a new GORM-based settings repository.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

type settingRepository struct {
	db *gorm.DB
}

// Get retrieves one setting by key.
func (r *settingRepository) Get(ctx context.Context, key string) (*entity.AppSetting, error) {
	var setting entity.AppSetting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// Put stores a setting, overwriting any previous value for the key.
func (r *settingRepository) Put(ctx context.Context, key string, value datatypes.JSON) error {
	setting := entity.AppSetting{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}
