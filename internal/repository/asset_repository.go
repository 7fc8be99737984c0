package repository

import (
	"context"

	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"

	"gorm.io/gorm"
)

// AssetRepository defines read access to the asset seed data.
type AssetRepository interface {
	FindActive(ctx context.Context) ([]entity.Asset, error)
	FindByID(ctx context.Context, id uint) (*entity.Asset, error)
	FindBySymbol(ctx context.Context, symbol string) (*entity.Asset, error)
}

// NewAssetRepository creates a new GORM-based asset repository.
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

type assetRepository struct {
	db *gorm.DB
}

// FindActive retrieves all active assets ordered by symbol.
func (r *assetRepository) FindActive(ctx context.Context) ([]entity.Asset, error) {
	var assets []entity.Asset
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("symbol").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// FindByID retrieves an asset by its ID.
func (r *assetRepository) FindByID(ctx context.Context, id uint) (*entity.Asset, error) {
	var asset entity.Asset
	if err := r.db.WithContext(ctx).First(&asset, id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindBySymbol retrieves an asset by its unique symbol.
func (r *assetRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Asset, error) {
	var asset entity.Asset
	if err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}
