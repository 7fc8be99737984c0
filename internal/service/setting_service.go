package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/xKrikZ/MeinPortfolio-App/internal/repository"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SettingService stores and retrieves client preferences as JSON blobs.
type SettingService interface {
	GetSetting(ctx context.Context, key string) (json.RawMessage, error)
	PutSetting(ctx context.Context, key string, value json.RawMessage) error
}

// NewSettingService creates a new settings service.
func NewSettingService(settingRepo repository.SettingRepository, log *logger.Logger) SettingService {
	return &settingService{
		settingRepo: settingRepo,
		logger:      log,
	}
}

type settingService struct {
	settingRepo repository.SettingRepository
	logger      *logger.Logger
}

func (s *settingService) GetSetting(ctx context.Context, key string) (json.RawMessage, error) {
	if key == "" {
		return nil, NewValidationError("Ungültiger Schlüssel", "Schlüssel darf nicht leer sein")
	}

	setting, err := s.settingRepo.Get(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("Einstellung nicht gefunden", key)
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(setting.Value), nil
}

func (s *settingService) PutSetting(ctx context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return NewValidationError("Ungültiger Schlüssel", "Schlüssel darf nicht leer sein")
	}
	if !json.Valid(value) {
		return NewValidationError("Ungültiger Wert", "Wert muss gültiges JSON sein")
	}
	return s.settingRepo.Put(ctx, key, datatypes.JSON(value))
}
