package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"
	"github.com/xKrikZ/MeinPortfolio-App/internal/repository"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/logger"

	"gorm.io/gorm"
)

// AlertService manages price alerts and runs the evaluation pass.
type AlertService interface {
	CreateAlert(ctx context.Context, req dto.CreateAlertRequest) (uint, error)
	GetActiveAlerts(ctx context.Context, assetID *uint) ([]entity.PriceAlert, error)
	GetAllAlerts(ctx context.Context, includeTriggered bool) ([]entity.PriceAlert, error)
	DeactivateAlert(ctx context.Context, id uint) error
	DeleteAlert(ctx context.Context, id uint) error
	CheckAlerts(ctx context.Context) ([]dto.TriggeredAlert, error)
}

// NewAlertService creates a new alert service.
func NewAlertService(alertRepo repository.AlertRepository, priceRepo repository.PriceRepository, assetRepo repository.AssetRepository, defaultCurrency string, log *logger.Logger) AlertService {
	return &alertService{
		alertRepo:       alertRepo,
		priceRepo:       priceRepo,
		assetRepo:       assetRepo,
		defaultCurrency: defaultCurrency,
		logger:          log,
	}
}

type alertService struct {
	alertRepo       repository.AlertRepository
	priceRepo       repository.PriceRepository
	assetRepo       repository.AssetRepository
	defaultCurrency string
	logger          *logger.Logger
}

// CreateAlert validates and stores a new alert.
func (s *alertService) CreateAlert(ctx context.Context, req dto.CreateAlertRequest) (uint, error) {
	if req.AssetID == 0 {
		return 0, NewValidationError("Ungültiges Asset", fmt.Sprintf("Asset ID %d ist ungültig", req.AssetID))
	}

	alertType := entity.AlertType(req.AlertType)
	switch alertType {
	case entity.AlertTypeAbove, entity.AlertTypeBelow:
		if req.ThresholdValue <= 0 {
			return 0, NewValidationError("Ungültiger Schwellwert", "Schwellwert muss > 0 sein")
		}
	case entity.AlertTypeChangePercent:
		if req.ThresholdValue <= 0 {
			return 0, NewValidationError("Ungültiger Prozentwert", "Prozentwert muss > 0 sein")
		}
	default:
		return 0, NewValidationError("Ungültiger Alarm-Typ", fmt.Sprintf("'%s' ist kein gültiger Alarm-Typ.", req.AlertType))
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}
	validatedCurrency, err := ValidateCurrency(currency)
	if err != nil {
		return 0, err
	}

	if _, err := s.assetRepo.FindByID(ctx, req.AssetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, NewNotFoundError("Asset nicht gefunden", fmt.Sprintf("Asset ID %d existiert nicht.", req.AssetID))
		}
		return 0, fmt.Errorf("failed to load asset: %w", err)
	}

	alert := entity.PriceAlert{
		AssetID:        req.AssetID,
		AlertType:      alertType,
		ThresholdValue: req.ThresholdValue,
		Currency:       validatedCurrency,
		Active:         true,
		Notes:          req.Notes,
	}

	if err := s.alertRepo.Create(ctx, &alert); err != nil {
		return 0, fmt.Errorf("failed to create alert: %w", err)
	}

	s.logger.Info("Alert created",
		logger.IntField("alert_id", int(alert.ID)),
		logger.StringField("alert_type", string(alertType)),
		logger.Float64Field("threshold", req.ThresholdValue))
	return alert.ID, nil
}

// GetActiveAlerts returns the alerts eligible for evaluation, optionally
// limited to one asset.
func (s *alertService) GetActiveAlerts(ctx context.Context, assetID *uint) ([]entity.PriceAlert, error) {
	alerts, err := s.alertRepo.FindActiveUntriggered(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	return alerts, nil
}

// GetAllAlerts returns all alerts, with triggered ones only on request.
func (s *alertService) GetAllAlerts(ctx context.Context, includeTriggered bool) ([]entity.PriceAlert, error) {
	alerts, err := s.alertRepo.FindAll(ctx, includeTriggered)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	return alerts, nil
}

// DeactivateAlert disables an alert without deleting it.
func (s *alertService) DeactivateAlert(ctx context.Context, id uint) error {
	err := s.alertRepo.Deactivate(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError("Alarm nicht gefunden", fmt.Sprintf("Kein Alarm mit ID %d", id))
	}
	if err != nil {
		return fmt.Errorf("failed to deactivate alert: %w", err)
	}
	return nil
}

// DeleteAlert removes an alert.
func (s *alertService) DeleteAlert(ctx context.Context, id uint) error {
	err := s.alertRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError("Alarm nicht gefunden", fmt.Sprintf("Kein Alarm mit ID %d", id))
	}
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	return nil
}

// CheckAlerts evaluates every active, untriggered alert against the latest
// price of its asset. Alerts whose asset has no price are skipped. A fired
// alert latches permanently: triggered, triggered_at and notification_sent
// are persisted together before the alert joins the returned batch. The
// first persistence failure aborts the remaining pass. The caller decides
// whether and how to notify, at most once per pass.
func (s *alertService) CheckAlerts(ctx context.Context) ([]dto.TriggeredAlert, error) {
	alerts, err := s.alertRepo.FindActiveUntriggered(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}

	var triggered []dto.TriggeredAlert
	for _, alert := range alerts {
		asset, err := s.assetRepo.FindByID(ctx, alert.AssetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load asset for alert %d: %w", alert.ID, err)
		}

		latest, err := s.priceRepo.FindLatest(ctx, alert.AssetID)
		if err != nil {
			return nil, fmt.Errorf("failed to load latest price for alert %d: %w", alert.ID, err)
		}
		if latest == nil {
			continue
		}

		fired, message, err := s.evaluate(ctx, alert, asset, latest)
		if err != nil {
			return nil, err
		}
		if !fired {
			continue
		}

		now := time.Now()
		if err := s.alertRepo.MarkTriggered(ctx, alert.ID, now); err != nil {
			return nil, fmt.Errorf("failed to mark alert %d triggered: %w", alert.ID, err)
		}

		alert.Triggered = true
		alert.TriggeredAt = &now
		alert.NotificationSent = true

		triggered = append(triggered, dto.TriggeredAlert{
			Alert:        alert,
			Symbol:       asset.Symbol,
			Name:         asset.Name,
			CurrentPrice: latest.Close,
			Message:      message,
		})

		s.logger.Info("Alert triggered",
			logger.IntField("alert_id", int(alert.ID)),
			logger.StringField("symbol", asset.Symbol),
			logger.Float64Field("current_price", latest.Close))
	}

	return triggered, nil
}

// evaluate applies the alert predicate to the latest price. Both threshold
// comparisons are inclusive. For change_percent the previous observation
// strictly before the latest date is required; without one, or with a
// non-positive previous close, the alert stays silent.
func (s *alertService) evaluate(ctx context.Context, alert entity.PriceAlert, asset *entity.Asset, latest *entity.Price) (bool, string, error) {
	currentPrice := latest.Close

	switch alert.AlertType {
	case entity.AlertTypeAbove:
		if currentPrice >= alert.ThresholdValue {
			message := fmt.Sprintf("%s hat %.2f %s überschritten!\nAktueller Kurs: %.2f %s",
				asset.Symbol, alert.ThresholdValue, alert.Currency, currentPrice, alert.Currency)
			return true, message, nil
		}

	case entity.AlertTypeBelow:
		if currentPrice <= alert.ThresholdValue {
			message := fmt.Sprintf("%s ist unter %.2f %s gefallen!\nAktueller Kurs: %.2f %s",
				asset.Symbol, alert.ThresholdValue, alert.Currency, currentPrice, alert.Currency)
			return true, message, nil
		}

	case entity.AlertTypeChangePercent:
		previous, err := s.priceRepo.FindPreviousBefore(ctx, alert.AssetID, latest.PriceDate)
		if err != nil {
			return false, "", fmt.Errorf("failed to load previous price for alert %d: %w", alert.ID, err)
		}
		if previous == nil || previous.Close <= 0 {
			return false, "", nil
		}

		changePercent := math.Abs((currentPrice/previous.Close - 1) * 100)
		if changePercent >= alert.ThresholdValue {
			direction := "gestiegen"
			if currentPrice < previous.Close {
				direction = "gefallen"
			}
			message := fmt.Sprintf("%s ist um %.2f%% %s!\nSchwellwert: %.2f%%",
				asset.Symbol, changePercent, direction, alert.ThresholdValue)
			return true, message, nil
		}
	}

	return false, "", nil
}
