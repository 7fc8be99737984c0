package service

import (
	"context"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/repository"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/logger"
)

// MaintenanceService exposes integrity checks and cleanup of orphaned rows.
type MaintenanceService interface {
	CheckIntegrity(ctx context.Context) error
	FindOrphans(ctx context.Context) (dto.OrphanReport, error)
	CleanupOrphans(ctx context.Context) (dto.OrphanReport, error)
}

// NewMaintenanceService creates a new maintenance service.
func NewMaintenanceService(maintenanceRepo repository.MaintenanceRepository, log *logger.Logger) MaintenanceService {
	return &maintenanceService{
		maintenanceRepo: maintenanceRepo,
		logger:          log,
	}
}

type maintenanceService struct {
	maintenanceRepo repository.MaintenanceRepository
	logger          *logger.Logger
}

func (s *maintenanceService) CheckIntegrity(ctx context.Context) error {
	if err := s.maintenanceRepo.IntegrityCheck(ctx); err != nil {
		s.logger.Error("Integrity check failed", logger.ErrorField(err))
		return err
	}
	return nil
}

func (s *maintenanceService) FindOrphans(ctx context.Context) (dto.OrphanReport, error) {
	return s.maintenanceRepo.FindOrphans(ctx)
}

func (s *maintenanceService) CleanupOrphans(ctx context.Context) (dto.OrphanReport, error) {
	report, err := s.maintenanceRepo.CleanupOrphans(ctx)
	if err != nil {
		s.logger.Error("Orphan cleanup failed", logger.ErrorField(err))
		return dto.OrphanReport{}, err
	}
	if report.Total() > 0 {
		s.logger.Info("Orphaned rows removed", logger.Field("total", report.Total()))
	}
	return report, nil
}
