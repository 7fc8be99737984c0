package http

import (
	"net/http"

	"github.com/xKrikZ/MeinPortfolio-App/internal/service"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MaintenanceHandler exposes database health and cleanup operations.
type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
	backupService      service.BackupService
	logger             *logger.Logger
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(maintenanceService service.MaintenanceService, backupService service.BackupService, logger *logger.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		backupService:      backupService,
		logger:             logger,
	}
}

// RegisterRoutes registers the maintenance routes to the Echo group.
func (h *MaintenanceHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/integrity", h.CheckIntegrity)
	g.GET("/orphans", h.FindOrphans)
	g.POST("/orphans/cleanup", h.CleanupOrphans)
	g.POST("/backup", h.CreateBackup)
}

// CheckIntegrity godoc
// @Summary Run the database integrity check
// @Tags maintenance
// @Produce  json
// @Success 200 {object} map[string]bool
// @Failure 500 {object} dto.ErrorResponse
// @Router /maintenance/integrity [get]
func (h *MaintenanceHandler) CheckIntegrity(c echo.Context) error {
	if err := h.maintenanceService.CheckIntegrity(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// FindOrphans godoc
// @Summary Count rows referencing missing assets
// @Tags maintenance
// @Produce  json
// @Success 200 {object} dto.OrphanReport
// @Failure 500 {object} dto.ErrorResponse
// @Router /maintenance/orphans [get]
func (h *MaintenanceHandler) FindOrphans(c echo.Context) error {
	report, err := h.maintenanceService.FindOrphans(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// CleanupOrphans godoc
// @Summary Delete rows referencing missing assets
// @Tags maintenance
// @Produce  json
// @Success 200 {object} dto.OrphanReport
// @Failure 500 {object} dto.ErrorResponse
// @Router /maintenance/orphans/cleanup [post]
func (h *MaintenanceHandler) CleanupOrphans(c echo.Context) error {
	report, err := h.maintenanceService.CleanupOrphans(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// CreateBackup godoc
// @Summary Create today's database backup if missing
// @Tags maintenance
// @Produce  json
// @Success 200 {object} map[string]string
// @Failure 500 {object} dto.ErrorResponse
// @Router /maintenance/backup [post]
func (h *MaintenanceHandler) CreateBackup(c echo.Context) error {
	path, err := h.backupService.CreateDailyBackupIfNeeded()
	if err != nil {
		h.logger.Error("Backup failed", logger.ErrorField(err))
		return writeError(c, err)
	}
	if path == "" {
		return c.JSON(http.StatusOK, map[string]string{"status": "already exists"})
	}
	return c.JSON(http.StatusOK, map[string]string{"path": path})
}
