package service

import (
	"context"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/logger"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/telegram"

	"github.com/robfig/cron/v3"
)

// AlertsFormatter renders a triggered-alert batch into Telegram messages.
// Declared here so the scheduler does not depend on the formatter directly.
type AlertsFormatter func(alerts []dto.TriggeredAlert) []string

// SchedulerService runs the recurring background jobs: the alert evaluation
// pass and the daily database backup.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
	RunAlertCheck(ctx context.Context)
}

// SchedulerConfig carries the cron specs and feature switches for the
// background jobs.
type SchedulerConfig struct {
	AlertCronSpec  string
	Notify         bool
	BackupEnabled  bool
	BackupCronSpec string
}

// NewSchedulerService creates a new scheduler service. The notifier may be
// nil, in which case triggered alerts are only logged.
func NewSchedulerService(
	alertService AlertService,
	backupService BackupService,
	notifier telegram.Notifier,
	format AlertsFormatter,
	cfg SchedulerConfig,
	log *logger.Logger,
) SchedulerService {
	return &schedulerService{
		alertService:  alertService,
		backupService: backupService,
		notifier:      notifier,
		format:        format,
		cfg:           cfg,
		logger:        log,
		cron:          cron.New(),
	}
}

type schedulerService struct {
	alertService  AlertService
	backupService BackupService
	notifier      telegram.Notifier
	format        AlertsFormatter
	cfg           SchedulerConfig
	logger        *logger.Logger
	cron          *cron.Cron
}

// Start registers the cron jobs and starts the scheduler. Jobs inherit the
// given context so that in-flight passes stop on shutdown.
func (s *schedulerService) Start(ctx context.Context) error {
	if s.cfg.AlertCronSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.AlertCronSpec, func() {
			s.RunAlertCheck(ctx)
		}); err != nil {
			return err
		}
	}

	if s.cfg.BackupEnabled && s.cfg.BackupCronSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.BackupCronSpec, func() {
			s.runBackup()
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("Scheduler started",
		logger.StringField("alert_cron", s.cfg.AlertCronSpec),
		logger.StringField("backup_cron", s.cfg.BackupCronSpec))
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *schedulerService) Stop() {
	<-s.cron.Stop().Done()
}

// RunAlertCheck executes one alert evaluation pass and sends a single
// notification batch when any alert fired.
func (s *schedulerService) RunAlertCheck(ctx context.Context) {
	triggered, err := s.alertService.CheckAlerts(ctx)
	if err != nil {
		s.logger.Error("Alert check pass failed", logger.ErrorField(err))
		if s.cfg.Notify && s.notifier != nil {
			msg := telegram.FormatErrorAlertMessage(time.Now(), "alert_check", err.Error())
			if sendErr := s.notifier.SendMessage(ctx, msg); sendErr != nil {
				s.logger.Error("Failed to send error notification", logger.ErrorField(sendErr))
			}
		}
		return
	}

	if len(triggered) == 0 {
		s.logger.Debug("Alert check pass finished, nothing triggered")
		return
	}

	s.logger.Info("Alerts triggered", logger.IntField("count", len(triggered)))

	if !s.cfg.Notify || s.notifier == nil {
		return
	}
	for _, msg := range s.format(triggered) {
		if err := s.notifier.SendMessage(ctx, msg); err != nil {
			s.logger.Error("Failed to send alert notification", logger.ErrorField(err))
			return
		}
	}
}

func (s *schedulerService) runBackup() {
	if _, err := s.backupService.CreateDailyBackupIfNeeded(); err != nil {
		s.logger.Error("Scheduled backup failed", logger.ErrorField(err))
		return
	}
	if _, err := s.backupService.CleanupOldBackups(); err != nil {
		s.logger.Error("Backup cleanup failed", logger.ErrorField(err))
	}
}
