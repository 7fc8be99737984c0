package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/pkg/logger"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/utils"
)

const backupPrefix = "portfolio_backup_"

// BackupService copies the database file into the backup directory and
// prunes old copies.
type BackupService interface {
	CreateDailyBackupIfNeeded() (string, error)
	CleanupOldBackups() (int, error)
}

// NewBackupService creates a new backup service.
func NewBackupService(dbPath, backupDir string, retentionDays int, log *logger.Logger) BackupService {
	return &backupService{
		dbPath:        dbPath,
		backupDir:     backupDir,
		retentionDays: retentionDays,
		logger:        log,
	}
}

type backupService struct {
	dbPath        string
	backupDir     string
	retentionDays int
	logger        *logger.Logger
}

// CreateDailyBackupIfNeeded copies the database file into the backup
// directory once per day. Returns the backup path, empty when today's
// backup already exists.
func (s *backupService) CreateDailyBackupIfNeeded() (string, error) {
	if _, err := os.Stat(s.dbPath); err != nil {
		return "", fmt.Errorf("database file not found at %s: %w", s.dbPath, err)
	}

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath := filepath.Join(s.backupDir, backupPrefix+utils.FormatDate(time.Now())+".db")
	if _, err := os.Stat(backupPath); err == nil {
		return "", nil
	}

	if err := copyFile(s.dbPath, backupPath); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	s.logger.Info("Database backup created", logger.StringField("path", backupPath))
	return backupPath, nil
}

// CleanupOldBackups removes backups older than the retention window and
// returns the number of deleted files.
func (s *backupService) CleanupOldBackups() (int, error) {
	entries, err := os.ReadDir(s.backupDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read backup directory: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted := 0

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, ".db") {
			continue
		}

		dateStr := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), ".db")
		backupDate, err := utils.ParseDate(dateStr)
		if err != nil {
			continue
		}

		if backupDate.Before(cutoff) {
			if err := os.Remove(filepath.Join(s.backupDir, name)); err != nil {
				s.logger.Warn("Failed to delete old backup", logger.StringField("file", name), logger.ErrorField(err))
				continue
			}
			deleted++
		}
	}

	if deleted > 0 {
		s.logger.Info("Old backups removed", logger.IntField("deleted", deleted))
	}
	return deleted, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
