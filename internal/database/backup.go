package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackupConfig controls periodic database snapshots.
type BackupConfig struct {
	Enabled       bool
	IntervalHours int
	Path          string
	RetentionDays int
}

// BackupService periodically snapshots the database file. Snapshots go
// through VACUUM INTO so they are consistent even while WAL writers run.
type BackupService struct {
	db  *DB
	cfg BackupConfig
}

func NewBackupService(db *DB, cfg BackupConfig) *BackupService {
	if cfg.IntervalHours <= 0 {
		cfg.IntervalHours = 24
	}
	return &BackupService{db: db, cfg: cfg}
}

// Start runs backups on the configured interval until ctx is cancelled.
// The first backup happens immediately.
func (s *BackupService) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.db.log.Info().Msg("backups disabled")
		return
	}

	s.db.log.Info().
		Int("interval_hours", s.cfg.IntervalHours).
		Str("path", s.cfg.Path).
		Msg("backup service started")

	ticker := time.NewTicker(time.Duration(s.cfg.IntervalHours) * time.Hour)
	defer ticker.Stop()

	if err := s.PerformBackup(ctx); err != nil {
		s.db.log.Error().Err(err).Msg("initial backup failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.PerformBackup(ctx); err != nil {
				s.db.log.Error().Err(err).Msg("scheduled backup failed")
			}
			s.cleanupOldBackups()
		}
	}
}

// PerformBackup writes one timestamped snapshot.
func (s *BackupService) PerformBackup(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.Path, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(s.cfg.Path, fmt.Sprintf("backup_%s.db", timestamp))

	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", backupPath); err != nil {
		return fmt.Errorf("vacuum into %s: %w", backupPath, err)
	}

	s.db.log.Info().Str("path", backupPath).Msg("backup completed")
	return nil
}

func (s *BackupService) cleanupOldBackups() {
	if s.cfg.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.cfg.Path)
	if err != nil {
		s.db.log.Error().Err(err).Msg("read backup directory failed")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.db.log.Info().Str("file", file.Name()).Msg("deleting old backup")
			_ = os.Remove(filepath.Join(s.cfg.Path, file.Name()))
		}
	}
}
