package services

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/yeremiapane/table-reservations/utils"
)

// BackupScheduler membuat backup harian dan membersihkan backup lama
type BackupScheduler struct {
	cron    *cron.Cron
	backups *BackupService
	keep    int
}

func NewBackupScheduler(backups *BackupService, schedule string, keep int) (*BackupScheduler, error) {
	s := &BackupScheduler{
		cron:    cron.New(),
		backups: backups,
		keep:    keep,
	}
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start langsung menjalankan satu kali (backup saat startup) lalu mengikuti jadwal
func (s *BackupScheduler) Start() {
	s.RunOnce()
	s.cron.Start()
	utils.Info().Println("Backup scheduler started")
}

func (s *BackupScheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *BackupScheduler) RunOnce() {
	if filename, ok := s.backups.CreateDailyBackupIfNeeded(); ok {
		utils.Info().WithField("filename", filename).Info("Daily backup created")
	}
	if s.keep > 0 {
		s.backups.CleanupOldBackups(s.keep)
	}
}
