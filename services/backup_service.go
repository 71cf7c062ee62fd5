package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/table-reservations/database"
	"github.com/yeremiapane/table-reservations/models"
	"github.com/yeremiapane/table-reservations/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	BackupPrefix     = "restaurant_"
	BackupExtension  = ".db"
	BackupTimeLayout = "2006-01-02_15-04-05"

	safetyPrefix     = "_pre_restore_safety_"
	safetyTimeLayout = "20060102_150405"
)

// BackupCounts -> jumlah data di dalam file backup
type BackupCounts struct {
	Reservations int64 `json:"reservations"`
	Waiters      int64 `json:"waiters"`
	Tables       int64 `json:"tables"`
	Sections     int64 `json:"sections"`
}

type BackupInfo struct {
	Filename     string        `json:"filename"`
	Path         string        `json:"-"`
	Timestamp    time.Time     `json:"timestamp"`
	TimestampStr string        `json:"timestamp_str"`
	SizeBytes    int64         `json:"size_bytes"`
	SizeStr      string        `json:"size_str"`
	Counts       *BackupCounts `json:"counts,omitempty"`
}

// BackupService menyalin file sqlite apa adanya ke folder backup.
// Semua operasi tidak pernah mengembalikan error: kegagalan dicatat di log
// dan dilaporkan lewat nilai bool/kosong.
type BackupService struct {
	db    *database.Handle
	dir   string
	clock utils.Clock
}

func NewBackupService(db *database.Handle, dir string, clock utils.Clock) *BackupService {
	if dir == "" {
		dir = "backups"
	}
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &BackupService{db: db, dir: dir, clock: clock}
}

func (s *BackupService) Dir() string { return s.dir }

// CreateBackup menyalin database aktif ke backups/restaurant_<timestamp>.db
func (s *BackupService) CreateBackup() (string, bool) {
	if !s.db.IsFileBased() {
		utils.Error().WithField("driver", s.db.Driver()).Error(ErrBackupUnsupported)
		return "", false
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		utils.Error().Errorf("Failed to create backup folder: %v", err)
		return "", false
	}

	filename := BackupPrefix + s.clock.Now().Format(BackupTimeLayout) + BackupExtension
	dst := filepath.Join(s.dir, filename)

	err := s.db.Exclusive(func(path string) error {
		return copyFile(path, dst)
	})
	if err != nil {
		utils.Error().WithField("filename", filename).Errorf("Backup creation failed: %v", err)
		return "", false
	}

	utils.Info().WithField("filename", filename).Info("Backup created")
	return filename, true
}

// ListBackups mengembalikan backup terbaru lebih dulu. File yang tidak bisa
// dibaca saat menghitung isi tetap ditampilkan dengan jumlah 0.
func (s *BackupService) ListBackups(includeCounts bool) []BackupInfo {
	backups := []BackupInfo{}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			utils.Error().Errorf("Failed to read backup folder: %v", err)
		}
		return backups
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, BackupPrefix) || !strings.HasSuffix(name, BackupExtension) {
			continue
		}
		ts, ok := parseBackupTimestamp(name)
		if !ok {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}

		info := BackupInfo{
			Filename:     name,
			Path:         filepath.Join(s.dir, name),
			Timestamp:    ts,
			TimestampStr: ts.Format("2006-01-02 15:04:05"),
			SizeBytes:    fi.Size(),
			SizeStr:      utils.FormatByteSize(fi.Size()),
		}
		if includeCounts {
			counts := countBackupRecords(info.Path)
			info.Counts = &counts
		}
		backups = append(backups, info)
	}

	sort.SliceStable(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups
}

// RestoreBackup mengganti database aktif dengan isi backup.
//
// File backup diperiksa dulu; jika bukan database sqlite yang valid, database
// aktif tidak disentuh sama sekali. Sebelum diganti, database aktif disalin ke
// _pre_restore_safety_<timestamp>.db. Penggantian memakai file .tmp lalu rename.
func (s *BackupService) RestoreBackup(filename string) bool {
	log := utils.Info().WithField("filename", filename)

	if !s.db.IsFileBased() {
		utils.Error().WithField("driver", s.db.Driver()).Error(ErrBackupUnsupported)
		return false
	}
	src, err := s.backupPath(filename)
	if err != nil {
		utils.Error().WithField("filename", filename).Errorf("Restore rejected: %v", err)
		return false
	}
	if err := probeSQLite(src); err != nil {
		utils.Error().WithField("filename", filename).Errorf("Restore rejected: %v: %v", ErrInvalidBackup, err)
		return false
	}

	safety := filepath.Join(s.dir, safetyPrefix+s.clock.Now().Format(safetyTimeLayout)+BackupExtension)

	err = s.db.Replace(func(live string) error {
		if err := copyFile(live, safety); err != nil {
			return fmt.Errorf("safety backup: %w", err)
		}
		tmp := live + ".tmp"
		if err := copyFile(src, tmp); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("copy backup: %w", err)
		}
		if err := os.Rename(tmp, live); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("replace database: %w", err)
		}
		return nil
	})
	if err != nil {
		utils.Error().WithField("filename", filename).Errorf("Restore failed: %v", err)
		return false
	}

	log.WithField("safety_backup", filepath.Base(safety)).Info("Backup restored")
	return true
}

func (s *BackupService) DeleteBackup(filename string) bool {
	path, err := s.backupPath(filename)
	if err != nil {
		return false
	}
	if err := os.Remove(path); err != nil {
		utils.Error().WithField("filename", filename).Errorf("Backup deletion failed: %v", err)
		return false
	}
	utils.Info().WithField("filename", filename).Info("Backup deleted")
	return true
}

// CleanupOldBackups menyisakan keep backup terbaru dan menghapus sisanya
func (s *BackupService) CleanupOldBackups(keep int) int {
	if keep < 0 {
		keep = 0
	}
	backups := s.ListBackups(false)
	if len(backups) <= keep {
		return 0
	}

	removed := 0
	for _, b := range backups[keep:] {
		if s.DeleteBackup(b.Filename) {
			removed++
		}
	}
	utils.Info().WithFields(logrus.Fields{"kept": keep, "removed": removed}).Info("Old backups cleaned up")
	return removed
}

func (s *BackupService) HasTodayBackup() bool {
	today := s.clock.Now()
	for _, b := range s.ListBackups(false) {
		if utils.SameDate(b.Timestamp, today) {
			return true
		}
	}
	return false
}

// CreateDailyBackupIfNeeded -> ("", false) jika hari ini sudah ada backup
func (s *BackupService) CreateDailyBackupIfNeeded() (string, bool) {
	if s.HasTodayBackup() {
		return "", false
	}
	return s.CreateBackup()
}

// backupPath menolak nama yang keluar dari folder backup, mis. "../restaurant.db"
func (s *BackupService) backupPath(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || filepath.Ext(filename) != BackupExtension {
		return "", fmt.Errorf("%w: %q", ErrBackupNotFound, filename)
	}
	path := filepath.Join(s.dir, filename)
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrBackupNotFound, filename)
	}
	return path, nil
}

func parseBackupTimestamp(filename string) (time.Time, bool) {
	raw := strings.TrimSuffix(strings.TrimPrefix(filename, BackupPrefix), BackupExtension)
	ts, err := time.ParseInLocation(BackupTimeLayout, raw, utils.SlotLocation)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// openReadOnly membuka file sqlite lain (bukan database aktif) hanya untuk dibaca
func openReadOnly(path string) (*gorm.DB, func(), error) {
	db, err := gorm.Open(sqlite.Open("file:"+path+"?mode=ro"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, closeFn, nil
}

func probeSQLite(path string) error {
	db, closeFn, err := openReadOnly(path)
	if err != nil {
		return err
	}
	defer closeFn()

	var one int
	return db.Raw("SELECT 1 FROM sqlite_master LIMIT 1").Scan(&one).Error
}

func countBackupRecords(path string) BackupCounts {
	var counts BackupCounts

	db, closeFn, err := openReadOnly(path)
	if err != nil {
		utils.Info().WithField("path", path).Debugf("Backup not readable for counting: %v", err)
		return counts
	}
	defer closeFn()

	// setiap tabel dihitung terpisah; backup lama mungkin belum punya semua tabel
	db.Model(&models.Reservation{}).Where("status = ?", models.StatusReserved).Count(&counts.Reservations)
	db.Model(&models.Waiter{}).Count(&counts.Waiters)
	db.Model(&models.SectionTable{}).Count(&counts.Tables)
	db.Model(&models.Section{}).Count(&counts.Sections)
	return counts
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
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
