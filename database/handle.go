package database

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yeremiapane/table-reservations/config"
	"github.com/yeremiapane/table-reservations/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNotFileBased = errors.New("database is not file based")

// Handle memegang koneksi gorm di balik RWMutex.
// Setiap operasi store memanggil Do sehingga tidak ada koneksi yang dipegang
// antar panggilan; Replace/Exclusive menunggu sampai operasi yang berjalan selesai.
type Handle struct {
	mu  sync.RWMutex
	db  *gorm.DB
	cfg config.DatabaseConfig
}

// Open membuka database sesuai driver lalu menjalankan Migrate
func Open(cfg config.DatabaseConfig) (*Handle, error) {
	h := &Handle{cfg: cfg}
	db, err := h.connect()
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		closeDB(db)
		return nil, err
	}
	h.db = db
	return h, nil
}

// OpenSQLite -> shortcut untuk file sqlite (dipakai juga di test)
func OpenSQLite(path string) (*Handle, error) {
	return Open(config.DatabaseConfig{Driver: "sqlite", Path: path})
}

func (h *Handle) connect() (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch h.cfg.Driver {
	case "", "sqlite":
		dialector = sqlite.Open(h.cfg.Path)
	case "mysql":
		dialector = mysql.Open(h.cfg.DSN)
	case "postgres":
		dialector = postgres.Open(h.cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", h.cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if h.IsFileBased() {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// satu writer untuk file sqlite
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Do menjalankan fn dengan koneksi aktif
func (h *Handle) Do(fn func(db *gorm.DB) error) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.db == nil {
		return errors.New("database is closed")
	}
	return fn(h.db)
}

// Exclusive memberi akses eksklusif ke file sqlite, mis. untuk menyalin backup.
// Tidak ada operasi lain yang berjalan selama fn.
func (h *Handle) Exclusive(fn func(path string) error) error {
	if !h.IsFileBased() {
		return ErrNotFileBased
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.cfg.Path)
}

// Replace menutup koneksi, menjalankan fn (yang boleh mengganti file database),
// lalu membuka ulang dan menjalankan Migrate.
func (h *Handle) Replace(fn func(path string) error) error {
	if !h.IsFileBased() {
		return ErrNotFileBased
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db != nil {
		closeDB(h.db)
		h.db = nil
	}

	fnErr := fn(h.cfg.Path)

	// selalu buka ulang, walaupun fn gagal, supaya aplikasi tetap jalan
	db, err := h.connect()
	if err != nil {
		return fmt.Errorf("reopen after replace: %w", err)
	}
	h.db = db
	if fnErr != nil {
		return fnErr
	}
	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate after replace: %w", err)
	}
	return nil
}

func (h *Handle) Driver() string {
	if h.cfg.Driver == "" {
		return "sqlite"
	}
	return h.cfg.Driver
}

// Path -> lokasi file sqlite; kosong untuk mysql/postgres
func (h *Handle) Path() string {
	if !h.IsFileBased() {
		return ""
	}
	return h.cfg.Path
}

func (h *Handle) IsFileBased() bool {
	return h.Driver() == "sqlite"
}

func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil
	}
	sqlDB, err := h.db.DB()
	h.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		utils.Error().Printf("Error closing database: %v", err)
	}
}
