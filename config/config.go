package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     string         `yaml:"port"`
	GinMode  string         `yaml:"gin_mode"`
	LogLevel string         `yaml:"log_level"`
	Database DatabaseConfig `yaml:"database"`
	Layout   LayoutConfig   `yaml:"layout"`
	Backup   BackupConfig   `yaml:"backup"`
	HTTP     HTTPConfig     `yaml:"http"`
	Events   EventsConfig   `yaml:"events"`
}

// DatabaseConfig -> Driver: sqlite (default), mysql, postgres.
// Backup/restore hanya bisa untuk sqlite karena berbasis file.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// LayoutConfig -> MaxTables membatasi ?tables= di /layout
type LayoutConfig struct {
	NumTables    int           `yaml:"num_tables"`
	MaxTables    int           `yaml:"max_tables"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type BackupConfig struct {
	Dir       string `yaml:"dir"`
	KeepCount int    `yaml:"keep_count"`
	Schedule  string `yaml:"schedule"`
	Enabled   bool   `yaml:"enabled"`
}

type HTTPConfig struct {
	CORSOrigins     []string      `yaml:"cors_origins"`
	RateLimit       int           `yaml:"rate_limit"`
	RateInterval    time.Duration `yaml:"rate_interval"`
	RedisAddr       string        `yaml:"redis_addr"`
	RedisPassword   string        `yaml:"redis_password"`
	RedisDB         int           `yaml:"redis_db"`
	RateLimitPrefix string        `yaml:"rate_limit_prefix"`
}

type EventsConfig struct {
	AMQPURL  string `yaml:"amqp_url"`
	Exchange string `yaml:"exchange"`
}

func Default() Config {
	return Config{
		Port:     "8080",
		GinMode:  "debug",
		LogLevel: "info",
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "restaurant.db",
		},
		Layout: LayoutConfig{
			NumTables:    50,
			MaxTables:    1000,
			PollInterval: 30 * time.Second,
		},
		Backup: BackupConfig{
			Dir:       "backups",
			KeepCount: 30,
			Schedule:  "@daily",
			Enabled:   true,
		},
		HTTP: HTTPConfig{
			CORSOrigins:     []string{"http://127.0.0.1:5500"},
			RateLimit:       50,
			RateInterval:    time.Second,
			RateLimitPrefix: "rl",
		},
		Events: EventsConfig{
			Exchange: "reservations",
		},
	}
}

// Load -> urutan: default, file YAML (CONFIG_FILE), lalu environment variable
func Load() (Config, error) {
	// .env boleh tidak ada
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envStr("PORT", cfg.Port)
	cfg.GinMode = envStr("GIN_MODE", cfg.GinMode)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)

	cfg.Database.Driver = strings.ToLower(envStr("DB_DRIVER", cfg.Database.Driver))
	cfg.Database.Path = envStr("DB_PATH", cfg.Database.Path)
	cfg.Database.DSN = envStr("DB_DSN", cfg.Database.DSN)

	cfg.Layout.NumTables = envInt("NUM_TABLES", cfg.Layout.NumTables)
	cfg.Layout.MaxTables = envInt("MAX_TABLES", cfg.Layout.MaxTables)
	cfg.Layout.PollInterval = envDur("LAYOUT_POLL_INTERVAL", cfg.Layout.PollInterval)

	cfg.Backup.Dir = envStr("BACKUP_DIR", cfg.Backup.Dir)
	cfg.Backup.KeepCount = envInt("BACKUP_KEEP", cfg.Backup.KeepCount)
	cfg.Backup.Schedule = envStr("BACKUP_SCHEDULE", cfg.Backup.Schedule)
	cfg.Backup.Enabled = envBool("BACKUP_ENABLED", cfg.Backup.Enabled)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.HTTP.CORSOrigins = splitList(origins)
	}
	cfg.HTTP.RateLimit = envInt("RATE_LIMIT", cfg.HTTP.RateLimit)
	cfg.HTTP.RateInterval = envDur("RATE_LIMIT_INTERVAL", cfg.HTTP.RateInterval)
	cfg.HTTP.RedisAddr = envStr("REDIS_ADDR", cfg.HTTP.RedisAddr)
	cfg.HTTP.RedisPassword = envStr("REDIS_PASSWORD", cfg.HTTP.RedisPassword)
	cfg.HTTP.RedisDB = envInt("REDIS_DB", cfg.HTTP.RedisDB)

	cfg.Events.AMQPURL = envStr("AMQP_URL", cfg.Events.AMQPURL)
	cfg.Events.Exchange = envStr("AMQP_EXCHANGE", cfg.Events.Exchange)
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	case "mysql", "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required for driver %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Layout.NumTables < 1 {
		return fmt.Errorf("num_tables must be positive, got %d", c.Layout.NumTables)
	}
	if c.Layout.MaxTables < c.Layout.NumTables {
		return fmt.Errorf("max_tables (%d) must be at least num_tables (%d)", c.Layout.MaxTables, c.Layout.NumTables)
	}
	if c.Backup.KeepCount < 1 {
		return fmt.Errorf("backup keep_count must be positive, got %d", c.Backup.KeepCount)
	}
	return nil
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
