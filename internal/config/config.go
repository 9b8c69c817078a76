// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/adhocore/gronx"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	ChatID   int64   `yaml:"chat_id"` // destination chat for alerts
	Workers  int     `yaml:"workers"` // polling workers
	AdminIDs []int64 `yaml:"admin_ids"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URI  string `yaml:"uri"`
	Name string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	QuoteTTL time.Duration `yaml:"quote_ttl"`
}

type MarketConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	FetchWorkers   int           `yaml:"fetch_workers"` // concurrent symbol fetches
	DefaultSuffix  string        `yaml:"default_suffix"`
	ApproachZone   float64       `yaml:"approach_zone"`  // zone approach threshold
	ApproachTrade  float64       `yaml:"approach_trade"` // trade approach threshold
	SessionCloseAt string        `yaml:"session_close_at"`
}

type SchedulerConfig struct {
	// SweepCrons holds five-field cron expressions (UTC) that gate the
	// alert sweep, mirroring the old CI triggers.
	SweepCrons    []string      `yaml:"sweep_crons"`
	ScreenerCron  string        `yaml:"screener_cron"`
	LockTTL       time.Duration `yaml:"lock_ttl"`
	SweepTimeout  time.Duration `yaml:"sweep_timeout"`
	MarketTZ      string        `yaml:"market_tz"`
	SkipOffMarket bool          `yaml:"skip_off_market"`
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Market    MarketConfig    `yaml:"market"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Admin     AdminConfig     `yaml:"admin"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file and applies environment overrides and
// defaults. The env variables TELEGRAM_TOKEN, TELEGRAM_CHAT_ID and
// MONGODB_URI always win over the file; they are how the deployment injects
// secrets. Call Validate before serving.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.URI == "" {
		cfg.Database.URI = "mongodb://localhost:27017"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "stock_zones"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.QuoteTTL <= 0 {
		cfg.Redis.QuoteTTL = 3 * time.Minute
	}
	if cfg.Market.BaseURL == "" {
		cfg.Market.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Market.Timeout <= 0 {
		cfg.Market.Timeout = 10 * time.Second
	}
	if cfg.Market.FetchWorkers <= 0 {
		cfg.Market.FetchWorkers = 8
	}
	if cfg.Market.DefaultSuffix == "" {
		cfg.Market.DefaultSuffix = ".NS"
	}
	if cfg.Market.ApproachZone <= 0 {
		cfg.Market.ApproachZone = 0.03
	}
	if cfg.Market.ApproachTrade <= 0 {
		cfg.Market.ApproachTrade = 0.02
	}
	if cfg.Market.SessionCloseAt == "" {
		cfg.Market.SessionCloseAt = "15:30"
	}
	if len(cfg.Scheduler.SweepCrons) == 0 {
		// The historical trading-day schedule: every 10 minutes through the
		// session plus a tighter tail around the close (UTC).
		cfg.Scheduler.SweepCrons = []string{
			"15,25,35,45,55 3-9 * * 1-5",
			"0,10,20,30 10 * * 1-5",
		}
	}
	if cfg.Scheduler.ScreenerCron == "" {
		cfg.Scheduler.ScreenerCron = "0 20 * * 6" // Saturday night UTC
	}
	if cfg.Scheduler.LockTTL <= 0 {
		cfg.Scheduler.LockTTL = 4 * time.Minute
	}
	if cfg.Scheduler.SweepTimeout <= 0 {
		cfg.Scheduler.SweepTimeout = 3 * time.Minute
	}
	if cfg.Scheduler.MarketTZ == "" {
		cfg.Scheduler.MarketTZ = "Asia/Kolkata"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 8080
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// Validate checks the fields the long-running service needs. One-shot tools
// that only touch the database (cmd/seed) load config without calling it.
func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return errors.New("bot.token is required (or TELEGRAM_TOKEN)")
	}
	if c.Bot.ChatID == 0 {
		return errors.New("bot.chat_id is required (or TELEGRAM_CHAT_ID)")
	}
	gron := gronx.New()
	for _, expr := range c.Scheduler.SweepCrons {
		if !gron.IsValid(expr) {
			return fmt.Errorf("scheduler.sweep_crons: invalid cron expression %q", expr)
		}
	}
	if !gron.IsValid(c.Scheduler.ScreenerCron) {
		return fmt.Errorf("scheduler.screener_cron: invalid cron expression %q", c.Scheduler.ScreenerCron)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Bot.ChatID = id
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		cfg.Database.URI = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	return nil
}
