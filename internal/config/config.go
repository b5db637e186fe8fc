package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	defaultServerPort      = 8050
	defaultServerTimeout   = 30
	defaultRedisAddress    = "localhost:6379"
	defaultCrawlSpec       = "*/30 * * * *"
	defaultAppConfigPath   = "config/config.yaml"
	defaultWordsPath       = "config/frequency_words.txt"
	defaultTemplateDirName = "config.default"
)

type Config struct {
	Debug     bool            `env:"APP_DEBUG" yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Paths     PathsConfig     `yaml:"paths"`
	Admin     AdminConfig     `yaml:"admin"`
	Redis     RedisConfig     `yaml:"redis"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"  yaml:"host"`
	Port         int           `env:"SERVER_PORT"  yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

// PathsConfig locates the crawler's own configuration and output files.
// AppConfig and Words are the live files the admin API mutates; TemplateDir
// holds the pristine defaults used for reset.
type PathsConfig struct {
	AppConfig   string `env:"APP_CONFIG_PATH"   yaml:"app_config"`
	Words       string `env:"WORDS_PATH"        yaml:"words"`
	TemplateDir string `env:"TEMPLATE_DIR"      yaml:"template_dir"`
	OutputDir   string `env:"OUTPUT_DIR"        yaml:"output_dir"` // empty: derived from app config
}

type AdminConfig struct {
	Token string `env:"ADMIN_TOKEN" yaml:"token"`
}

// RedisConfig holds Redis connection configuration for crawl triggering.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"  yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `env:"REDIS_DB"       yaml:"db"`
	Enabled  bool   `env:"REDIS_ENABLED"  yaml:"enabled"`
}

type SchedulerConfig struct {
	Enabled   bool   `env:"SCHEDULER_ENABLED" yaml:"enabled"`
	CrawlSpec string `env:"CRAWL_SPEC"        yaml:"crawl_spec"`
}

func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if c.Server.Port <= 0 {
		return errors.New("server.port is required and must be positive")
	}
	if c.Paths.AppConfig == "" {
		return errors.New("paths.app_config is required")
	}
	if c.Paths.Words == "" {
		return errors.New("paths.words is required")
	}
	if c.Scheduler.Enabled && c.Scheduler.CrawlSpec == "" {
		return errors.New("scheduler.crawl_spec is required when the scheduler is enabled")
	}
	if c.Scheduler.Enabled && !c.Redis.Enabled {
		return errors.New("scheduler requires redis to be enabled")
	}
	return nil
}

func Load(path string) (*Config, error) {
	var cfg Config
	if err := loadFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	setDefaults(&cfg)

	// Re-apply env overrides after defaults (env always wins)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout * time.Second
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	if cfg.Paths.AppConfig == "" {
		cfg.Paths.AppConfig = defaultAppConfigPath
	}
	if cfg.Paths.Words == "" {
		cfg.Paths.Words = defaultWordsPath
	}
	if cfg.Paths.TemplateDir == "" {
		cfg.Paths.TemplateDir = defaultTemplateDirName
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Scheduler.CrawlSpec == "" {
		cfg.Scheduler.CrawlSpec = defaultCrawlSpec
	}
}
