// Package config loads application configuration from an optional YAML file
// and RECONAI_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"reconai/pkg/logger"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`
	// Path is the sqlite database file.
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type ScanConfig struct {
	// MaxConcurrent caps scans executing at once; further requests queue.
	MaxConcurrent  int           `mapstructure:"max_concurrent"`
	ModuleTimeout  time.Duration `mapstructure:"module_timeout"`
	ScanTimeout    time.Duration `mapstructure:"scan_timeout"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	BannerWait     time.Duration `mapstructure:"banner_wait"`
	PortWorkers    int           `mapstructure:"port_workers"`
	// ProbesPerSecond paces port probe starts; 0 disables pacing.
	ProbesPerSecond float64 `mapstructure:"probes_per_second"`
	DNSServer       string  `mapstructure:"dns_server"`
}

type AnalysisConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type DiscordConfig struct {
	Token     string `mapstructure:"token"`
	ChannelID string `mapstructure:"channel_id"`
}

type Config struct {
	LogLevel string         `mapstructure:"log_level"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Discord  DiscordConfig  `mapstructure:"discord"`

	v *viper.Viper
}

// Options controls where Load searches for the config file.
type Options struct {
	ConfigPath string
	ConfigName string
}

// Load reads configuration with defaults for every knob. A missing config
// file is not an error; environment variables and defaults still apply.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if opts.ConfigName == "" {
		opts.ConfigName = "reconai"
	}
	v.SetConfigName(opts.ConfigName)

	configPaths := []string{"."}
	if opts.ConfigPath != "" {
		configPaths = append([]string{opts.ConfigPath}, configPaths...)
	}
	configPaths = append(configPaths, "./config", "/etc/reconai", "$HOME/.reconai")
	for _, path := range configPaths {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix("RECONAI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/reconai.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "reconai")
	v.SetDefault("database.password", "reconai")
	v.SetDefault("database.name", "reconai")

	v.SetDefault("scan.max_concurrent", 4)
	v.SetDefault("scan.module_timeout", 2*time.Minute)
	v.SetDefault("scan.scan_timeout", 5*time.Minute)
	v.SetDefault("scan.connect_timeout", 2*time.Second)
	v.SetDefault("scan.banner_wait", 1*time.Second)
	v.SetDefault("scan.port_workers", 20)
	v.SetDefault("scan.probes_per_second", 0)
	v.SetDefault("scan.dns_server", "")

	v.SetDefault("analysis.api_key", "")
	v.SetDefault("analysis.model", "gpt-4.1-mini")

	v.SetDefault("discord.token", "")
	v.SetDefault("discord.channel_id", "")
}

// Watch re-reads the config file on change and hands the refreshed values to
// onReload. Only fields that are safe to swap at runtime should be applied
// there; connection settings need a restart.
func (c *Config) Watch(log *logger.Logger, onReload func(*Config)) {
	if c.v == nil {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		fresh := &Config{v: c.v}
		if err := c.v.Unmarshal(fresh); err != nil {
			log.WithError(err).Error("Config reload failed")
			return
		}
		log.WithFields(logger.Fields{"file": e.Name}).Info("Config reloaded")
		onReload(fresh)
	})
	c.v.WatchConfig()
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}
