package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"pagebuilder/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. PAGEBUILDER_STORAGE_DRIVER.
const EnvPrefix = "PAGEBUILDER"

// Config is the full runtime configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Mock    MockConfig    `mapstructure:"mock" yaml:"mock"`
	Page    PageConfig    `mapstructure:"page" yaml:"page"`
}

// LoggerConfig holds the logging configuration.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // console | json
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// StorageConfig selects and addresses the page slot store.
type StorageConfig struct {
	Driver   string `mapstructure:"driver" yaml:"driver"` // sqlite | postgres | mysql | mongodb | file
	Path     string `mapstructure:"path" yaml:"path"`
	URI      string `mapstructure:"uri" yaml:"uri"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	Database string `mapstructure:"database" yaml:"database"`
	SSLMode  string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
	SlotKey  string `mapstructure:"slot_key" yaml:"slot_key"`
	// Watch reloads the page when the slot file changes on disk (file driver only).
	Watch bool `mapstructure:"watch" yaml:"watch"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// MockConfig tunes the data synthesizer and simulated network.
type MockConfig struct {
	LatencyMin   time.Duration `mapstructure:"latency_min" yaml:"latency_min"`
	LatencyMax   time.Duration `mapstructure:"latency_max" yaml:"latency_max"`
	TableRowsMin int           `mapstructure:"table_rows_min" yaml:"table_rows_min"`
	TableRowsMax int           `mapstructure:"table_rows_max" yaml:"table_rows_max"`
}

// PageConfig holds the metadata written into saved page documents.
type PageConfig struct {
	Title   string `mapstructure:"title" yaml:"title"`
	Version string `mapstructure:"version" yaml:"version"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pagebuilder")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Storage --
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "data/pagebuilder.db")
	v.SetDefault("storage.slot_key", domain.PageSlotKey)
	v.SetDefault("storage.watch", false)

	// -- Server --
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")

	// -- Mock --
	v.SetDefault("mock.latency_min", "300ms")
	v.SetDefault("mock.latency_max", "800ms")
	v.SetDefault("mock.table_rows_min", 5)
	v.SetDefault("mock.table_rows_max", 15)

	// -- Page --
	v.SetDefault("page.title", domain.DefaultPageTitle)
	v.SetDefault("page.version", domain.PageVersion)
}

// NewViper returns a viper instance with defaults and environment binding.
// When path is non-empty that file is read; otherwise pagebuilder.yaml is
// looked up in the working directory and ignored if absent.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pagebuilder")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load reads configuration from path (optional), the environment and
// defaults, then validates it.
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper unmarshals and validates v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

var validDrivers = map[string]bool{
	"sqlite": true, "postgres": true, "mysql": true, "mongodb": true, "file": true,
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if !validDrivers[c.Storage.Driver] {
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver)
	}
	switch c.Storage.Driver {
	case "sqlite", "file":
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage.path", ErrMissingStorageTarget)
		}
	default:
		if c.Storage.URI == "" && c.Storage.Host == "" {
			return fmt.Errorf("%w: storage.uri or storage.host", ErrMissingStorageTarget)
		}
	}
	if c.Storage.Watch && c.Storage.Driver != "file" {
		return ErrWatchNeedsFileDriver
	}
	if c.Storage.SlotKey == "" {
		return ErrEmptySlotKey
	}
	if c.Mock.LatencyMin < 0 || c.Mock.LatencyMax < c.Mock.LatencyMin {
		return fmt.Errorf("%w: %s..%s", ErrInvalidLatency, c.Mock.LatencyMin, c.Mock.LatencyMax)
	}
	if c.Mock.TableRowsMin <= 0 || c.Mock.TableRowsMax < c.Mock.TableRowsMin {
		return fmt.Errorf("%w: %d..%d", ErrInvalidRowRange, c.Mock.TableRowsMin, c.Mock.TableRowsMax)
	}
	return nil
}
