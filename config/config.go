package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort         string        `mapstructure:"server_port"`
	GinMode            string        `mapstructure:"gin_mode"`
	LogLevel           string        `mapstructure:"log_level"`
	MaxFileSize        int64         `mapstructure:"max_file_size"`
	MaxMultipartMemory int64         `mapstructure:"max_multipart_memory"`
	CacheDBPath        string        `mapstructure:"cache_db_path"`
	ExtractTimeout     time.Duration `mapstructure:"extract_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	OCREnabled         bool          `mapstructure:"ocr_enabled"`
	TesseractDataPath  string        `mapstructure:"tessdata_prefix"`
}

var defaults = map[string]any{
	"server_port":          "8080",
	"gin_mode":             "release",
	"log_level":            "info",
	"max_file_size":        10 << 20, // 10 MB
	"max_multipart_memory": 32 << 20,
	"cache_db_path":        "data/weekly-lights-cache.db",
	"extract_timeout":      "60s",
	"shutdown_timeout":     "10s",
	"ocr_enabled":          false,
	"tessdata_prefix":      "/usr/share/tesseract-ocr/5/tessdata/",
}

// LoadConfig reads defaults, then the optional config file at path, then
// environment variables (SERVER_PORT, CACHE_DB_PATH, ...), later sources
// winning.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("server_port must not be empty")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("gin_mode must be debug, release or test, got %q", c.GinMode)
	}
	if c.ExtractTimeout <= 0 {
		return fmt.Errorf("extract_timeout must be positive, got %s", c.ExtractTimeout)
	}
	return nil
}
