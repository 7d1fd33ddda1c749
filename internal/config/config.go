package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PTPImg    PTPImgConfig
	HTTP      HTTPConfig
	Thumbnail ThumbnailConfig
	Log       LogConfig
}

type PTPImgConfig struct {
	APIKey   string
	Endpoint string
	Referer  string
	Host     string
}

type HTTPConfig struct {
	// Timeout bounds every fetch and upload request; zero means no timeout.
	Timeout time.Duration
}

type ThumbnailConfig struct {
	Quality int
}

type LogConfig struct {
	Level string
}

const (
	DefaultEndpoint = "https://ptpimg.me/upload.php"
	DefaultReferer  = "https://ptpimg.me/index.php"
	DefaultHost     = "ptpimg.me"
)

var ErrMissingAPIKey = errors.New("please specify an API key")

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is the normal case for a command-line tool.
	_ = godotenv.Load()

	cfg := &Config{
		PTPImg: PTPImgConfig{
			APIKey:   getEnv("PTPIMG_API_KEY", ""),
			Endpoint: getEnv("PTPIMG_ENDPOINT", DefaultEndpoint),
			Referer:  getEnv("PTPIMG_REFERER", DefaultReferer),
			Host:     getEnv("PTPIMG_HOST", DefaultHost),
		},
		HTTP: HTTPConfig{
			Timeout: getDuration("PTPIMG_TIMEOUT", 0),
		},
		Thumbnail: ThumbnailConfig{
			Quality: getEnvAsInt("THUMBNAIL_QUALITY", 85),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "warn"),
		},
	}

	return cfg, nil
}

// Validate reports settings the uploader cannot run without.
func (c *Config) Validate() error {
	if c.PTPImg.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
