package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration settings.
// Every field is read from a VD_-prefixed environment variable.
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"video-downloader"`

	HTTPPort         int           `envconfig:"HTTP_PORT" default:"5000"`
	HTTPReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"0s"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	CORSOrigins      []string      `envconfig:"CORS_ORIGINS" default:"*"`

	DownloadDir            string `envconfig:"DOWNLOAD_DIR" default:"./downloads"`
	MaxConcurrentDownloads int    `envconfig:"MAX_CONCURRENT_DOWNLOADS" default:"0"`

	YTDLPPath        string        `envconfig:"YTDLP_PATH" default:"yt-dlp"`
	FFmpegPath       string        `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	MaxHeight        int           `envconfig:"MAX_HEIGHT" default:"1080"`
	ProgressInterval time.Duration `envconfig:"PROGRESS_INTERVAL" default:"500ms"`
	ProbePlaylist    bool          `envconfig:"PROBE_PLAYLIST" default:"true"`
	ProbeRetries     uint64        `envconfig:"PROBE_RETRIES" default:"3"`

	TaskRetention   time.Duration `envconfig:"TASK_RETENTION" default:"0s"`
	JanitorInterval time.Duration `envconfig:"JANITOR_INTERVAL" default:"10m"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Validate checks the configuration for invalid or missing values.
// Returns an error describing the first invalid setting found.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.HTTPReadTimeout < 0 || c.HTTPWriteTimeout < 0 || c.ShutdownTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}

	if strings.TrimSpace(c.DownloadDir) == "" {
		return fmt.Errorf("download directory cannot be empty")
	}

	if c.MaxConcurrentDownloads < 0 {
		return fmt.Errorf("max concurrent downloads cannot be negative: %d", c.MaxConcurrentDownloads)
	}

	if c.MaxHeight <= 0 {
		return fmt.Errorf("max height must be positive: %d", c.MaxHeight)
	}

	if c.ProgressInterval <= 0 {
		return fmt.Errorf("progress interval must be positive: %s", c.ProgressInterval)
	}

	if c.TaskRetention < 0 {
		return fmt.Errorf("task retention cannot be negative: %s", c.TaskRetention)
	}
	if c.TaskRetention > 0 && c.JanitorInterval <= 0 {
		return fmt.Errorf("janitor interval must be positive when retention is set: %s", c.JanitorInterval)
	}

	switch c.LogFormat {
	case "json", "text", "console":
	default:
		return fmt.Errorf("unsupported log format: %q", c.LogFormat)
	}

	return nil
}
