// Package config loads process configuration from the environment and an
// optional .env file. Nothing here is a CLI flag: the binaries are meant to
// run as services configured entirely through their environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/sevigo/vidflow/internal/logger"
)

// Backend names for LauncherConfig.Backend.
const (
	BackendECS    = "ecs"
	BackendDocker = "docker"
)

// Config holds the application's configuration values.
type Config struct {
	Server   ServerConfig
	Logging  logger.Config
	Queue    QueueConfig
	Launcher LauncherConfig
	Storage  StorageConfig
	Worker   WorkerConfig
}

// ServerConfig configures the upload ingress.
type ServerConfig struct {
	Port        string
	MaxUploadMB int64
}

// QueueConfig configures the notification queue the dispatcher polls.
type QueueConfig struct {
	URL         string
	MaxMessages int32
	WaitSeconds int
}

// LauncherConfig selects and configures the compute backend.
type LauncherConfig struct {
	// Backend is "ecs" or "docker".
	Backend string

	// ECS placement.
	Cluster        string
	TaskDefinition string
	ContainerName  string
	Subnets        []string
	SecurityGroups []string
	AssignPublicIP bool

	// Docker.
	WorkerImage string
}

// StorageConfig names the object-store buckets.
type StorageConfig struct {
	UploadBucket string
	OutputBucket string
}

// WorkerConfig configures the transcoding worker.
type WorkerConfig struct {
	SourceKey    string
	FFmpegPath   string
	WorkDir      string
	ProfilesFile string
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults and parses list-valued settings. Validation of
// required fields is deferred to the per-binary Validate methods because the
// binaries need different subsets.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("MAX_UPLOAD_MB", 2048)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("QUEUE_MAX_MESSAGES", 5)
	viper.SetDefault("QUEUE_WAIT_SECONDS", 10)
	viper.SetDefault("LAUNCHER_BACKEND", BackendECS)
	viper.SetDefault("ECS_CONTAINER_NAME", "video-transcoder")
	viper.SetDefault("ECS_ASSIGN_PUBLIC_IP", true)
	viper.SetDefault("FFMPEG_PATH", "ffmpeg")
	viper.SetDefault("WORK_DIR", "/tmp")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("failed to read .env file, relying on environment only", "error", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			MaxUploadMB: viper.GetInt64("MAX_UPLOAD_MB"),
		},
		Logging: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
		Queue: QueueConfig{
			URL:         viper.GetString("QUEUE_URL"),
			MaxMessages: viper.GetInt32("QUEUE_MAX_MESSAGES"),
			WaitSeconds: viper.GetInt("QUEUE_WAIT_SECONDS"),
		},
		Launcher: LauncherConfig{
			Backend:        strings.ToLower(viper.GetString("LAUNCHER_BACKEND")),
			Cluster:        viper.GetString("ECS_CLUSTER"),
			TaskDefinition: viper.GetString("ECS_TASK_DEFINITION"),
			ContainerName:  viper.GetString("ECS_CONTAINER_NAME"),
			Subnets:        splitList(viper.GetString("ECS_SUBNETS")),
			SecurityGroups: splitList(viper.GetString("ECS_SECURITY_GROUPS")),
			AssignPublicIP: viper.GetBool("ECS_ASSIGN_PUBLIC_IP"),
			WorkerImage:    viper.GetString("WORKER_IMAGE"),
		},
		Storage: StorageConfig{
			UploadBucket: viper.GetString("UPLOAD_BUCKET"),
			OutputBucket: viper.GetString("OUTPUT_BUCKET"),
		},
		Worker: WorkerConfig{
			SourceKey:    viper.GetString("SOURCE_KEY"),
			FFmpegPath:   viper.GetString("FFMPEG_PATH"),
			WorkDir:      viper.GetString("WORK_DIR"),
			ProfilesFile: viper.GetString("TRANSCODE_PROFILES"),
		},
	}
	return cfg, nil
}

// ValidateDispatcher checks the settings the dispatcher and the terminal
// need. Failures here are fatal at startup.
func (c *Config) ValidateDispatcher() error {
	if c.Queue.URL == "" {
		return fmt.Errorf("QUEUE_URL must be set")
	}
	if c.Queue.MaxMessages < 1 || c.Queue.MaxMessages > 10 {
		return fmt.Errorf("QUEUE_MAX_MESSAGES must be between 1 and 10, got %d", c.Queue.MaxMessages)
	}

	switch c.Launcher.Backend {
	case BackendECS:
		if c.Launcher.Cluster == "" {
			return fmt.Errorf("ECS_CLUSTER must be set for the ecs backend")
		}
		if c.Launcher.TaskDefinition == "" {
			return fmt.Errorf("ECS_TASK_DEFINITION must be set for the ecs backend")
		}
		if len(c.Launcher.Subnets) == 0 {
			return fmt.Errorf("ECS_SUBNETS must name at least one subnet for the ecs backend")
		}
	case BackendDocker:
		if c.Launcher.WorkerImage == "" {
			return fmt.Errorf("WORKER_IMAGE must be set for the docker backend")
		}
	default:
		return fmt.Errorf("unsupported launcher backend: %s", c.Launcher.Backend)
	}
	return nil
}

// ValidateUploader checks the settings the upload ingress needs.
func (c *Config) ValidateUploader() error {
	if c.Storage.UploadBucket == "" {
		return fmt.Errorf("UPLOAD_BUCKET must be set")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.Server.MaxUploadMB)
	}
	return nil
}

// ValidateWorker checks the settings the transcoding worker needs.
func (c *Config) ValidateWorker() error {
	if c.Worker.SourceKey == "" {
		return fmt.Errorf("SOURCE_KEY must be set")
	}
	if c.Storage.UploadBucket == "" {
		return fmt.Errorf("UPLOAD_BUCKET must be set")
	}
	if c.Storage.OutputBucket == "" {
		return fmt.Errorf("OUTPUT_BUCKET must be set")
	}
	return nil
}

// splitList parses a comma-separated setting into its entries, dropping
// empty ones.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
