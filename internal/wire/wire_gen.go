// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sevigo/vidflow/internal/app"
	"github.com/sevigo/vidflow/internal/config"
	"github.com/sevigo/vidflow/internal/logger"
	"github.com/sevigo/vidflow/internal/server"
	"github.com/sevigo/vidflow/internal/storage"
)

// InitializeApp builds the dispatcher application graph.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	loggerConfig := provideLoggerConfig(cfg)
	writer := provideLogWriter(cfg)
	slogLogger := provideSlogLogger(loggerConfig, writer)
	application, err := app.NewApp(ctx, cfg, slogLogger)
	if err != nil {
		return nil, nil, err
	}
	return application, func() {}, nil
}

// InitializeUploader builds the upload-ingress server graph.
func InitializeUploader(ctx context.Context) (*server.Server, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	loggerConfig := provideLoggerConfig(cfg)
	writer := provideLogWriter(cfg)
	slogLogger := provideSlogLogger(loggerConfig, writer)
	objectStore, err := provideObjectStore(ctx, cfg, slogLogger)
	if err != nil {
		return nil, nil, err
	}
	srv := server.NewServer(cfg, objectStore, slogLogger)
	return srv, func() {}, nil
}

func provideObjectStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.ObjectStore, error) {
	if err := cfg.ValidateUploader(); err != nil {
		return nil, fmt.Errorf("invalid uploader configuration: %w", err)
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}
	return storage.NewS3Store(s3.NewFromConfig(awsCfg), logger), nil
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogWriter(cfg *config.Config) io.Writer {
	switch cfg.Logging.Output {
	case "stderr":
		return os.Stderr
	default:
		return os.Stdout
	}
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	return logger.NewLogger(loggerConfig, writer)
}
