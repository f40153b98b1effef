package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sevigo/vidflow/internal/config"
	"github.com/sevigo/vidflow/internal/logger"
	"github.com/sevigo/vidflow/internal/storage"
	"github.com/sevigo/vidflow/internal/transcode"
)

// The worker is a one-shot process: launched per job by the dispatcher with
// SOURCE_KEY in its environment, it transcodes that single object and exits.
func main() {
	if err := run(); err != nil {
		slog.Error("transcoding job failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ValidateWorker(); err != nil {
		return fmt.Errorf("invalid worker configuration: %w", err)
	}

	log := logger.NewLogger(cfg.Logging, nil)

	profiles, err := transcode.LoadProfiles(cfg.Worker.ProfilesFile)
	if err != nil {
		return err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("loading AWS configuration: %w", err)
	}
	store := storage.NewS3Store(s3.NewFromConfig(awsCfg), log)

	transcoder := transcode.NewTranscoder(
		store,
		cfg.Storage.UploadBucket,
		cfg.Storage.OutputBucket,
		cfg.Worker.FFmpegPath,
		cfg.Worker.WorkDir,
		profiles,
		log,
	)
	return transcoder.Run(ctx, cfg.Worker.SourceKey)
}
