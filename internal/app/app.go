// Package app initializes and orchestrates the dispatcher's components: the
// queue source, the selected launch backend and the dispatch loop itself.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	dockerclient "github.com/docker/docker/client"

	"github.com/sevigo/vidflow/internal/config"
	"github.com/sevigo/vidflow/internal/core"
	"github.com/sevigo/vidflow/internal/dispatch"
	"github.com/sevigo/vidflow/internal/launcher"
	"github.com/sevigo/vidflow/internal/queue"
	"github.com/sevigo/vidflow/internal/registry"
)

// App holds the dispatcher's main components.
type App struct {
	Cfg        *config.Config
	Logger     *slog.Logger
	Queue      *queue.Source
	Launcher   core.Launcher
	Registry   *registry.Registry
	Dispatcher *dispatch.Dispatcher
}

// NewApp sets up the dispatcher with all its dependencies. Configuration
// problems surface here and are fatal; everything later is per-message.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.ValidateDispatcher(); err != nil {
		return nil, fmt.Errorf("invalid dispatcher configuration: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	source := queue.NewSource(sqs.NewFromConfig(awsCfg), cfg.Queue.URL, logger)

	var jobLauncher core.Launcher
	var baseEnv []core.EnvVar

	switch cfg.Launcher.Backend {
	case config.BackendECS:
		logger.Info("using ECS launch backend",
			"cluster", cfg.Launcher.Cluster,
			"task_definition", cfg.Launcher.TaskDefinition,
		)
		jobLauncher = launcher.NewECSLauncher(ecs.NewFromConfig(awsCfg), launcher.ECSConfig{
			Cluster:        cfg.Launcher.Cluster,
			TaskDefinition: cfg.Launcher.TaskDefinition,
			ContainerName:  cfg.Launcher.ContainerName,
			Subnets:        cfg.Launcher.Subnets,
			SecurityGroups: cfg.Launcher.SecurityGroups,
			AssignPublicIP: cfg.Launcher.AssignPublicIP,
		}, logger)

	case config.BackendDocker:
		logger.Info("using local Docker launch backend", "image", cfg.Launcher.WorkerImage)
		cli, err := dockerclient.NewClientWithOpts(dockerclient.FromEnv, dockerclient.WithAPIVersionNegotiation())
		if err != nil {
			return nil, fmt.Errorf("creating docker client: %w", err)
		}
		jobLauncher = launcher.NewDockerLauncher(cli, cfg.Launcher.WorkerImage, logger)

		// Local containers have no task role, so they get the
		// dispatcher's own credentials to reach the object store.
		creds, err := awsCfg.Credentials.Retrieve(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving credentials for worker containers: %w", err)
		}
		baseEnv = launcher.CredentialEnv(awsCfg.Region, creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken)

	default:
		return nil, fmt.Errorf("unsupported launcher backend: %s", cfg.Launcher.Backend)
	}

	reg := registry.New()
	dispatcher := dispatch.NewDispatcher(
		source,
		jobLauncher,
		reg,
		baseEnv,
		cfg.Queue.MaxMessages,
		time.Duration(cfg.Queue.WaitSeconds)*time.Second,
		logger,
	)

	logger.Info("dispatcher initialized", "queue", cfg.Queue.URL, "backend", cfg.Launcher.Backend)
	return &App{
		Cfg:        cfg,
		Logger:     logger,
		Queue:      source,
		Launcher:   jobLauncher,
		Registry:   reg,
		Dispatcher: dispatcher,
	}, nil
}

// Run executes the automatic dispatch loop until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	return a.Dispatcher.Run(ctx)
}
