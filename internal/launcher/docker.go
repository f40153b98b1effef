package launcher

import (
	"context"
	"log/slog"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/sevigo/vidflow/internal/core"
)

// DockerAPI is the slice of the Docker client the launcher needs.
type DockerAPI interface {
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
}

// DockerLauncher starts worker containers on the local container runtime.
// It is the development-time stand-in for the managed orchestrator.
type DockerLauncher struct {
	client DockerAPI
	image  string
	logger *slog.Logger
}

// NewDockerLauncher creates a launcher that runs the given worker image.
func NewDockerLauncher(client DockerAPI, image string, logger *slog.Logger) *DockerLauncher {
	return &DockerLauncher{
		client: client,
		image:  image,
		logger: logger,
	}
}

// Submit creates and starts one container, passing the request's environment
// entries as process environment variables. The container ID is the launch
// handle. The container is not awaited: like a remote task, it runs to
// completion on its own.
func (l *DockerLauncher) Submit(ctx context.Context, req *core.LaunchRequest) (*core.LaunchResult, error) {
	env := make([]string, 0, len(req.Env))
	for _, e := range req.Env {
		env = append(env, e.Name+"="+e.Value)
	}

	l.logger.Debug("creating worker container", "image", l.image, "key", req.Job.Key)

	created, err := l.client.ContainerCreate(ctx, &container.Config{
		Image: l.image,
		Env:   env,
	}, nil, nil, nil, "")
	if err != nil {
		return nil, &core.LaunchError{Backend: "docker", Reason: "container create failed", Err: err}
	}

	if err := l.client.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return nil, &core.LaunchError{Backend: "docker", Reason: "container start failed", Err: err}
	}

	return &core.LaunchResult{TaskID: created.ID}, nil
}
