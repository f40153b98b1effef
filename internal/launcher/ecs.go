// Package launcher provides the compute backends a job can be submitted to:
// a managed container orchestrator (ECS on Fargate) and a local container
// runtime (Docker). Both satisfy core.Launcher, so the dispatcher never
// knows which one configuration picked.
package launcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"

	"github.com/sevigo/vidflow/internal/core"
)

// ECSAPI is the slice of the ECS client the launcher needs.
type ECSAPI interface {
	RunTask(ctx context.Context, params *ecs.RunTaskInput, optFns ...func(*ecs.Options)) (*ecs.RunTaskOutput, error)
}

// ECSConfig describes where and how remote tasks are placed.
type ECSConfig struct {
	Cluster        string
	TaskDefinition string
	ContainerName  string
	Subnets        []string
	SecurityGroups []string
	AssignPublicIP bool
}

// ECSLauncher starts one-shot Fargate tasks on a managed cluster.
type ECSLauncher struct {
	client ECSAPI
	cfg    ECSConfig
	logger *slog.Logger
}

// NewECSLauncher creates a launcher for the configured cluster and task
// definition.
func NewECSLauncher(client ECSAPI, cfg ECSConfig, logger *slog.Logger) *ECSLauncher {
	return &ECSLauncher{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Submit runs exactly one task with the request's environment entries laid
// over the configured container. The ARN of the started task is the launch
// handle.
func (l *ECSLauncher) Submit(ctx context.Context, req *core.LaunchRequest) (*core.LaunchResult, error) {
	env := make([]ecstypes.KeyValuePair, 0, len(req.Env))
	for _, e := range req.Env {
		env = append(env, ecstypes.KeyValuePair{
			Name:  aws.String(e.Name),
			Value: aws.String(e.Value),
		})
	}

	assignPublicIP := ecstypes.AssignPublicIpDisabled
	if l.cfg.AssignPublicIP {
		assignPublicIP = ecstypes.AssignPublicIpEnabled
	}

	l.logger.Debug("submitting task to ECS",
		"cluster", l.cfg.Cluster,
		"task_definition", l.cfg.TaskDefinition,
		"key", req.Job.Key,
	)

	out, err := l.client.RunTask(ctx, &ecs.RunTaskInput{
		Cluster:        aws.String(l.cfg.Cluster),
		TaskDefinition: aws.String(l.cfg.TaskDefinition),
		LaunchType:     ecstypes.LaunchTypeFargate,
		Count:          aws.Int32(1),
		NetworkConfiguration: &ecstypes.NetworkConfiguration{
			AwsvpcConfiguration: &ecstypes.AwsVpcConfiguration{
				Subnets:        l.cfg.Subnets,
				SecurityGroups: l.cfg.SecurityGroups,
				AssignPublicIp: assignPublicIP,
			},
		},
		Overrides: &ecstypes.TaskOverride{
			ContainerOverrides: []ecstypes.ContainerOverride{
				{
					Name:        aws.String(l.cfg.ContainerName),
					Environment: env,
				},
			},
		},
	})
	if err != nil {
		return nil, &core.LaunchError{Backend: "ecs", Reason: "run task request failed", Err: err}
	}

	if len(out.Failures) > 0 {
		failure := out.Failures[0]
		return nil, &core.LaunchError{
			Backend: "ecs",
			Reason:  fmt.Sprintf("task placement rejected: %s (%s)", aws.ToString(failure.Reason), aws.ToString(failure.Detail)),
		}
	}
	if len(out.Tasks) == 0 || out.Tasks[0].TaskArn == nil {
		return nil, &core.LaunchError{Backend: "ecs", Reason: "no task ARN returned"}
	}

	return &core.LaunchResult{TaskID: *out.Tasks[0].TaskArn}, nil
}
