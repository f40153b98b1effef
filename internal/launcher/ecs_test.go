package launcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/vidflow/internal/core"
)

type fakeECS struct {
	in  *ecs.RunTaskInput
	out *ecs.RunTaskOutput
	err error
}

func (f *fakeECS) RunTask(_ context.Context, in *ecs.RunTaskInput, _ ...func(*ecs.Options)) (*ecs.RunTaskOutput, error) {
	f.in = in
	return f.out, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testECSConfig() ECSConfig {
	return ECSConfig{
		Cluster:        "transcode-cluster",
		TaskDefinition: "video-transcoder:1",
		ContainerName:  "video-transcoder",
		Subnets:        []string{"subnet-a", "subnet-b"},
		SecurityGroups: []string{"sg-1"},
		AssignPublicIP: true,
	}
}

func launchRequest() *core.LaunchRequest {
	return &core.LaunchRequest{
		Job: &core.Job{ID: "j1", Bucket: "b", Key: "movie.mp4"},
		Env: []core.EnvVar{{Name: core.SourceKeyVar, Value: "movie.mp4"}},
	}
}

func TestECSSubmitBuildsRunTaskInput(t *testing.T) {
	fake := &fakeECS{
		out: &ecs.RunTaskOutput{
			Tasks: []ecstypes.Task{{TaskArn: aws.String("arn:aws:ecs:task/abc")}},
		},
	}
	l := NewECSLauncher(fake, testECSConfig(), discardLogger())

	result, err := l.Submit(context.Background(), launchRequest())
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:ecs:task/abc", result.TaskID)

	in := fake.in
	require.NotNil(t, in)
	assert.Equal(t, "transcode-cluster", aws.ToString(in.Cluster))
	assert.Equal(t, "video-transcoder:1", aws.ToString(in.TaskDefinition))
	assert.Equal(t, ecstypes.LaunchTypeFargate, in.LaunchType)
	assert.Equal(t, int32(1), aws.ToInt32(in.Count))

	require.NotNil(t, in.NetworkConfiguration)
	vpc := in.NetworkConfiguration.AwsvpcConfiguration
	require.NotNil(t, vpc)
	assert.Equal(t, []string{"subnet-a", "subnet-b"}, vpc.Subnets)
	assert.Equal(t, []string{"sg-1"}, vpc.SecurityGroups)
	assert.Equal(t, ecstypes.AssignPublicIpEnabled, vpc.AssignPublicIp)

	require.NotNil(t, in.Overrides)
	require.Len(t, in.Overrides.ContainerOverrides, 1)
	override := in.Overrides.ContainerOverrides[0]
	assert.Equal(t, "video-transcoder", aws.ToString(override.Name))
	require.Len(t, override.Environment, 1)
	assert.Equal(t, core.SourceKeyVar, aws.ToString(override.Environment[0].Name))
	assert.Equal(t, "movie.mp4", aws.ToString(override.Environment[0].Value))
}

func TestECSSubmitDisablesPublicIPWhenConfigured(t *testing.T) {
	cfg := testECSConfig()
	cfg.AssignPublicIP = false

	fake := &fakeECS{
		out: &ecs.RunTaskOutput{Tasks: []ecstypes.Task{{TaskArn: aws.String("arn")}}},
	}
	l := NewECSLauncher(fake, cfg, discardLogger())

	_, err := l.Submit(context.Background(), launchRequest())
	require.NoError(t, err)
	assert.Equal(t, ecstypes.AssignPublicIpDisabled, fake.in.NetworkConfiguration.AwsvpcConfiguration.AssignPublicIp)
}

func TestECSSubmitRequestError(t *testing.T) {
	fake := &fakeECS{err: errors.New("access denied")}
	l := NewECSLauncher(fake, testECSConfig(), discardLogger())

	_, err := l.Submit(context.Background(), launchRequest())
	require.Error(t, err)

	var launchErr *core.LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.Equal(t, "ecs", launchErr.Backend)
}

func TestECSSubmitPlacementFailure(t *testing.T) {
	fake := &fakeECS{
		out: &ecs.RunTaskOutput{
			Failures: []ecstypes.Failure{{
				Reason: aws.String("RESOURCE:CPU"),
				Detail: aws.String("no capacity"),
			}},
		},
	}
	l := NewECSLauncher(fake, testECSConfig(), discardLogger())

	_, err := l.Submit(context.Background(), launchRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESOURCE:CPU")
}

func TestECSSubmitNoTaskARN(t *testing.T) {
	fake := &fakeECS{out: &ecs.RunTaskOutput{}}
	l := NewECSLauncher(fake, testECSConfig(), discardLogger())

	_, err := l.Submit(context.Background(), launchRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no task ARN")
}
