package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// load resets the global viper state so each test sees only its own
// environment.
func load(t *testing.T) *Config {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	return cfg
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := load(t)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(2048), cfg.Server.MaxUploadMB)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, int32(5), cfg.Queue.MaxMessages)
	assert.Equal(t, 10, cfg.Queue.WaitSeconds)
	assert.Equal(t, BackendECS, cfg.Launcher.Backend)
	assert.Equal(t, "video-transcoder", cfg.Launcher.ContainerName)
	assert.True(t, cfg.Launcher.AssignPublicIP)
	assert.Equal(t, "ffmpeg", cfg.Worker.FFmpegPath)
	assert.Equal(t, "/tmp", cfg.Worker.WorkDir)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("QUEUE_URL", "https://sqs.example/q")
	t.Setenv("QUEUE_MAX_MESSAGES", "3")
	t.Setenv("LAUNCHER_BACKEND", "Docker")
	t.Setenv("WORKER_IMAGE", "vidflow/worker:latest")
	t.Setenv("ECS_SUBNETS", "subnet-a, subnet-b,,subnet-c")

	cfg := load(t)

	assert.Equal(t, "https://sqs.example/q", cfg.Queue.URL)
	assert.Equal(t, int32(3), cfg.Queue.MaxMessages)
	assert.Equal(t, BackendDocker, cfg.Launcher.Backend, "backend names are case-insensitive")
	assert.Equal(t, "vidflow/worker:latest", cfg.Launcher.WorkerImage)
	assert.Equal(t, []string{"subnet-a", "subnet-b", "subnet-c"}, cfg.Launcher.Subnets)
}

func TestValidateDispatcher(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing queue URL",
			env:     map[string]string{},
			wantErr: "QUEUE_URL",
		},
		{
			name: "max messages out of range",
			env: map[string]string{
				"QUEUE_URL":          "q",
				"QUEUE_MAX_MESSAGES": "11",
			},
			wantErr: "QUEUE_MAX_MESSAGES",
		},
		{
			name: "ecs backend needs a cluster",
			env: map[string]string{
				"QUEUE_URL":           "q",
				"ECS_TASK_DEFINITION": "td",
				"ECS_SUBNETS":         "subnet-a",
			},
			wantErr: "ECS_CLUSTER",
		},
		{
			name: "ecs backend needs a task definition",
			env: map[string]string{
				"QUEUE_URL":   "q",
				"ECS_CLUSTER": "c",
				"ECS_SUBNETS": "subnet-a",
			},
			wantErr: "ECS_TASK_DEFINITION",
		},
		{
			name: "ecs backend needs subnets",
			env: map[string]string{
				"QUEUE_URL":           "q",
				"ECS_CLUSTER":         "c",
				"ECS_TASK_DEFINITION": "td",
			},
			wantErr: "ECS_SUBNETS",
		},
		{
			name: "docker backend needs a worker image",
			env: map[string]string{
				"QUEUE_URL":        "q",
				"LAUNCHER_BACKEND": "docker",
			},
			wantErr: "WORKER_IMAGE",
		},
		{
			name: "unknown backend",
			env: map[string]string{
				"QUEUE_URL":        "q",
				"LAUNCHER_BACKEND": "lambda",
			},
			wantErr: "unsupported launcher backend",
		},
		{
			name: "valid ecs settings",
			env: map[string]string{
				"QUEUE_URL":           "q",
				"ECS_CLUSTER":         "c",
				"ECS_TASK_DEFINITION": "td",
				"ECS_SUBNETS":         "subnet-a",
			},
		},
		{
			name: "valid docker settings",
			env: map[string]string{
				"QUEUE_URL":        "q",
				"LAUNCHER_BACKEND": "docker",
				"WORKER_IMAGE":     "vidflow/worker:latest",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := load(t)

			err := cfg.ValidateDispatcher()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateUploader(t *testing.T) {
	cfg := load(t)
	require.Error(t, cfg.ValidateUploader())

	t.Setenv("UPLOAD_BUCKET", "temp-video-storage")
	cfg = load(t)
	assert.NoError(t, cfg.ValidateUploader())

	t.Setenv("MAX_UPLOAD_MB", "0")
	cfg = load(t)
	assert.Error(t, cfg.ValidateUploader())
}

func TestValidateWorker(t *testing.T) {
	t.Setenv("SOURCE_KEY", "upload-abc.mp4")
	t.Setenv("UPLOAD_BUCKET", "temp-video-storage")
	t.Setenv("OUTPUT_BUCKET", "processed-video-storage")
	cfg := load(t)
	require.NoError(t, cfg.ValidateWorker())
}

func TestValidateWorkerMissingSourceKey(t *testing.T) {
	t.Setenv("UPLOAD_BUCKET", "b")
	t.Setenv("OUTPUT_BUCKET", "b2")
	cfg := load(t)

	err := cfg.ValidateWorker()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOURCE_KEY")
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList("  "))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b "))
}
