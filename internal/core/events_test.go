package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobsFromStorageEvent(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantJobs int
		wantErr  bool
	}{
		{
			name:     "single record",
			body:     `{"records":[{"s3":{"bucket":{"name":"b"},"object":{"key":"movie.mp4"}}}]}`,
			wantJobs: 1,
		},
		{
			name: "multiple records yield independent jobs",
			body: `{"records":[` +
				`{"s3":{"bucket":{"name":"b1"},"object":{"key":"one.mp4"}}},` +
				`{"s3":{"bucket":{"name":"b2"},"object":{"key":"two.mp4"}}}]}`,
			wantJobs: 2,
		},
		{
			name:     "zero records is valid and yields no jobs",
			body:     `{"records":[]}`,
			wantJobs: 0,
		},
		{
			name:     "unknown fields are ignored",
			body:     `{"eventSource":"aws:s3","records":[{"eventName":"ObjectCreated:Put","s3":{"bucket":{"name":"b","arn":"arn:aws:s3:::b"},"object":{"key":"movie.mp4","size":1024}}}]}`,
			wantJobs: 1,
		},
		{
			name:    "malformed JSON",
			body:    `{not json`,
			wantErr: true,
		},
		{
			name:    "missing bucket name",
			body:    `{"records":[{"s3":{"bucket":{},"object":{"key":"movie.mp4"}}}]}`,
			wantErr: true,
		},
		{
			name:    "missing object key",
			body:    `{"records":[{"s3":{"bucket":{"name":"b"},"object":{}}}]}`,
			wantErr: true,
		},
		{
			name:    "second record invalid rejects the whole payload",
			body:    `{"records":[{"s3":{"bucket":{"name":"b"},"object":{"key":"ok.mp4"}}},{"s3":{"bucket":{"name":""},"object":{"key":"bad.mp4"}}}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := JobsFromStorageEvent([]byte(tt.body), "receipt-1")

			if tt.wantErr {
				require.Error(t, err)
				var decodeErr *DecodeError
				assert.True(t, errors.As(err, &decodeErr), "expected a DecodeError, got %T", err)
				assert.Nil(t, jobs)
				return
			}

			require.NoError(t, err)
			require.Len(t, jobs, tt.wantJobs)
			for _, job := range jobs {
				assert.Equal(t, "receipt-1", job.ReceiptHandle)
				assert.Equal(t, JobPending, job.Status)
				assert.NotEmpty(t, job.ID)
			}
		})
	}
}

func TestJobsFromStorageEventPreservesBucketAndKey(t *testing.T) {
	body := `{"records":[{"s3":{"bucket":{"name":"temp-video-storage"},"object":{"key":"upload-abc%20def.mp4"}}}]}`

	jobs, err := JobsFromStorageEvent([]byte(body), "r")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	assert.Equal(t, "temp-video-storage", jobs[0].Bucket)
	// Keys pass through verbatim, percent-encoding included.
	assert.Equal(t, "upload-abc%20def.mp4", jobs[0].Key)
}

func TestJobsFromStorageEventDistinctIDs(t *testing.T) {
	body := `{"records":[` +
		`{"s3":{"bucket":{"name":"b"},"object":{"key":"same.mp4"}}},` +
		`{"s3":{"bucket":{"name":"b"},"object":{"key":"same.mp4"}}}]}`

	jobs, err := JobsFromStorageEvent([]byte(body), "r")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.NotEqual(t, jobs[0].ID, jobs[1].ID)
}
