package transcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFfmpegArgs(t *testing.T) {
	profile := Profile{Name: "720p", Scale: "scale=1280:720", Bitrate: "2500k"}

	args := ffmpegArgs("/tmp/input.mp4", "/tmp/output_720p.mp4", profile)

	assert.Equal(t, []string{
		"-i", "/tmp/input.mp4",
		"-vf", "scale=1280:720",
		"-c:v", "libx264",
		"-b:v", "2500k",
		"-preset", "medium",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		"-y", "/tmp/output_720p.mp4",
	}, args)
}

func TestDestinationStem(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"upload-abc.mp4", "upload-abc"},
		{"clips/movie.mp4", "movie"},
		{"noextension", "noextension"},
		{"archive.tar.gz", "archive.tar"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DestinationStem(tt.key), "key %q", tt.key)
	}
}

func TestLastLine(t *testing.T) {
	assert.Equal(t, "Conversion failed!", lastLine("frame= 100\nframe= 200\nConversion failed!\n"))
	assert.Equal(t, "only line", lastLine("only line"))
	assert.Equal(t, "", lastLine(""))
}
