package transcode

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/vidflow/internal/storage"
)

// Transcoder runs one full transcoding job: download, encode per profile,
// upload, clean up. Encoding is sequential (ffmpeg saturates the CPU on its
// own); uploads of finished variants run concurrently with later encodes.
type Transcoder struct {
	store        storage.ObjectStore
	sourceBucket string
	destBucket   string
	ffmpegPath   string
	workDir      string
	profiles     []Profile
	logger       *slog.Logger
}

// NewTranscoder creates a transcoder reading from sourceBucket and writing
// variants to destBucket.
func NewTranscoder(store storage.ObjectStore, sourceBucket, destBucket, ffmpegPath, workDir string, profiles []Profile, logger *slog.Logger) *Transcoder {
	return &Transcoder{
		store:        store,
		sourceBucket: sourceBucket,
		destBucket:   destBucket,
		ffmpegPath:   ffmpegPath,
		workDir:      workDir,
		profiles:     profiles,
		logger:       logger,
	}
}

// Run processes the object named by sourceKey. Each variant ends up at
// <source-stem>/<profile-name>.mp4 in the destination bucket. Temporary
// files are removed whether the job succeeds or fails.
func (t *Transcoder) Run(ctx context.Context, sourceKey string) error {
	t.logger.Info("starting transcoding job",
		"source", fmt.Sprintf("s3://%s/%s", t.sourceBucket, sourceKey),
		"destination", fmt.Sprintf("s3://%s", t.destBucket),
		"profiles", len(t.profiles),
	)

	inputPath := filepath.Join(t.workDir, "input.mp4")
	defer func() { _ = os.Remove(inputPath) }()

	if err := t.download(ctx, sourceKey, inputPath); err != nil {
		return err
	}

	stem := DestinationStem(sourceKey)

	g, gctx := errgroup.WithContext(ctx)
	for _, profile := range t.profiles {
		outputPath := filepath.Join(t.workDir, fmt.Sprintf("output_%s.mp4", profile.Name))

		t.logger.Info("transcoding", "profile", profile.Name)
		if err := t.encode(gctx, inputPath, outputPath, profile); err != nil {
			_ = os.Remove(outputPath)
			// Drain uploads already in flight before reporting.
			_ = g.Wait()
			return err
		}

		destKey := path.Join(stem, profile.Name+".mp4")
		g.Go(func() error {
			defer func() { _ = os.Remove(outputPath) }()
			return t.upload(gctx, outputPath, destKey)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	t.logger.Info("transcoding job completed")
	return nil
}

func (t *Transcoder) download(ctx context.Context, sourceKey, dest string) error {
	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer func() { _ = file.Close() }()

	n, err := t.store.Get(ctx, t.sourceBucket, sourceKey, file)
	if err != nil {
		return err
	}
	t.logger.Info("downloaded source video", "bytes", n)
	return nil
}

func (t *Transcoder) upload(ctx context.Context, outputPath, destKey string) error {
	file, err := os.Open(outputPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", outputPath, err)
	}
	defer func() { _ = file.Close() }()

	if err := t.store.Put(ctx, t.destBucket, destKey, file, "video/mp4"); err != nil {
		return err
	}
	t.logger.Info("uploaded variant", "key", destKey)
	return nil
}

// encode shells out to ffmpeg for one profile.
func (t *Transcoder) encode(ctx context.Context, input, output string, profile Profile) error {
	cmd := exec.CommandContext(ctx, t.ffmpegPath, ffmpegArgs(input, output, profile)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed for profile %s: %w: %s", profile.Name, err, lastLine(stderr.String()))
	}
	return nil
}

// ffmpegArgs builds the encoder invocation for one profile.
func ffmpegArgs(input, output string, profile Profile) []string {
	return []string{
		"-i", input,
		"-vf", profile.Scale,
		"-c:v", "libx264",
		"-b:v", profile.Bitrate,
		"-preset", "medium",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		"-y", output,
	}
}

// DestinationStem derives the destination prefix for a source key: the file
// name without its extension, so "clips/movie.mp4" maps variants under
// "movie/".
func DestinationStem(sourceKey string) string {
	base := filepath.Base(sourceKey)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// lastLine trims ffmpeg's stderr down to its final non-empty line, which is
// where ffmpeg puts the actual error.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
