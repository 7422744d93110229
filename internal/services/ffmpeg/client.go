package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"tunegrab/internal/services"
)

var commandContext = exec.CommandContext

// Tags are embedded into the produced audio file.
type Tags struct {
	Title  string
	Artist string
}

// Client defines the transcoding capability the pipeline consumes.
type Client interface {
	Transcode(ctx context.Context, inputPath, outputDir string, tags Tags) (string, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line encoder with a fixed 128 kbps MP3 target.
type CLI struct {
	binary  string
	bitrate string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", bitrate: "128k"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Transcode extracts the audio track of inputPath into a tagged MP3 inside
// outputDir and returns the output path. There is no partial-output recovery:
// any failure discards the attempt wholesale.
func (c *CLI) Transcode(ctx context.Context, inputPath, outputDir string, tags Tags) (string, error) {
	if inputPath == "" {
		return "", errors.New("input path required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return "", errors.New("output directory required")
	}

	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	outputPath := filepath.Join(outputDir, stem+".mp3")

	args := []string{
		"-y", "-nostdin",
		"-i", inputPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-b:a", c.bitrate,
		"-id3v2_version", "3",
		"-metadata", "title=" + tags.Title,
		"-metadata", "artist=" + tags.Artist,
		outputPath,
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		detail := tail(output.String(), 400)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", services.Wrap(services.ErrTranscodeTimeout, "transcode", "run ffmpeg", detail, err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", services.Wrap(services.ErrCancelled, "transcode", "run ffmpeg", "", err)
		}
		return "", services.Wrap(services.ErrTranscodeFailed, "transcode", "run ffmpeg", detail, err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return "", services.Wrap(services.ErrTranscodeFailed, "transcode", "verify output", "encoder produced no file", err)
	}
	if info.Size() == 0 {
		return "", services.Wrap(services.ErrTranscodeFailed, "transcode", "verify output", fmt.Sprintf("empty output file %s", outputPath), nil)
	}

	return outputPath, nil
}

func tail(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	return text[len(text)-limit:]
}

var _ Client = (*CLI)(nil)
