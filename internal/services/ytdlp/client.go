package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"tunegrab/internal/links"
	"tunegrab/internal/services"
)

var commandContext = exec.CommandContext

// Metadata describes a video without downloading its payload.
type Metadata struct {
	VideoID   string
	Title     string
	Uploader  string
	Duration  int
	Thumbnail string
}

// ProgressUpdate captures download progress events.
type ProgressUpdate struct {
	DownloadedBytes int64
	TotalBytes      int64
	Percent         float64
}

// Client defines the retrieval capability the pipeline consumes.
type Client interface {
	Probe(ctx context.Context, ref links.Ref, cookiesFile string) (Metadata, error)
	Fetch(ctx context.Context, ref links.Ref, destDir, cookiesFile string, progress func(ProgressUpdate)) (string, error)
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

// CLI wraps the yt-dlp command-line downloader.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "yt-dlp"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Byte counters are joined with '/' so a single scanner line carries the whole
// progress state; absent values arrive as the literal "NA".
const progressTemplate = "download:%(progress.downloaded_bytes)s/%(progress.total_bytes)s/%(progress.total_bytes_estimate)s"

// Probe runs a metadata-only query. No payload is fetched.
func (c *CLI) Probe(ctx context.Context, ref links.Ref, cookiesFile string) (Metadata, error) {
	if ref.URL == "" {
		return Metadata{}, errors.New("video url required")
	}

	args := []string{"--dump-single-json", "--no-download", "--no-warnings", "--no-playlist"}
	args = appendCookies(args, cookiesFile)
	args = append(args, ref.URL)

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Metadata{}, classify(ctx, stderr.String(), services.ErrContentUnavailable, "probe", "query metadata", err)
	}

	var payload struct {
		ID        string  `json:"id"`
		Title     string  `json:"title"`
		Uploader  string  `json:"uploader"`
		Duration  float64 `json:"duration"`
		Thumbnail string  `json:"thumbnail"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		return Metadata{}, services.Wrap(services.ErrRetrievalFailed, "probe", "decode metadata", "", err)
	}

	meta := Metadata{
		VideoID:   payload.ID,
		Title:     strings.TrimSpace(payload.Title),
		Uploader:  strings.TrimSpace(payload.Uploader),
		Duration:  int(payload.Duration),
		Thumbnail: payload.Thumbnail,
	}
	if meta.VideoID == "" {
		meta.VideoID = ref.VideoID
	}
	if meta.Title == "" {
		meta.Title = "Unknown"
	}
	if meta.Uploader == "" {
		meta.Uploader = "Unknown"
	}
	return meta, nil
}

// Fetch downloads the best audio-bearing stream into destDir and returns the
// produced file path. Partial files are left behind on failure; the workspace
// owns their removal.
func (c *CLI) Fetch(ctx context.Context, ref links.Ref, destDir, cookiesFile string, progress func(ProgressUpdate)) (string, error) {
	if ref.URL == "" {
		return "", errors.New("video url required")
	}
	if strings.TrimSpace(destDir) == "" {
		return "", errors.New("destination directory required")
	}

	outputTemplate := filepath.Join(destDir, ref.VideoID+".%(ext)s")
	args := []string{
		"-f", "bestaudio/best",
		"--no-playlist",
		"--no-warnings",
		"--newline",
		"--progress-template", progressTemplate,
		"-o", outputTemplate,
	}
	args = appendCookies(args, cookiesFile)
	args = append(args, ref.URL)

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start yt-dlp: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		update, ok := parseProgressLine(scanner.Text())
		if !ok {
			continue
		}
		if progress != nil {
			progress(update)
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return "", services.Wrap(services.ErrRetrievalFailed, "retrieve", "read yt-dlp output", "", err)
	}

	if err := cmd.Wait(); err != nil {
		return "", classify(ctx, stderr.String(), services.ErrRetrievalFailed, "retrieve", "download stream", err)
	}

	path, err := locateOutput(destDir, ref.VideoID)
	if err != nil {
		return "", err
	}
	return path, nil
}

func parseProgressLine(line string) (ProgressUpdate, bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(line), "download:")
	if !found {
		return ProgressUpdate{}, false
	}
	fields := strings.Split(rest, "/")
	if len(fields) != 3 {
		return ProgressUpdate{}, false
	}
	downloaded := parseByteField(fields[0])
	total := parseByteField(fields[1])
	if total <= 0 {
		total = parseByteField(fields[2])
	}
	update := ProgressUpdate{DownloadedBytes: downloaded, TotalBytes: total}
	if total > 0 {
		update.Percent = float64(downloaded) / float64(total) * 100
		if update.Percent > 100 {
			update.Percent = 100
		}
	} else {
		update.Percent = -1
	}
	return update, true
}

func parseByteField(field string) int64 {
	field = strings.TrimSpace(field)
	if field == "" || field == "NA" || field == "None" {
		return 0
	}
	// yt-dlp may emit float byte counts
	if value, err := strconv.ParseFloat(field, 64); err == nil && value > 0 {
		return int64(value)
	}
	return 0
}

func locateOutput(destDir, videoID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(destDir, videoID+".*"))
	if err != nil {
		return "", services.Wrap(services.ErrIO, "retrieve", "locate output", "", err)
	}
	for _, match := range matches {
		switch filepath.Ext(match) {
		case ".part", ".ytdl", ".temp":
			continue
		}
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		return match, nil
	}
	return "", services.Wrap(services.ErrRetrievalFailed, "retrieve", "locate output", "downloader produced no file", nil)
}

// appendCookies attaches a cookies file only when it exists and is non-empty.
// Contents are never inspected; an invalid file surfaces through yt-dlp's own
// error reporting.
func appendCookies(args []string, cookiesFile string) []string {
	cookiesFile = strings.TrimSpace(cookiesFile)
	if cookiesFile == "" {
		return args
	}
	info, err := os.Stat(cookiesFile)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return args
	}
	return append(args, "--cookies", cookiesFile)
}

func classify(ctx context.Context, stderr string, fallback error, stage, operation string, cause error) error {
	detail := tail(stderr, 400)
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return services.Wrap(services.ErrRetrievalTimeout, stage, operation, detail, cause)
	case errors.Is(ctx.Err(), context.Canceled):
		return services.Wrap(services.ErrCancelled, stage, operation, "", cause)
	}

	lower := strings.ToLower(stderr)
	switch {
	case containsAny(lower,
		"private video",
		"video unavailable",
		"has been removed",
		"no longer available",
		"not available in your country",
		"members-only"):
		return services.Wrap(services.ErrContentUnavailable, stage, operation, detail, cause)
	case containsAny(lower,
		"sign in to confirm",
		"not a bot",
		"captcha",
		"age-restricted",
		"http error 429"):
		return services.Wrap(services.ErrRetrievalBlocked, stage, operation, detail, cause)
	case strings.Contains(lower, "no space left"):
		return services.Wrap(services.ErrStorageFull, stage, operation, detail, cause)
	case containsAny(lower, "read-only file system", "permission denied"):
		return services.Wrap(services.ErrIO, stage, operation, detail, cause)
	}
	return services.Wrap(fallback, stage, operation, detail, cause)
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func tail(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	return text[len(text)-limit:]
}

var _ Client = (*CLI)(nil)
