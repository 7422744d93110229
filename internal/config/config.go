package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file location configuration.
type Paths struct {
	StagingDir  string `toml:"staging_dir"`
	LogDir      string `toml:"log_dir"`
	JournalPath string `toml:"journal_path"`
	CookiesFile string `toml:"cookies_file"`
}

// Telegram contains bot transport configuration.
type Telegram struct {
	Token                 string `toml:"token"`
	MaxUploadMiB          int    `toml:"max_upload_mib"`
	HandoffTimeoutSeconds int    `toml:"handoff_timeout_seconds"`
}

// Pipeline contains per-request limits and timing knobs.
type Pipeline struct {
	MaxDurationSeconds      int `toml:"max_duration_seconds"`
	RequestTimeoutSeconds   int `toml:"request_timeout_seconds"`
	DownloadTimeoutSeconds  int `toml:"download_timeout_seconds"`
	TranscodeTimeoutSeconds int `toml:"transcode_timeout_seconds"`
	ProgressIntervalSeconds int `toml:"progress_interval_seconds"`
	RetrievalRetries        int `toml:"retrieval_retries"`
	MinFreeDiskMiB          int `toml:"min_free_disk_mib"`
}

// Tools contains external binary overrides.
type Tools struct {
	YtDlpBinary  string `toml:"ytdlp_binary"`
	FFmpegBinary string `toml:"ffmpeg_binary"`
}

// Notifications contains configuration for operator ntfy alerts.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for tunegrab.
//
// Configuration sections by subsystem:
//   - Paths: staging/log directories, journal database, optional cookies file
//   - Telegram: bot token and upload limits
//   - Pipeline: duration policy, timeouts, progress throttle, retry policy
//   - Tools: yt-dlp and ffmpeg binary overrides
//   - Notifications: ntfy operator alert settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Telegram      Telegram      `toml:"telegram"`
	Pipeline      Pipeline      `toml:"pipeline"`
	Tools         Tools         `toml:"tools"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tunegrab/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. A missing file yields defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(defaultPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return defaultPath, true, nil
}

// EnsureDirectories creates the directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if path := strings.TrimSpace(c.Paths.JournalPath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create journal directory: %w", err)
		}
	}
	return nil
}

// MaxUploadBytes returns the transport payload ceiling in bytes. Zero disables
// the check.
func (c *Config) MaxUploadBytes() int64 {
	if c.Telegram.MaxUploadMiB <= 0 {
		return 0
	}
	return int64(c.Telegram.MaxUploadMiB) << 20
}

// RequestTimeout returns the per-request wall clock budget.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Pipeline.RequestTimeoutSeconds) * time.Second
}

// DownloadTimeout returns the retrieval execution window.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.Pipeline.DownloadTimeoutSeconds) * time.Second
}

// TranscodeTimeout returns the transcode execution window.
func (c *Config) TranscodeTimeout() time.Duration {
	return time.Duration(c.Pipeline.TranscodeTimeoutSeconds) * time.Second
}

// ProgressInterval returns the minimum spacing between forwarded progress updates.
func (c *Config) ProgressInterval() time.Duration {
	return time.Duration(c.Pipeline.ProgressIntervalSeconds) * time.Second
}

// HandoffTimeout bounds the final transport upload.
func (c *Config) HandoffTimeout() time.Duration {
	return time.Duration(c.Telegram.HandoffTimeoutSeconds) * time.Second
}

// MinFreeDiskBytes returns the staging free-space floor in bytes.
func (c *Config) MinFreeDiskBytes() uint64 {
	if c.Pipeline.MinFreeDiskMiB <= 0 {
		return 0
	}
	return uint64(c.Pipeline.MinFreeDiskMiB) << 20
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath resolves ~ prefixes and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
