package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. The Telegram token is not
// required here; commands that talk to Telegram check it themselves so offline
// commands (convert, history, config) keep working without one.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateTelegram(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StagingDir == "" {
		return errors.New("paths.staging_dir must be set")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.MaxDurationSeconds < 0 {
		return errors.New("pipeline.max_duration_seconds must be zero (disabled) or positive")
	}
	if c.Pipeline.RetrievalRetries < 0 {
		return errors.New("pipeline.retrieval_retries must not be negative")
	}
	return ensurePositiveMap(map[string]int{
		"pipeline.request_timeout_seconds":   c.Pipeline.RequestTimeoutSeconds,
		"pipeline.download_timeout_seconds":  c.Pipeline.DownloadTimeoutSeconds,
		"pipeline.transcode_timeout_seconds": c.Pipeline.TranscodeTimeoutSeconds,
		"pipeline.progress_interval_seconds": c.Pipeline.ProgressIntervalSeconds,
	})
}

func (c *Config) validateTelegram() error {
	if c.Telegram.MaxUploadMiB < 0 {
		return errors.New("telegram.max_upload_mib must be zero (disabled) or positive")
	}
	if c.Telegram.HandoffTimeoutSeconds <= 0 {
		return errors.New("telegram.handoff_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}

// RequireTelegramToken reports a helpful error when the bot token is missing.
func (c *Config) RequireTelegramToken() error {
	if c.Telegram.Token != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/tunegrab/config.toml"
	}
	return fmt.Errorf("telegram.token is required. Set TUNEGRAB_BOT_TOKEN env var or edit %s (create with 'tunegrab config init')", defaultPath)
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
