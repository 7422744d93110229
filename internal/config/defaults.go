package config

const (
	defaultStagingDir              = "~/.local/share/tunegrab/staging"
	defaultLogDir                  = "~/.local/share/tunegrab/logs"
	defaultJournalPath             = "~/.local/share/tunegrab/journal.db"
	defaultLogFormat               = ""
	defaultLogLevel                = "info"
	defaultMaxUploadMiB            = 50
	defaultHandoffTimeoutSeconds   = 120
	defaultMaxDurationSeconds      = 600
	defaultRequestTimeoutSeconds   = 900
	defaultDownloadTimeoutSeconds  = 600
	defaultTranscodeTimeoutSeconds = 300
	defaultProgressIntervalSeconds = 2
	defaultRetrievalRetries        = 0
	defaultMinFreeDiskMiB          = 512
	defaultYtDlpBinary             = "yt-dlp"
	defaultFFmpegBinary            = "ffmpeg"
	defaultNtfyRequestTimeout      = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir:  defaultStagingDir,
			LogDir:      defaultLogDir,
			JournalPath: defaultJournalPath,
		},
		Telegram: Telegram{
			MaxUploadMiB:          defaultMaxUploadMiB,
			HandoffTimeoutSeconds: defaultHandoffTimeoutSeconds,
		},
		Pipeline: Pipeline{
			MaxDurationSeconds:      defaultMaxDurationSeconds,
			RequestTimeoutSeconds:   defaultRequestTimeoutSeconds,
			DownloadTimeoutSeconds:  defaultDownloadTimeoutSeconds,
			TranscodeTimeoutSeconds: defaultTranscodeTimeoutSeconds,
			ProgressIntervalSeconds: defaultProgressIntervalSeconds,
			RetrievalRetries:        defaultRetrievalRetries,
			MinFreeDiskMiB:          defaultMinFreeDiskMiB,
		},
		Tools: Tools{
			YtDlpBinary:  defaultYtDlpBinary,
			FFmpegBinary: defaultFFmpegBinary,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
