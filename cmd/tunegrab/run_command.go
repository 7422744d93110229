package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"tunegrab/internal/bot"
	"tunegrab/internal/journal"
	"tunegrab/internal/logging"
	"tunegrab/internal/notifications"
	"tunegrab/internal/pipeline"
	"tunegrab/internal/preflight"
	"tunegrab/internal/services/ffmpeg"
	"tunegrab/internal/services/ytdlp"
	"tunegrab/internal/staging"
)

// staleWorkspaceAge is how old an orphaned workspace must be before the
// startup sweep removes it.
const staleWorkspaceAge = 24 * time.Hour

func newRunCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireTelegramToken(); err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			lockPath := filepath.Join(cfg.Paths.LogDir, "tunegrab.lock")
			lock := flock.New(lockPath)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return errors.New("another tunegrab instance is already running")
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					logger.Warn("failed to release instance lock", logging.Error(err))
				}
			}()

			if !skipPreflight {
				results := preflight.Run(signalCtx, cfg)
				for _, result := range results {
					if !result.Passed {
						fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", result.Name, result.Detail)
					}
				}
				if !preflight.Ok(results) {
					return errors.New("preflight checks failed")
				}
			}

			sweep := staging.CleanStale(signalCtx, cfg.Paths.StagingDir, staleWorkspaceAge, logger)
			if len(sweep.Removed) > 0 {
				logger.Info("removed stale workspaces", logging.Int("count", len(sweep.Removed)))
			}

			store, err := journal.Open(signalCtx, cfg.Paths.JournalPath)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			alerts := notifications.NewService(cfg)
			runner := pipeline.NewRunner(pipeline.RunnerOptions{
				Config:     cfg,
				Retriever:  ytdlp.NewCLI(ytdlp.WithBinary(cfg.Tools.YtDlpBinary)),
				Transcoder: ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Tools.FFmpegBinary)),
				Journal:    store,
				Alerts:     alerts,
				Logger:     logger,
			})

			b, err := bot.New(cfg, runner, logger)
			if err != nil {
				return err
			}
			if err := alerts.BotStarted(signalCtx, b.Username()); err != nil {
				logger.Warn("failed to send startup notification", logging.Error(err))
			}

			logger.Info("tunegrab started",
				logging.String("username", b.Username()),
				logging.String("journal", store.Path()),
			)
			return b.Run(signalCtx)
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip startup dependency checks")
	return cmd
}
