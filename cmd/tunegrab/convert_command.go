package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"tunegrab/internal/journal"
	"tunegrab/internal/logging"
	"tunegrab/internal/pipeline"
	"tunegrab/internal/services/ffmpeg"
	"tunegrab/internal/services/ytdlp"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "convert <url>",
		Short: "Convert a single YouTube video to MP3 locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := journal.Open(signalCtx, cfg.Paths.JournalPath)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			runner := pipeline.NewRunner(pipeline.RunnerOptions{
				Config:     cfg,
				Retriever:  ytdlp.NewCLI(ytdlp.WithBinary(cfg.Tools.YtDlpBinary)),
				Transcoder: ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Tools.FFmpegBinary)),
				Journal:    store,
				Logger:     logger,
			})

			out := cmd.OutOrStdout()
			notifier := &consoleNotifier{out: out}
			var saved string
			deliver := func(ctx context.Context, artifact pipeline.Artifact) error {
				dest := filepath.Join(outputDir, filepath.Base(artifact.Path))
				if err := copyFile(artifact.Path, dest); err != nil {
					return err
				}
				saved = dest
				return nil
			}

			req := pipeline.Request{Text: args[0]}
			if err := runner.Run(signalCtx, req, notifier, deliver); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %s\n", saved)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory for the converted MP3")
	return cmd
}

// consoleNotifier prints status transitions one per line.
type consoleNotifier struct {
	out io.Writer
}

func (n *consoleNotifier) Update(p pipeline.Progress) {
	if p.Stage == pipeline.StageRetrieving && p.Percent > 0 {
		fmt.Fprintf(n.out, "%s %.0f%%\n", p.Stage, p.Percent)
		return
	}
	if p.Message != "" {
		fmt.Fprintf(n.out, "%s: %s\n", p.Stage, p.Message)
		return
	}
	fmt.Fprintln(n.out, p.Stage)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
