package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tunegrab/internal/config"
	"tunegrab/internal/journal"
	"tunegrab/internal/links"
	"tunegrab/internal/logging"
	"tunegrab/internal/notifications"
	"tunegrab/internal/preflight"
	"tunegrab/internal/services"
	"tunegrab/internal/services/ffmpeg"
	"tunegrab/internal/services/ytdlp"
	"tunegrab/internal/staging"
)

// Request is one inbound conversion attempt. It is owned by exactly one Run
// invocation and never shared across concurrent requests.
type Request struct {
	ID     string
	ChatID int64
	Text   string
}

// DeliverFunc hands the finished artifact to the transport layer. It runs
// under a bounded handoff context so cleanup never waits on the transport.
type DeliverFunc func(context.Context, Artifact) error

// RunnerOptions wires a Runner's collaborators.
type RunnerOptions struct {
	Config     *config.Config
	Retriever  ytdlp.Client
	Transcoder ffmpeg.Client
	Journal    *journal.Store
	Alerts     notifications.Service
	Logger     *slog.Logger
}

// Runner sequences the download-convert-deliver pipeline for one request at a
// time. Concurrent requests each get their own Run call and workspace; the
// Runner itself holds no per-request state.
type Runner struct {
	cfg        *config.Config
	retriever  ytdlp.Client
	transcoder ffmpeg.Client
	journal    *journal.Store
	alerts     notifications.Service
	logger     *slog.Logger
}

// NewRunner constructs a Runner. Journal and Alerts may be nil.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:        opts.Config,
		retriever:  opts.Retriever,
		transcoder: opts.Transcoder,
		journal:    opts.Journal,
		alerts:     opts.Alerts,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run executes the pipeline for one request. links.ErrNotAURL is returned
// before any workspace is allocated or progress emitted: the message is not a
// conversion request and the pipeline never starts. Every other error has
// already been reported through the notifier as a Failed update when Run
// returns.
func (r *Runner) Run(ctx context.Context, req Request, notify Notifier, deliver DeliverFunc) error {
	ref, err := links.Classify(req.Text)
	if errors.Is(err, links.ErrNotAURL) {
		return err
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	logger := r.logger.With(
		logging.String(logging.FieldRequestID, req.ID),
		logging.Int64(logging.FieldChatID, req.ChatID),
	)
	track := newTracker(notify, r.cfg.ProgressInterval())
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.RequestTimeout())
	defer cancel()

	track.emit(Progress{Stage: StageClassifying, Message: "Checking link"})
	if err != nil {
		return r.fail(track, logger, req, "", started, err)
	}
	logger = logger.With(logging.String(logging.FieldVideoID, ref.VideoID))
	logger.Info("request accepted", logging.String("url", ref.URL))

	ws, err := staging.Acquire(r.cfg.Paths.StagingDir, logger)
	if err != nil {
		return r.fail(track, logger, req, ref.VideoID, started, services.Wrap(services.ErrIO, "workspace", "acquire", "", err))
	}
	defer ws.Release()

	track.emit(Progress{Stage: StageProbing, Message: "Checking video"})
	meta, err := r.retriever.Probe(ctx, ref, r.cfg.Paths.CookiesFile)
	if err != nil {
		return r.fail(track, logger, req, ref.VideoID, started, err)
	}
	logger.Info("metadata probed",
		logging.String("title", meta.Title),
		logging.String("uploader", meta.Uploader),
		logging.Int("duration_seconds", meta.Duration),
	)

	track.emit(Progress{Stage: StageCheckingPolicy, Message: "Checking limits"})
	if err := r.checkPolicy(meta, ws); err != nil {
		return r.fail(track, logger, req, ref.VideoID, started, err)
	}

	track.emit(Progress{Stage: StageRetrieving, Percent: 0, Message: "Downloading"})
	rawPath, err := r.fetch(ctx, ref, ws, track, logger)
	if err != nil {
		return r.fail(track, logger, req, ref.VideoID, started, err)
	}

	track.emit(Progress{Stage: StageTranscoding, Message: "Converting to MP3"})
	transcodeCtx, cancelTranscode := context.WithTimeout(ctx, r.cfg.TranscodeTimeout())
	mp3Path, err := r.transcoder.Transcode(transcodeCtx, rawPath, ws.Root, ffmpeg.Tags{Title: meta.Title, Artist: meta.Uploader})
	cancelTranscode()
	if err != nil {
		return r.fail(track, logger, req, ref.VideoID, started, err)
	}

	track.emit(Progress{Stage: StageAssembling, Message: "Preparing file"})
	artifact, err := Assemble(mp3Path, meta, r.cfg.MaxUploadBytes())
	if err != nil {
		return r.fail(track, logger, req, ref.VideoID, started, err)
	}

	track.emit(Progress{Stage: StageDelivering, Message: "Uploading MP3"})
	if deliver != nil {
		handoffCtx, cancelHandoff := context.WithTimeout(ctx, r.cfg.HandoffTimeout())
		err = deliver(handoffCtx, artifact)
		cancelHandoff()
		if err != nil {
			return r.fail(track, logger, req, ref.VideoID, started, services.Wrap(services.ErrIO, "deliver", "hand off artifact", "", err))
		}
	}

	r.record(req, journal.Record{
		ChatID:    req.ChatID,
		VideoID:   ref.VideoID,
		Title:     meta.Title,
		Uploader:  meta.Uploader,
		Duration:  meta.Duration,
		SizeBytes: artifact.SizeBytes,
		Status:    journal.StatusCompleted,
		CreatedAt: started.UTC(),
	}, logger)
	if r.alerts != nil {
		r.alert(func(ctx context.Context) error {
			return r.alerts.ConversionCompleted(ctx, meta.Title, artifact.SizeBytes)
		}, logger)
	}

	track.emit(Progress{Stage: StageDone, Message: "Done! MP3 file sent."})
	logger.Info("request completed",
		logging.Duration("elapsed", time.Since(started)),
		logging.Int64("size_bytes", artifact.SizeBytes),
		logging.String(logging.FieldEventType, "request_complete"),
	)
	return nil
}

func (r *Runner) checkPolicy(meta ytdlp.Metadata, ws *staging.Workspace) error {
	if limit := r.cfg.Pipeline.MaxDurationSeconds; limit > 0 && meta.Duration > limit {
		return &services.DurationExceededError{Limit: limit, Actual: meta.Duration}
	}
	if floor := r.cfg.MinFreeDiskBytes(); floor > 0 {
		free, err := preflight.FreeBytes(ws.Root)
		if err == nil && free < floor {
			return services.Wrap(services.ErrStorageFull, "policy", "check disk space", "", nil)
		}
	}
	return nil
}

// fetch downloads the raw stream, forwarding throttled progress. Transient
// retrieval failures are retried up to the configured count; all other kinds
// surface immediately.
func (r *Runner) fetch(ctx context.Context, ref links.Ref, ws *staging.Workspace, track *tracker, logger *slog.Logger) (string, error) {
	sampler := logging.NewProgressSampler(5)
	onProgress := func(update ytdlp.ProgressUpdate) {
		track.emit(Progress{Stage: StageRetrieving, Percent: update.Percent, Message: "Downloading"})
		if sampler.ShouldLog(update.Percent, string(StageRetrieving)) {
			logger.Debug("download progress",
				logging.Float64("percent", update.Percent),
				logging.Int64("downloaded_bytes", update.DownloadedBytes),
				logging.Int64("total_bytes", update.TotalBytes),
			)
		}
	}

	attempts := 1 + r.cfg.Pipeline.RetrievalRetries
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		fetchCtx, cancel := context.WithTimeout(ctx, r.cfg.DownloadTimeout())
		path, err := r.retriever.Fetch(fetchCtx, ref, ws.Root, r.cfg.Paths.CookiesFile, onProgress)
		cancel()
		if err == nil {
			return path, nil
		}
		lastErr = err
		if !errors.Is(err, services.ErrRetrievalFailed) || attempt == attempts {
			break
		}
		sampler.Reset()
		logger.Warn("retrying download",
			logging.Int("attempt", attempt),
			logging.Error(err),
		)
	}
	return "", lastErr
}

func (r *Runner) fail(track *tracker, logger *slog.Logger, req Request, videoID string, started time.Time, err error) error {
	if ctxErr := contextFailure(err); ctxErr != nil {
		err = ctxErr
	}

	logger.Error("request failed",
		logging.Error(err),
		logging.Duration("elapsed", time.Since(started)),
		logging.String(logging.FieldEventType, "request_failed"),
	)

	r.record(req, journal.Record{
		ChatID:       req.ChatID,
		VideoID:      videoID,
		Status:       journal.StatusFailed,
		ErrorMessage: err.Error(),
		CreatedAt:    started.UTC(),
	}, logger)
	if r.alerts != nil {
		r.alert(func(ctx context.Context) error {
			return r.alerts.ConversionFailed(ctx, videoID, err)
		}, logger)
	}

	track.emit(Progress{Stage: StageFailed, Message: UserMessage(err)})
	return err
}

// contextFailure re-tags raw context errors that escaped the stage clients.
func contextFailure(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrCancelled):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return services.Wrap(services.ErrCancelled, "pipeline", "run", "", err)
	}
	return nil
}

func (r *Runner) record(req Request, rec journal.Record, logger *slog.Logger) {
	if r.journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rec.FinishedAt = time.Now().UTC()
	if _, err := r.journal.Append(ctx, rec); err != nil {
		logger.Warn("failed to record journal entry", logging.Error(err))
	}
}

// alert sends an operator notification on a fresh context so a cancelled
// request can still report its outcome.
func (r *Runner) alert(send func(context.Context) error, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := send(ctx); err != nil {
		logger.Warn("failed to send operator alert", logging.Error(err))
	}
}
