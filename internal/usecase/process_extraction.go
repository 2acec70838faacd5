package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
	"github.com/Prateek-coditas/color-extractor/internal/domain/port"
	"github.com/Prateek-coditas/color-extractor/internal/extraction"
	"github.com/Prateek-coditas/color-extractor/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ProcessExtractionUseCase struct {
	repo      port.JobRepository
	storage   port.VideoStorage
	prober    port.DurationProber
	extractor port.ColorExtractor
	publisher port.StatusPublisher
	dlq       port.DLQPublisher
	notifier  port.FailureNotifier
	logger    *zap.Logger
	tempDir   string
	maxRetry  int
	notifyTo  string
}

type ProcessExtractionConfig struct {
	TempDir    string
	MaxRetries int
	NotifyTo   string
}

func NewProcessExtractionUseCase(
	repo port.JobRepository,
	storage port.VideoStorage,
	prober port.DurationProber,
	extractor port.ColorExtractor,
	publisher port.StatusPublisher,
	dlq port.DLQPublisher,
	notifier port.FailureNotifier,
	logger *zap.Logger,
	cfg ProcessExtractionConfig,
) *ProcessExtractionUseCase {
	return &ProcessExtractionUseCase{
		repo:      repo,
		storage:   storage,
		prober:    prober,
		extractor: extractor,
		publisher: publisher,
		dlq:       dlq,
		notifier:  notifier,
		logger:    logger,
		tempDir:   cfg.TempDir,
		maxRetry:  cfg.MaxRetries,
		notifyTo:  cfg.NotifyTo,
	}
}

func (uc *ProcessExtractionUseCase) Execute(ctx context.Context, rawMsg []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ProcessExtractionUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()

	var msg entity.ColorExtractionMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		uc.logger.Error("failed to unmarshal message", zap.Error(err), zap.ByteString("body", rawMsg))
		_ = uc.dlq.PublishToDLQ(ctx, rawMsg, "unmarshal_error: "+err.Error())
		return nil
	}

	span.SetAttributes(
		attribute.String("job.id", msg.JobID.String()),
		attribute.String("job.video_key", msg.VideoKey),
		attribute.Int("job.timestamp_count", len(msg.TimestampsMs)),
	)

	log := uc.logger.With(zap.String("job_id", msg.JobID.String()), zap.String("video_key", msg.VideoKey))

	job, err := uc.repo.FindByID(ctx, msg.JobID)
	if err != nil {
		job = entity.NewJob(msg.UserID, msg.VideoKey, msg.TimestampsMs, uc.maxRetry)
		job.ID = msg.JobID
		if err := uc.repo.Create(ctx, job); err != nil {
			log.Error("failed to create job record", zap.Error(err))
			return fmt.Errorf("create job: %w", err)
		}
	}

	if reason := validateTimestamps(msg.TimestampsMs); reason != "" {
		log.Warn("rejecting job with invalid timestamps", zap.String("reason", reason))
		_ = uc.handlePermanentFailure(ctx, job, msg, rawMsg, reason)
		return nil
	}

	if !job.CanRetry() {
		log.Warn("job exhausted retries, sending to DLQ")
		_ = uc.handlePermanentFailure(ctx, job, msg, rawMsg, "max retries exceeded")
		return nil
	}

	job.MarkProcessing()
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to PROCESSING", zap.Error(err))
		return fmt.Errorf("update job: %w", err)
	}

	metrics.TimestampsPerJob.Observe(float64(len(msg.TimestampsMs)))
	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	if err := uc.runExtractionPipeline(ctx, job, msg, rawMsg, log); err != nil {
		return err
	}

	metrics.JobsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.JobProcessingDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	return nil
}

func (uc *ProcessExtractionUseCase) runExtractionPipeline(
	ctx context.Context,
	job *entity.Job,
	msg entity.ColorExtractionMessage,
	rawMsg []byte,
	log *zap.Logger,
) error {
	tracer := otel.Tracer("usecase")

	workDir := filepath.Join(uc.tempDir, job.ID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Download video from MinIO
	dlStart := time.Now()
	ctx2, spanDl := tracer.Start(ctx, "download_video")
	videoPath := filepath.Join(workDir, "input.mp4")
	if err := uc.storage.DownloadVideo(ctx2, msg.VideoKey, videoPath); err != nil {
		spanDl.End()
		log.Error("failed to download video", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "download_video: "+err.Error(), log)
	}
	spanDl.End()
	metrics.JobProcessingDuration.WithLabelValues("download").Observe(time.Since(dlStart).Seconds())

	// Probe duration so out-of-range timestamps fail before decoding
	prStart := time.Now()
	ctx3, spanPr := tracer.Start(ctx, "probe_duration")
	duration, err := uc.prober.ProbeDuration(ctx3, videoPath)
	if err != nil {
		spanPr.End()
		log.Error("failed to probe video duration", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "probe_duration: "+err.Error(), log)
	}
	spanPr.End()
	metrics.JobProcessingDuration.WithLabelValues("probe").Observe(time.Since(prStart).Seconds())

	durationMs := int64(duration * 1000)
	for _, ts := range msg.TimestampsMs {
		if ts > durationMs {
			reason := fmt.Sprintf("timestamp %dms beyond video duration %.3fs", ts, duration)
			log.Warn("rejecting job with out-of-range timestamp", zap.String("reason", reason))
			return uc.handlePermanentFailure(ctx, job, msg, rawMsg, reason)
		}
	}

	// Extract one dominant color per requested timestamp
	exStart := time.Now()
	ctx4, spanEx := tracer.Start(ctx, "extract_colors")
	results, err := uc.extractor.ExtractColors(ctx4, videoPath, msg.TimestampsMs)
	if err != nil {
		spanEx.End()
		log.Error("color extraction failed", zap.Error(err))
		if isPermanentExtractionError(err) {
			return uc.handlePermanentFailure(ctx, job, msg, rawMsg, "extract_colors: "+err.Error())
		}
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "extract_colors: "+err.Error(), log)
	}
	spanEx.End()
	metrics.JobProcessingDuration.WithLabelValues("extract").Observe(time.Since(exStart).Seconds())
	metrics.ColorsExtractedTotal.Add(float64(len(results)))

	// Mark completed
	job.MarkCompleted(results, duration)
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to COMPLETED", zap.Error(err))
		return fmt.Errorf("update job completed: %w", err)
	}

	uc.publishStatus(ctx, job, log)

	log.Info("job completed successfully",
		zap.Int("color_count", len(results)),
		zap.Float64("duration_secs", duration),
	)

	return nil
}

// validateTimestamps catches requests that can never succeed, before an
// attempt is consumed.
func validateTimestamps(timestampsMs []int64) string {
	if len(timestampsMs) == 0 {
		return "no timestamps requested"
	}
	for _, ts := range timestampsMs {
		if ts < 0 {
			return fmt.Sprintf("negative timestamp %dms", ts)
		}
	}
	return ""
}

// isPermanentExtractionError reports whether retrying the same message
// could ever change the outcome. Decode and reachability failures may be
// transient; a source the decoder cannot parse, or a request the video
// cannot satisfy, stays broken.
func isPermanentExtractionError(err error) bool {
	var unsupported *extraction.UnsupportedSourceError
	var noFrames *extraction.NoFramesError
	var partial *extraction.PartialExtractionError
	var noSwatch *extraction.NoSwatchError
	if errors.As(err, &unsupported) || errors.As(err, &noFrames) ||
		errors.As(err, &partial) || errors.As(err, &noSwatch) {
		return true
	}
	return errors.Is(err, extraction.ErrNoTimestamps)
}

func (uc *ProcessExtractionUseCase) handleRetryableFailure(
	ctx context.Context,
	job *entity.Job,
	msg entity.ColorExtractionMessage,
	rawMsg []byte,
	errMsg string,
	log *zap.Logger,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	if !job.CanRetry() {
		return uc.handlePermanentFailure(ctx, job, msg, rawMsg, errMsg)
	}

	metrics.RetryTotal.WithLabelValues(strconv.Itoa(job.Attempt)).Inc()
	uc.publishStatus(ctx, job, log)

	return fmt.Errorf("retryable failure (attempt %d/%d): %s", job.Attempt, job.MaxAttempts, errMsg)
}

func (uc *ProcessExtractionUseCase) handlePermanentFailure(
	ctx context.Context,
	job *entity.Job,
	msg entity.ColorExtractionMessage,
	rawMsg []byte,
	errMsg string,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	_ = uc.dlq.PublishToDLQ(ctx, rawMsg, errMsg)

	uc.publishStatus(ctx, job, uc.logger)

	metrics.JobsProcessedTotal.WithLabelValues("dlq").Inc()

	recipient := msg.UserEmail
	if recipient == "" {
		recipient = uc.notifyTo
	}
	if recipient != "" {
		_ = uc.notifier.NotifyFailure(ctx, recipient, job.ID.String(), msg.VideoKey, errMsg)
	}

	return nil
}

func (uc *ProcessExtractionUseCase) publishStatus(ctx context.Context, job *entity.Job, log *zap.Logger) {
	statusMsg := entity.ColorStatusMessage{
		JobID:        job.ID,
		UserID:       job.UserID,
		Status:       job.Status,
		VideoKey:     job.VideoKey,
		Results:      job.Results,
		Duration:     job.VideoDuration,
		ErrorMessage: job.ErrorMessage,
		Attempt:      job.Attempt,
		MaxAttempts:  job.MaxAttempts,
	}
	data, _ := json.Marshal(statusMsg)
	if err := uc.publisher.PublishStatus(ctx, data); err != nil {
		log.Error("failed to publish status", zap.Error(err))
	}
}
