package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/veranemoloko/video-downloader/internal/classifier"
	"github.com/veranemoloko/video-downloader/internal/domain"
	errpkg "github.com/veranemoloko/video-downloader/internal/errors"
	"github.com/veranemoloko/video-downloader/internal/extractor"
	"github.com/veranemoloko/video-downloader/internal/metrics"
	"github.com/veranemoloko/video-downloader/internal/storage"
)

const (
	MessageUnsupportedSource = "Unable to detect video source. Supported: YouTube, Twitter/X, M3U8 streams"
	messageErrorPrefix       = "Download error: "
)

// Downloader turns a URL into an Outcome.
type Downloader interface {
	Download(ctx context.Context, url, outputDir string, onProgress extractor.ProgressFunc) domain.Outcome
}

// DownloadService classifies a URL and runs the matching strategy.
type DownloadService struct {
	strategies map[domain.SourceType]extractor.Strategy
	logger     *slog.Logger
}

// NewDownloadService registers strategies by the source they handle. A later
// strategy for the same source replaces an earlier one.
func NewDownloadService(logger *slog.Logger, strategies ...extractor.Strategy) *DownloadService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DownloadService{
		strategies: make(map[domain.SourceType]extractor.Strategy, len(strategies)),
		logger:     logger,
	}
	for _, strategy := range strategies {
		s.strategies[strategy.Source()] = strategy
	}
	return s
}

// Download never returns an error; every failure is folded into the Outcome,
// which always carries the detected source type.
func (s *DownloadService) Download(ctx context.Context, url, outputDir string, onProgress extractor.ProgressFunc) domain.Outcome {
	if err := storage.EnsureDir(outputDir); err != nil {
		return domain.Outcome{
			Message:    messageErrorPrefix + err.Error(),
			SourceType: domain.SourceUnknown,
		}
	}

	source := classifier.Classify(url)
	strategy, ok := s.strategies[source]
	if source == domain.SourceUnknown || !ok {
		s.logger.Warn("unsupported source", "url", url, "source_type", source, "error", errpkg.ErrUnknownSource)
		metrics.Downloads.WithLabelValues(string(source), metrics.ResultFailure).Inc()
		return domain.Outcome{
			Message:    MessageUnsupportedSource,
			SourceType: source,
		}
	}

	s.logger.Info("download started", "url", url, "source_type", source)

	start := time.Now()
	artifact, err := fetch(ctx, strategy, url, outputDir, onProgress)
	duration := time.Since(start)
	metrics.DownloadDuration.WithLabelValues(string(source)).Observe(duration.Seconds())

	if err != nil {
		metrics.Downloads.WithLabelValues(string(source), metrics.ResultFailure).Inc()
		s.logger.Error("download failed",
			"url", url,
			"source_type", source,
			"duration", duration,
			"error", err,
		)
		return domain.Outcome{
			Message:    failureMessage(err),
			SourceType: source,
		}
	}

	metrics.Downloads.WithLabelValues(string(source), metrics.ResultSuccess).Inc()
	if info, err := storage.NewFileStorage(outputDir).Stat(artifact.Filepath); err == nil {
		metrics.DownloadBytes.WithLabelValues(string(source)).Add(float64(info.Size()))
	}

	s.logger.Info("download completed",
		"url", url,
		"source_type", source,
		"file_path", artifact.Filepath,
		"duration", duration,
	)
	return domain.Outcome{
		Success:    true,
		Filepath:   artifact.Filepath,
		Message:    artifact.Message,
		SourceType: source,
	}
}

// fetch keeps the active gauge balanced even when the strategy panics.
func fetch(ctx context.Context, strategy extractor.Strategy, url, outputDir string, onProgress extractor.ProgressFunc) (extractor.Artifact, error) {
	metrics.ActiveDownloads.Inc()
	defer metrics.ActiveDownloads.Dec()
	return strategy.Fetch(ctx, url, outputDir, onProgress)
}

func failureMessage(err error) string {
	var serr *extractor.Error
	if errors.As(err, &serr) {
		return serr.Message
	}
	return messageErrorPrefix + err.Error()
}
