package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/veranemoloko/video-downloader/internal/domain"
	"github.com/veranemoloko/video-downloader/internal/extractor"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// stubStrategy reports the configured progress ticks and then returns
// artifact or err. A non-nil gate blocks Fetch until it is closed.
type stubStrategy struct {
	source   domain.SourceType
	ticks    []float64
	artifact extractor.Artifact
	err      error
	panicMsg string
	gate     chan struct{}

	mu    sync.Mutex
	calls int
}

func (s *stubStrategy) Source() domain.SourceType { return s.source }

func (s *stubStrategy) Fetch(_ context.Context, _, _ string, onProgress extractor.ProgressFunc) (extractor.Artifact, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.gate != nil {
		<-s.gate
	}
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	for _, p := range s.ticks {
		if onProgress != nil {
			onProgress(p)
		}
	}
	return s.artifact, s.err
}

func (s *stubStrategy) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
