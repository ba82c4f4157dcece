// Package extractor holds the source-specific strategies that turn a video URL
// into an MP4 file on disk. YouTube and Twitter/X go through yt-dlp, HLS
// playlists are remuxed by ffmpeg.
package extractor

import (
	"context"

	"github.com/veranemoloko/video-downloader/internal/domain"
)

// ProgressFunc receives a completion percentage in [0,100]. It may be called
// zero or more times and the last call is not guaranteed to be 100.
type ProgressFunc func(percent float64)

// Artifact describes a downloaded file.
type Artifact struct {
	Filepath string
	Message  string
}

// Strategy downloads one kind of source into outputDir.
type Strategy interface {
	Source() domain.SourceType
	Fetch(ctx context.Context, url, outputDir string, onProgress ProgressFunc) (Artifact, error)
}

// Error is a strategy failure. Message is the user-facing text; Kind is one of
// the extraction or conversion sentinels.
type Error struct {
	Source  domain.SourceType
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (f ProgressFunc) report(percent float64) {
	if f != nil {
		f(percent)
	}
}

// byteProgress adapts a downloaded/total byte counter to a ProgressFunc.
// Ticks without a known total are dropped.
func byteProgress(onProgress ProgressFunc) func(downloaded, total int64) {
	if onProgress == nil {
		return nil
	}
	return func(downloaded, total int64) {
		if total <= 0 {
			return
		}
		onProgress.report(float64(downloaded) / float64(total) * 100)
	}
}
