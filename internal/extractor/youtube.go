package extractor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/veranemoloko/video-downloader/internal/domain"
	errpkg "github.com/veranemoloko/video-downloader/internal/errors"
)

const defaultTitle = "video"

// YouTube downloads the best MP4 rendition up to maxHeight, merging separate
// video and audio streams when needed.
type YouTube struct {
	tool      MediaTool
	maxHeight int
}

func NewYouTube(tool MediaTool, maxHeight int) *YouTube {
	return &YouTube{tool: tool, maxHeight: maxHeight}
}

func (s *YouTube) Source() domain.SourceType {
	return domain.SourceYouTube
}

func (s *YouTube) options() FetchOptions {
	h := s.maxHeight
	return FetchOptions{
		Format: fmt.Sprintf(
			"bestvideo[height<=%d][ext=mp4]+bestaudio[ext=m4a]/best[height<=%d][ext=mp4]/best[height<=%d]",
			h, h, h,
		),
		MergeFormat:  "mp4",
		RecodeFormat: "mp4",
	}
}

// Fetch saves the video as {outputDir}/{sanitized title}.mp4. Identical titles
// overwrite each other.
func (s *YouTube) Fetch(ctx context.Context, url, outputDir string, onProgress ProgressFunc) (Artifact, error) {
	opts := s.options()

	info, err := s.tool.Probe(ctx, url, opts)
	if err != nil {
		return Artifact{}, s.fail(err)
	}

	title := info.Title
	if title == "" {
		title = defaultTitle
	}
	name := SanitizeFilename(title)
	if name == "" {
		name = defaultTitle
	}

	opts.OutputTemplate = outputTemplate(outputDir, name)
	if err := s.tool.Fetch(ctx, url, opts, byteProgress(onProgress)); err != nil {
		return Artifact{}, s.fail(err)
	}

	path, err := filepath.Abs(filepath.Join(outputDir, name+".mp4"))
	if err != nil {
		return Artifact{}, s.fail(err)
	}

	return Artifact{
		Filepath: path,
		Message:  "Successfully downloaded: " + title,
	}, nil
}

func (s *YouTube) fail(err error) error {
	return &Error{
		Source:  domain.SourceYouTube,
		Kind:    errpkg.ErrExtraction,
		Message: "Failed to download video: " + err.Error(),
		Err:     err,
	}
}
