package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/veranemoloko/video-downloader/internal/domain"
	errpkg "github.com/veranemoloko/video-downloader/internal/errors"
)

// M3U8 remuxes an HLS stream into a timestamp-named MP4. It does not report progress.
type M3U8 struct {
	remuxer Remuxer
	probe   *PlaylistProbe
	logger  *slog.Logger
	now     func() time.Time
}

// NewM3U8 builds the HLS strategy. probe may be nil to skip playlist validation.
func NewM3U8(remuxer Remuxer, probe *PlaylistProbe, logger *slog.Logger) *M3U8 {
	if logger == nil {
		logger = slog.Default()
	}
	return &M3U8{
		remuxer: remuxer,
		probe:   probe,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *M3U8) Source() domain.SourceType {
	return domain.SourceM3U8
}

func (s *M3U8) Fetch(ctx context.Context, url, outputDir string, _ ProgressFunc) (Artifact, error) {
	name := fmt.Sprintf("m3u8_video_%s.mp4", s.now().Format("20060102_150405"))
	output := filepath.Join(outputDir, name)

	if s.probe != nil {
		info, err := s.probe.Probe(ctx, url)
		if err != nil {
			return Artifact{}, s.fail("M3U8 download failed: "+err.Error(), err)
		}
		if info != nil {
			s.logger.Debug("playlist probed",
				"url", url,
				"master", info.Master,
				"variants", info.Variants,
				"segments", info.Segments,
				"duration", info.Duration,
			)
		}
	}

	if err := s.remuxer.Remux(ctx, url, output); err != nil {
		return Artifact{}, s.fail("M3U8 download failed: "+err.Error(), err)
	}

	// A zero exit status alone is not proof of success.
	stat, err := os.Stat(output)
	if err != nil || stat.Size() == 0 {
		return Artifact{}, s.fail("M3U8 download failed - file not created", err)
	}

	path, err := filepath.Abs(output)
	if err != nil {
		return Artifact{}, s.fail("M3U8 download failed: "+err.Error(), err)
	}

	return Artifact{
		Filepath: path,
		Message:  "Successfully downloaded M3U8 stream",
	}, nil
}

func (s *M3U8) fail(message string, err error) error {
	return &Error{
		Source:  domain.SourceM3U8,
		Kind:    errpkg.ErrConversion,
		Message: message,
		Err:     err,
	}
}
