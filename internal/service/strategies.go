package service

import (
	"log/slog"

	"github.com/veranemoloko/video-downloader/internal/config"
	"github.com/veranemoloko/video-downloader/internal/extractor"
)

// NewStrategies builds the production strategies: yt-dlp for YouTube and
// Twitter/X, ffmpeg for HLS.
func NewStrategies(cfg *config.Config, logger *slog.Logger) []extractor.Strategy {
	tool := extractor.NewYTDLP(cfg.YTDLPPath, cfg.ProgressInterval)

	var probe *extractor.PlaylistProbe
	if cfg.ProbePlaylist {
		probe = extractor.NewPlaylistProbe(nil, cfg.ProbeRetries)
	}

	return []extractor.Strategy{
		extractor.NewYouTube(tool, cfg.MaxHeight),
		extractor.NewTwitter(tool, cfg.MaxHeight),
		extractor.NewM3U8(extractor.NewFFmpeg(cfg.FFmpegPath), probe, logger),
	}
}
