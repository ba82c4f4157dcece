package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	ytdlp "github.com/lrstanley/go-ytdlp"
)

// MediaInfo is the subset of extractor metadata used to name output files.
type MediaInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Uploader    string `json:"uploader"`
	Description string `json:"description"`
}

// FetchOptions configures one yt-dlp invocation.
type FetchOptions struct {
	Format         string
	OutputTemplate string
	MergeFormat    string
	RecodeFormat   string
	ExtractorArgs  string
}

// MediaTool is the external extraction tool used by the YouTube and Twitter strategies.
type MediaTool interface {
	Probe(ctx context.Context, url string, opts FetchOptions) (*MediaInfo, error)
	Fetch(ctx context.Context, url string, opts FetchOptions, onBytes func(downloaded, total int64)) error
}

// YTDLP runs the yt-dlp executable through go-ytdlp.
type YTDLP struct {
	executable       string
	progressInterval time.Duration
}

// NewYTDLP returns a MediaTool backed by yt-dlp. An empty executable uses the
// one found on PATH.
func NewYTDLP(executable string, progressInterval time.Duration) *YTDLP {
	if progressInterval <= 0 {
		progressInterval = 500 * time.Millisecond
	}
	return &YTDLP{
		executable:       executable,
		progressInterval: progressInterval,
	}
}

func (y *YTDLP) command(opts FetchOptions) *ytdlp.Command {
	cmd := ytdlp.New().
		NoPlaylist().
		Newline()
	if y.executable != "" {
		cmd.SetExecutable(y.executable)
	}
	if opts.ExtractorArgs != "" {
		cmd.ExtractorArgs(opts.ExtractorArgs)
	}
	return cmd
}

// Probe extracts metadata without downloading.
func (y *YTDLP) Probe(ctx context.Context, url string, opts FetchOptions) (*MediaInfo, error) {
	cmd := y.command(opts).
		SkipDownload().
		DumpSingleJSON()

	res, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, toolError(err, res)
	}

	var info MediaInfo
	if err := json.Unmarshal([]byte(res.Stdout), &info); err != nil {
		return nil, fmt.Errorf("decode yt-dlp metadata: %w", err)
	}
	return &info, nil
}

// Fetch downloads url according to opts, forwarding byte counters while the
// tool reports it is downloading.
func (y *YTDLP) Fetch(ctx context.Context, url string, opts FetchOptions, onBytes func(downloaded, total int64)) error {
	cmd := y.command(opts).
		Output(opts.OutputTemplate)

	if opts.Format != "" {
		cmd.Format(opts.Format)
	}
	if opts.MergeFormat != "" {
		cmd.MergeOutputFormat(opts.MergeFormat)
	}
	if opts.RecodeFormat != "" {
		cmd.RecodeVideo(opts.RecodeFormat)
	}

	if onBytes != nil {
		cmd.ProgressFunc(y.progressInterval, func(prog ytdlp.ProgressUpdate) {
			if prog.Status != ytdlp.ProgressStatusDownloading {
				return
			}
			onBytes(int64(prog.DownloadedBytes), int64(prog.TotalBytes))
		})
	}

	res, err := cmd.Run(ctx, url)
	if err != nil {
		return toolError(err, res)
	}
	return nil
}

// toolError prefers the ERROR lines yt-dlp wrote to stderr over the generic
// exit status error.
func toolError(err error, res *ytdlp.Result) error {
	if res == nil {
		return err
	}
	var lines []string
	for _, line := range strings.Split(res.Stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ERROR:") {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return err
	}
	return fmt.Errorf("%s: %w", strings.Join(lines, "; "), err)
}
