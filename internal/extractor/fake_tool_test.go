package extractor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// fakeTool stands in for yt-dlp. Fetch writes a small file at the resolved
// output template so callers see a real artifact on disk.
type fakeTool struct {
	mu sync.Mutex

	info     *MediaInfo
	probeErr error
	fetchErr error
	ticks    [][2]int64

	probeOpts FetchOptions
	fetchOpts FetchOptions
}

func (f *fakeTool) Probe(_ context.Context, _ string, opts FetchOptions) (*MediaInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeOpts = opts
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	if f.info == nil {
		return &MediaInfo{}, nil
	}
	info := *f.info
	return &info, nil
}

func (f *fakeTool) Fetch(_ context.Context, _ string, opts FetchOptions, onBytes func(downloaded, total int64)) error {
	f.mu.Lock()
	f.fetchOpts = opts
	ticks := f.ticks
	fetchErr := f.fetchErr
	f.mu.Unlock()

	if onBytes != nil {
		for _, tick := range ticks {
			onBytes(tick[0], tick[1])
		}
	}
	if fetchErr != nil {
		return fetchErr
	}

	path := strings.ReplaceAll(strings.TrimSuffix(opts.OutputTemplate, ".%(ext)s"), "%%", "%") + ".mp4"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("video"), 0o644)
}
