package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/grafov/m3u8"
)

const maxPlaylistBytes = 4 << 20

// PlaylistInfo summarises an HLS playlist.
type PlaylistInfo struct {
	Master   bool
	Variants int
	Segments int
	Duration time.Duration
}

// PlaylistProbe fetches and decodes an HLS playlist before it is handed to
// ffmpeg, so a dead link or a non-playlist response fails fast.
type PlaylistProbe struct {
	client          *http.Client
	retries         uint64
	initialInterval time.Duration
}

func NewPlaylistProbe(client *http.Client, retries uint64) *PlaylistProbe {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &PlaylistProbe{
		client:          client,
		retries:         retries,
		initialInterval: backoff.DefaultInitialInterval,
	}
}

// Probe returns nil info for URLs that are not http(s); ffmpeg handles those directly.
func (p *PlaylistProbe) Probe(ctx context.Context, rawURL string) (*PlaylistInfo, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, nil
	}

	body, err := p.fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist: %w", err)
	}

	playlist, listType, err := m3u8.DecodeFrom(bytes.NewReader(body), false)
	if err != nil {
		return nil, fmt.Errorf("invalid playlist: %w", err)
	}

	info := &PlaylistInfo{}
	switch listType {
	case m3u8.MASTER:
		master := playlist.(*m3u8.MasterPlaylist)
		info.Master = true
		info.Variants = len(master.Variants)
		if info.Variants == 0 {
			return nil, errors.New("invalid playlist: master playlist has no variants")
		}
	case m3u8.MEDIA:
		media := playlist.(*m3u8.MediaPlaylist)
		for _, seg := range media.Segments {
			if seg == nil {
				continue
			}
			info.Segments++
			info.Duration += time.Duration(seg.Duration * float64(time.Second))
		}
		if info.Segments == 0 {
			return nil, errors.New("invalid playlist: no media segments")
		}
	default:
		return nil, errors.New("invalid playlist: unknown playlist type")
	}
	return info, nil
}

func (p *PlaylistProbe) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("bad status: %s", resp.Status)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("bad status: %s", resp.Status))
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxPlaylistBytes))
		return err
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.initialInterval
	b := backoff.WithContext(backoff.WithMaxRetries(eb, p.retries), ctx)

	if err := backoff.Retry(operation, b); err != nil {
		return nil, err
	}
	return body, nil
}
