package extractor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFastProbe(client *http.Client, retries uint64) *PlaylistProbe {
	p := NewPlaylistProbe(client, retries)
	p.initialInterval = time.Millisecond
	return p
}

func TestPlaylistProbe_MediaPlaylist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, mediaPlaylist)
	}))
	defer srv.Close()

	info, err := newFastProbe(srv.Client(), 0).Probe(context.Background(), srv.URL+"/index.m3u8")
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.False(t, info.Master)
	assert.Equal(t, 2, info.Segments)
	assert.Equal(t, 18*time.Second, info.Duration)
}

func TestPlaylistProbe_MasterPlaylist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, masterPlaylist)
	}))
	defer srv.Close()

	info, err := newFastProbe(srv.Client(), 0).Probe(context.Background(), srv.URL+"/master.m3u8")
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.True(t, info.Master)
	assert.Equal(t, 2, info.Variants)
}

func TestPlaylistProbe_NotAPlaylist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>nope</html>")
	}))
	defer srv.Close()

	_, err := newFastProbe(srv.Client(), 0).Probe(context.Background(), srv.URL+"/x.m3u8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid playlist")
}

func TestPlaylistProbe_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, mediaPlaylist)
	}))
	defer srv.Close()

	info, err := newFastProbe(srv.Client(), 5).Probe(context.Background(), srv.URL+"/index.m3u8")
	require.NoError(t, err)
	assert.Equal(t, 2, info.Segments)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPlaylistProbe_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newFastProbe(srv.Client(), 5).Probe(context.Background(), srv.URL+"/index.m3u8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, int32(1), calls.Load())
}

func TestPlaylistProbe_SkipsNonHTTP(t *testing.T) {
	info, err := newFastProbe(nil, 0).Probe(context.Background(), "/local/stream.m3u8")
	require.NoError(t, err)
	assert.Nil(t, info)
}
