package extractor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Remuxer repackages a stream into an MP4 container without re-encoding.
type Remuxer interface {
	Remux(ctx context.Context, src, dst string) error
}

// FFmpeg remuxes HLS streams with the ffmpeg executable.
type FFmpeg struct {
	path string
}

func NewFFmpeg(path string) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{path: path}
}

// remuxArgs copies both codecs and applies the bitstream filter AAC audio
// needs inside MP4. -n refuses to overwrite an existing output.
func remuxArgs(src, dst string) []string {
	return []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-n",
		"-i", src,
		"-c", "copy",
		"-bsf:a", "aac_adtstoasc",
		dst,
	}
}

func (f *FFmpeg) Remux(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, f.path, remuxArgs(src, dst)...)
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("ffmpeg executable not found (%s): %w", f.path, err)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		detail := lastLine(string(output))
		if detail == "" {
			return fmt.Errorf("ffmpeg failed with return code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("ffmpeg failed with return code %d: %s", exitErr.ExitCode(), detail)
	}
	return fmt.Errorf("run ffmpeg: %w", err)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
