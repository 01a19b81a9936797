package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Transcoder converts one staged audio file into another codec.
type Transcoder interface {
	Transcode(ctx context.Context, src, dst string) error
}

// FFmpegTranscoder shells out to ffmpeg. The Telegram voice payload is
// OGG/Opus; the transcription service wants MP3.
type FFmpegTranscoder struct {
	path string
}

func NewFFmpegTranscoder(path string) *FFmpegTranscoder {
	if strings.TrimSpace(path) == "" {
		path = "ffmpeg"
	}
	return &FFmpegTranscoder{path: path}
}

func (t *FFmpegTranscoder) Transcode(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, t.path, "-y", "-i", src, "-b:a", "64k", dst)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, tail(stderr.String(), 512))
	}
	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
