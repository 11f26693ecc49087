package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"linguabot/internal/metrics"
)

// TempDirPrefix names the per-invocation scratch directories.
const TempDirPrefix = "linguabot-transcode-"

// FFmpeg implements domain.Transcoder by running the ffmpeg binary.
type FFmpeg struct {
	path    string
	tempDir string
	logger  *slog.Logger
}

type FFmpegConfig struct {
	Path    string // binary, resolved through PATH when not absolute
	TempDir string // parent of scratch directories; "" means os.TempDir()
	Logger  *slog.Logger
}

func NewFFmpeg(cfg FFmpegConfig) *FFmpeg {
	if cfg.Path == "" {
		cfg.Path = "ffmpeg"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &FFmpeg{path: cfg.Path, tempDir: cfg.TempDir, logger: cfg.Logger}
}

// TempDir returns the parent directory scratch directories are created in.
func (f *FFmpeg) TempDir() string {
	if f.tempDir == "" {
		return os.TempDir()
	}
	return f.tempDir
}

// Transcode writes data to a fresh scratch directory, runs
// `ffmpeg -y -i input.<from> -f <to> output.<to>` and returns the output bytes.
// The directory is removed on every return path.
func (f *FFmpeg) Transcode(ctx context.Context, data []byte, fromFormat, toFormat string) (out []byte, err error) {
	defer func() { metrics.Transcode(err) }()

	fromFormat, toFormat = sanitizeExt(fromFormat), sanitizeExt(toFormat)
	if fromFormat == "" || toFormat == "" {
		return nil, errors.New("transcode: source and target formats are required")
	}

	dir, err := os.MkdirTemp(f.tempDir, TempDirPrefix)
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			f.logger.Warn("failed to remove scratch dir", "dir", dir, "err", rmErr)
		}
	}()

	in := filepath.Join(dir, "input."+fromFormat)
	outPath := filepath.Join(dir, "output."+toFormat)
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, fmt.Errorf("write input: %w", err)
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, f.path, "-y", "-i", in, "-f", toFormat, outPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ffmpeg %s->%s: %w: %s", fromFormat, toFormat, err, tail(string(output), 512))
	}

	out, err = os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	f.logger.Debug("transcode complete",
		"from", fromFormat, "to", toFormat,
		"in_bytes", len(data), "out_bytes", len(out),
		"duration", time.Since(start),
	)
	return out, nil
}

// SweepStale removes scratch directories under dir older than maxAge.
// They are left behind only when a process dies mid-transcode.
func SweepStale(dir string, maxAge time.Duration, now time.Time) (int, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", dir, err)
	}

	var removed int
	var errs []error
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), TempDirPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
