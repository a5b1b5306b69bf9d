// Package headless implements backend.Backend for automated runs (test
// ROMs, CI, benchmarking): no window, no input, optional periodic frame
// snapshots written to disk for later inspection.
package headless

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tnystrom/dmgcore/internal/backend"
	"github.com/tnystrom/dmgcore/internal/video"
)

// SnapshotConfig controls periodic PNG dumps of the framebuffer.
type SnapshotConfig struct {
	Enabled   bool
	Interval  int
	Directory string
	ROMName   string
}

// Backend is the headless output platform.
type Backend struct {
	snapshots  SnapshotConfig
	frameCount int
}

// New creates a headless backend; snapshots are skipped when snap.Enabled
// is false.
func New(snap SnapshotConfig) *Backend {
	return &Backend{snapshots: snap}
}

func (h *Backend) Init(cfg backend.Config) error {
	slog.Info("running headless", "snapshot_interval", h.snapshots.Interval, "snapshot_dir", h.snapshots.Directory)
	if h.snapshots.Enabled {
		return os.MkdirAll(h.snapshots.Directory, 0o755)
	}
	return nil
}

func (h *Backend) Update(frame []uint8) ([]backend.InputEvent, error) {
	h.frameCount++
	if h.snapshots.Enabled && h.snapshots.Interval > 0 && h.frameCount%h.snapshots.Interval == 0 {
		if err := h.saveSnapshot(frame); err != nil {
			slog.Error("failed to save snapshot", "frame", h.frameCount, "error", err)
		}
	}
	return nil, nil
}

func (h *Backend) Close() error { return nil }

func (h *Backend) saveSnapshot(frame []uint8) error {
	img := image.NewGray(image.Rect(0, 0, video.ScreenWidth, video.ScreenHeight))
	for i := 0; i < video.ScreenWidth*video.ScreenHeight; i++ {
		img.Set(i%video.ScreenWidth, i/video.ScreenWidth, color.Gray{Y: frame[i*3]})
	}

	path := filepath.Join(h.snapshots.Directory, fmt.Sprintf("%s_frame_%d.png", h.snapshots.ROMName, h.frameCount))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
