package prism

import (
	"context"
	"log/slog"
	"time"
)

// FrameStats summarises one call to Scene.Frame.
type FrameStats struct {
	Frame     uint64
	DeltaTime float64 // seconds since the previous frame, 0 on the first
	Elapsed   float64 // seconds since the first frame

	Mouse MouseState
	Zoom  ZoomPulse

	Drawn            int // entities submitted
	Failed           int // entities skipped because their draw failed
	TexturesUploaded int

	UpdateTime time.Duration
	DrawTime   time.Duration
}

// debugLog writes the frame's stats at debug level. Only called when
// Config.Debug is set.
func (s *Scene) debugLog(stats FrameStats) {
	log := Logger()
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	log.Debug("frame",
		"frame", stats.Frame,
		"dt", stats.DeltaTime,
		"mouse", stats.Mouse,
		"zoom", stats.Zoom,
		"drawn", stats.Drawn,
		"failed", stats.Failed,
		"update", stats.UpdateTime,
		"draw", stats.DrawTime,
		"total", stats.UpdateTime+stats.DrawTime,
		slog.Group("camera",
			"x", s.camera.position[0],
			"y", s.camera.position[1],
			"zoom", s.camera.zoom,
		),
	)
}
