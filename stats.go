package reflector

import (
	"fmt"
	"image"
	"image/color"
	"time"
)

// Stats is the frame-rate readout.
type Stats struct {
	Visible bool

	window  time.Duration
	start   time.Time
	frames  int
	fps     float64
	minFps  float64
	maxFps  float64
	samples int

	text    string
	overlay *image.RGBA
}

func NewStats(visible bool) *Stats {
	return &Stats{Visible: visible, window: time.Second}
}

// Update counts one frame at now and refreshes FPS once per window.
func (s *Stats) Update(now time.Time) {
	if s.start.IsZero() {
		s.start = now
		return
	}
	s.frames++
	elapsed := now.Sub(s.start)
	if elapsed < s.window {
		return
	}
	s.fps = float64(s.frames) / elapsed.Seconds()
	if s.samples == 0 || s.fps < s.minFps {
		s.minFps = s.fps
	}
	if s.fps > s.maxFps {
		s.maxFps = s.fps
	}
	s.samples++
	s.frames = 0
	s.start = now
}

func (s *Stats) FPS() float64 {
	return s.fps
}

func (s *Stats) Text() string {
	if s.samples == 0 {
		return "-- FPS"
	}
	return fmt.Sprintf("%.0f FPS (%.0f-%.0f)", s.fps, s.minFps, s.maxFps)
}

// Overlay returns the readout as an image, re-rasterised only when the text changes.
func (s *Stats) Overlay() *image.RGBA {
	text := s.Text()
	if s.overlay == nil || text != s.text {
		s.text = text
		s.overlay = renderText([]string{text}, color.RGBA{0, 255, 255, 255}, color.RGBA{0, 0, 34, 200})
	}
	return s.overlay
}
