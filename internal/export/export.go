// Package export renders calculation snapshots to PNG images.
package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mmynk/tipsplitter/internal/metrics"
)

const (
	padding    = 12
	lineHeight = 18
	scale      = 2
)

var (
	background = color.White
	foreground = color.Black
	muted      = color.Gray{Y: 0x70}
)

// Line is one label/value row of a snapshot.
type Line struct {
	Label string
	Value string
}

// Snapshot is the content of an exported image.
type Snapshot struct {
	Title string
	Lines []Line
}

// Render draws the snapshot and encodes it as PNG to w.
func Render(w io.Writer, snap Snapshot) error {
	face := basicfont.Face7x13

	labelWidth := 0
	for _, l := range snap.Lines {
		labelWidth = max(labelWidth, font.MeasureString(face, l.Label).Ceil())
	}
	width := font.MeasureString(face, snap.Title).Ceil()
	for _, l := range snap.Lines {
		width = max(width, labelWidth+padding+font.MeasureString(face, l.Value).Ceil())
	}
	width += 2 * padding
	height := 2*padding + lineHeight*(len(snap.Lines)+2)

	src := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(src, src.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: src, Face: face}
	y := padding + face.Ascent
	drawText(d, foreground, padding, y, snap.Title)
	y += 2 * lineHeight
	for _, l := range snap.Lines {
		drawText(d, muted, padding, y, l.Label)
		drawText(d, foreground, padding+labelWidth+padding, y, l.Value)
		y += lineHeight
	}

	dst := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	if err := png.Encode(w, dst); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func drawText(d *font.Drawer, c color.Color, x, y int, s string) {
	d.Src = image.NewUniform(c)
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

// WriteFile renders the snapshot into path, creating parent directories.
func WriteFile(path string, snap Snapshot) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Render(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Async writes the snapshot in the background. The result is delivered on
// the returned channel, which is closed afterwards. Failures are also logged
// and counted; they never reach the calculation that produced the snapshot.
func Async(ctx context.Context, path string, snap Snapshot, logger *slog.Logger, m *metrics.Metrics) <-chan error {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	logger = logger.With("component", "export", "path", path)

	done := make(chan error, 1)
	go func() {
		defer close(done)
		if err := ctx.Err(); err != nil {
			done <- err
			return
		}
		if err := WriteFile(path, snap); err != nil {
			m.Exports.WithLabelValues(metrics.ResultError).Inc()
			logger.Error("Error generating image", "error", err)
			done <- err
			return
		}
		m.Exports.WithLabelValues(metrics.ResultOK).Inc()
		logger.Info("Image saved")
		done <- nil
	}()
	return done
}
