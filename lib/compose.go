package copiclib

import (
	"image"
	"image/draw"
)

// Compose merges one image per monitor into a single viewport-sized
// wallpaper. Images are paired with monitors positionally, in layout order.
// Pastes use draw.Src, so overlapping monitors (which shouldn't happen with
// sane geometry) resolve to the later paste. The canvas keeps its alpha
// channel for any region no monitor covers.
func Compose(
	layout *DisplayLayout, images []image.Image, mode FitMode) (
	*image.RGBA, error) {

	if len(images) != len(layout.Monitors) {
		return nil, &MonitorImageCountMismatchError{
			Images:   len(images),
			Monitors: len(layout.Monitors),
		}
	}

	canvas := image.NewRGBA(
		image.Rect(0, 0, layout.Viewport.Width, layout.Viewport.Height))

	for i, m := range layout.Monitors {
		fitted := FitImage(images[i], m.Width, m.Height, mode)
		target := image.Rect(m.X, m.Y, m.X+m.Width, m.Y+m.Height)
		draw.Draw(canvas, target, fitted, fitted.Bounds().Min, draw.Src)
	}

	return canvas, nil
}
