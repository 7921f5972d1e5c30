package copiclib

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

type FitMode int

const (
	FitZoom FitMode = iota
	FitStretch
)

func (f FitMode) String() string {
	switch f {
	case FitZoom:
		return "zoom"
	case FitStretch:
		return "stretch"
	}
	return fmt.Sprintf("FitMode(%d)", int(f))
}

func ParseFitMode(s string) (FitMode, error) {
	switch s {
	case "zoom":
		return FitZoom, nil
	case "stretch":
		return FitStretch, nil
	}
	return 0, fmt.Errorf("%w [%s]", ErrUnsupportedFitMode, s)
}

// FitImage transforms img to exactly (width, height) according to mode.
// Images that already match the target are returned untouched.
func FitImage(img image.Image, width, height int, mode FitMode) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}

	switch mode {
	case FitStretch:
		return StretchFit(img, width, height)
	default:
		return ZoomFit(img, width, height)
	}
}

// ZoomFit scales img uniformly and crops it to (width, height), anchored at
// the top left. The scale factor comes from whichever axis is further, in
// pixels, from the target. Ties go to the horizontal axis.
func ZoomFit(img image.Image, width, height int) image.Image {
	b := img.Bounds()

	var factor float64
	if width-b.Dx() >= height-b.Dy() {
		factor = float64(width) / float64(b.Dx())
	} else {
		factor = float64(height) / float64(b.Dy())
	}

	sw := int(math.Round(float64(b.Dx()) * factor))
	sh := int(math.Round(float64(b.Dy()) * factor))

	scaled := image.NewRGBA(image.Rect(0, 0, sw, sh))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, xdraw.Src, nil)

	// Anything the scaled image doesn't cover stays transparent
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Copy(out, image.Point{}, scaled, scaled.Bounds(), xdraw.Src, nil)
	return out
}

// StretchFit scales img to exactly (width, height) ignoring aspect ratio.
func StretchFit(img image.Image, width, height int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out
}
