package copiclib

import (
	"errors"
	"fmt"
)

var ErrLayoutUnavailable = errors.New("display layout unavailable")

var ErrNoImagesFound = errors.New("no images found")

var ErrUnsupportedFitMode = errors.New("unsupported fit mode")

var ErrImageDecode = errors.New("image decode failed")

var ErrApply = errors.New("setting wallpaper failed")

// Explicit image paths must match the number of connected monitors
type PathCountMismatchError struct {
	Paths    int
	Monitors int
}

func (e *PathCountMismatchError) Error() string {
	return fmt.Sprintf(
		"Got %d image paths for %d monitors", e.Paths, e.Monitors)
}

type MonitorImageCountMismatchError struct {
	Images   int
	Monitors int
}

func (e *MonitorImageCountMismatchError) Error() string {
	return fmt.Sprintf(
		"Cannot compose %d images onto %d monitors", e.Images, e.Monitors)
}
