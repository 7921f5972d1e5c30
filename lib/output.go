package copiclib

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// WriteWallpaper encodes the composed canvas into a fresh file under
// OutputDir and returns its absolute path. PNG rather than bmp so regions no
// monitor covers keep their transparency.
func WriteWallpaper(c *Config, img image.Image) (AbsolutePath, error) {
	if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
		return "", fmt.Errorf(
			"Error creating OutputDir [%s]: %s", c.OutputDir, err)
	}

	f, err := os.CreateTemp(c.OutputDir, "copic-*.png")
	if err != nil {
		return "", err
	}

	err = png.Encode(f, img)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}

	return filepath.Abs(f.Name())
}
