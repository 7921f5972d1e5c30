package copiclib

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, solidImage(w, h, c)))
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 10, 10, red)
	writePNG(t, filepath.Join(dir, "b.PNG"), 10, 10, red)
	writePNG(t, filepath.Join(dir, "sub", "c.png"), 10, 10, blue)
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	flat, err := ListImages(dir, false, defaultExtensions)
	require.NoError(t, err)
	assert.Equal(t, []RelativePath{"a.png", "b.PNG"}, flat)

	all, err := ListImages(dir, true, defaultExtensions)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Contains(t, all, filepath.Join("sub", "c.png"))
}

func TestListImagesNoneFound(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	_, err := ListImages(dir, true, defaultExtensions)
	require.ErrorIs(t, err, ErrNoImagesFound)
}

// Fewer images than monitors is valid, draws are with replacement
func TestDrawUniformWithReplacement(t *testing.T) {
	files := []RelativePath{"a.png", "b.png"}

	drawn := DrawUniform(files, 5)
	require.Len(t, drawn, 5)
	for _, d := range drawn {
		assert.Contains(t, files, d)
	}
}

// The portrait image must land on the squarer monitor and the landscape
// image on the landscape monitor, regardless of the order they were drawn
// in.
func TestPairByAspect(t *testing.T) {
	dir := t.TempDir()
	landscape := filepath.Join(dir, "landscape.png")
	portrait := filepath.Join(dir, "portrait.png")
	writePNG(t, landscape, 160, 90, red)
	writePNG(t, portrait, 90, 160, blue)

	layout := testLayout(monitorA, monitorB)

	for _, paths := range [][]AbsolutePath{
		{landscape, portrait},
		{portrait, landscape},
	} {
		paired, err := PairByAspect(layout, paths)
		require.NoError(t, err)
		assert.Equal(t, []AbsolutePath{landscape, portrait}, paired)
	}
}

// Equal aspect ratios keep their incoming order
func TestPairByAspectStableTieBreak(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.png")
	second := filepath.Join(dir, "second.png")
	writePNG(t, first, 100, 100, red)
	writePNG(t, second, 200, 200, blue)

	layout := testLayout(
		Monitor{Width: 1080, Height: 1080, X: 0, Y: 0},
		Monitor{Width: 1080, Height: 1080, X: 1080, Y: 0})

	paired, err := PairByAspect(layout, []AbsolutePath{first, second})
	require.NoError(t, err)
	assert.Equal(t, []AbsolutePath{first, second}, paired)
}

func TestPairByAspectCountMismatch(t *testing.T) {
	dir := t.TempDir()
	only := filepath.Join(dir, "only.png")
	writePNG(t, only, 10, 10, red)

	_, err := PairByAspect(testLayout(monitorA, monitorB), []AbsolutePath{only})
	var mismatch *PathCountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, mismatch.Paths)
	assert.Equal(t, 2, mismatch.Monitors)
}

func TestLoadImagesDecodeFailure(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.png")
	require.NoError(t, os.WriteFile(bogus, []byte("not a png"), 0644))

	_, err := LoadImages([]AbsolutePath{bogus})
	require.ErrorIs(t, err, ErrImageDecode)
	assert.Contains(t, err.Error(), "bogus.png")
}
