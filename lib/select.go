package copiclib

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ListImages enumerates recognized image files under root, returning paths
// relative to root. Without recursive only the top level is scanned.
func ListImages(
	root AbsolutePath, recursive bool, extensions []string) (
	[]RelativePath, error) {

	var files []RelativePath

	if recursive {
		err := filepath.WalkDir(root, func(
			path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !hasImageExtension(path, extensions) {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Type().IsRegular() && hasImageExtension(e.Name(), extensions) {
				files = append(files, e.Name())
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in [%s]", ErrNoImagesFound, root)
	}

	sort.Strings(files)
	return files, nil
}

func hasImageExtension(path string, extensions []string) bool {
	lower := strings.ToLower(path)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// DrawUniform picks n files uniformly at random, with replacement. A
// directory holding fewer images than there are monitors is fine, repeats
// are expected.
func DrawUniform(files []RelativePath, n int) []RelativePath {
	drawn := make([]RelativePath, n)
	for i := range drawn {
		drawn[i] = files[rand.Intn(len(files))]
	}
	return drawn
}

// The subset of go-strpick's Picker the daemon needs
type Picker interface {
	AddAll([]string) error
	TryUniqueN(int) ([]string, error)
	Close() error
}

// DrawPersistent picks n files through a low-repetition picker backed by
// DatabaseDir, so the daemon cycles through a library before repeating
// itself. TryUniqueN falls back to repeats when the pool is smaller than n.
func DrawPersistent(
	picker Picker, files []RelativePath, n int) ([]RelativePath, error) {

	if err := picker.AddAll(files); err != nil {
		return nil, err
	}

	return picker.TryUniqueN(n)
}

// PairByAspect reorders paths so that paths and monitors match up when both
// are sorted by ascending aspect ratio: portrait images land on
// narrower-than-tall monitors. The result is indexed by layout monitor
// order, ready for Compose. Both sorts are stable, so equal ratios keep
// their incoming order.
func PairByAspect(
	layout *DisplayLayout, paths []AbsolutePath) ([]AbsolutePath, error) {

	if len(paths) != len(layout.Monitors) {
		return nil, &PathCountMismatchError{
			Paths:    len(paths),
			Monitors: len(layout.Monitors),
		}
	}

	type imageAspect struct {
		path   AbsolutePath
		aspect float64
	}

	aspects := make([]imageAspect, len(paths))
	for i, p := range paths {
		cfg, err := decodeImageConfig(p)
		if err != nil {
			return nil, err
		}
		aspects[i] = imageAspect{p, float64(cfg.Width) / float64(cfg.Height)}
	}

	sort.SliceStable(aspects, func(i, j int) bool {
		return aspects[i].aspect < aspects[j].aspect
	})

	paired := make([]AbsolutePath, len(paths))
	for k, monitorIdx := range layout.monitorsByAspect() {
		paired[monitorIdx] = aspects[k].path
	}
	return paired, nil
}

func decodeImageConfig(path AbsolutePath) (*image.Config, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: [%s]: %s", ErrImageDecode, path, err)
	}
	defer in.Close()

	cfg, _, err := image.DecodeConfig(in)
	if err != nil {
		return nil, fmt.Errorf("%w: [%s]: %s", ErrImageDecode, path, err)
	}
	return &cfg, nil
}

// LoadImages fully decodes every path, in order.
func LoadImages(paths []AbsolutePath) ([]image.Image, error) {
	images := make([]image.Image, len(paths))
	for i, p := range paths {
		in, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("%w: [%s]: %s", ErrImageDecode, p, err)
		}

		img, _, err := image.Decode(in)
		in.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: [%s]: %s", ErrImageDecode, p, err)
		}
		images[i] = img
	}
	return images, nil
}
