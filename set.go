package main

import (
	"errors"
	"path/filepath"

	lib "github.com/ccrippey/copic/lib"
	"github.com/urfave/cli/v2"
)

const directory = "directory"
const recursive = "recursive"
const fit = "fit"

func setCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "set"
	cmd.Usage = "Compose and apply a wallpaper once"
	cmd.ArgsUsage = "[FILES...]"
	cmd.Description = "With explicit FILES, one per monitor, images are " +
		"applied left to right. With --directory images are drawn at random " +
		"and paired with monitors by aspect ratio."
	cmd.Before = beforeFunc
	cmd.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    directory,
			Aliases: []string{"d"},
			Usage:   "Draw images at random from this directory",
		},
		&cli.BoolFlag{
			Name:    recursive,
			Aliases: []string{"r"},
			Usage:   "Scan the directory recursively",
		},
		&cli.StringFlag{
			Name:    fit,
			Aliases: []string{"f"},
			Value:   "zoom",
			Usage:   "How images are fitted to monitors: zoom or stretch",
		},
	}

	cmd.Action = setAction

	return cmd
}

func setAction(c *cli.Context) error {
	conf, err := lib.GetConfig()
	checkErr(err)

	mode, err := lib.ParseFitMode(c.String(fit))
	checkErr(err)

	layout, err := lib.GetLayout()
	checkErr(err)

	paths, err := resolvePaths(c, conf, layout)
	checkErr(err)

	images, err := lib.LoadImages(paths)
	checkErr(err)

	canvas, err := lib.Compose(layout, images, mode)
	checkErr(err)

	out, err := lib.WriteWallpaper(conf, canvas)
	checkErr(err)

	err = lib.ApplyWallpaper(conf, out)
	checkErr(err)
	return nil
}

// Returns one image per monitor, indexed by layout monitor order. Explicit
// files keep the order they were given in.
func resolvePaths(
	c *cli.Context, conf *lib.Config, layout *lib.DisplayLayout) (
	[]string, error) {

	if c.NArg() > 0 {
		if c.NArg() != len(layout.Monitors) {
			return nil, &lib.PathCountMismatchError{
				Paths:    c.NArg(),
				Monitors: len(layout.Monitors),
			}
		}

		paths := make([]string, c.NArg())
		for i, a := range c.Args().Slice() {
			p, err := filepath.Abs(a)
			if err != nil {
				return nil, err
			}
			paths[i] = p
		}
		return paths, nil
	}

	dir := c.String(directory)
	if dir == "" {
		dir = conf.WallpaperDirectory
	}
	if dir == "" {
		return nil, errors.New(
			"No images given and no WallpaperDirectory configured")
	}

	files, err := lib.ListImages(
		dir, c.Bool(recursive), conf.ImageFileExtensions)
	if err != nil {
		return nil, err
	}

	drawn := lib.DrawUniform(files, len(layout.Monitors))
	paths := make([]string, len(drawn))
	for i, rel := range drawn {
		paths[i], err = filepath.Abs(filepath.Join(dir, rel))
		if err != nil {
			return nil, err
		}
	}

	return lib.PairByAspect(layout, paths)
}
