package copiclib

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/awused/awconf"
)

type AbsolutePath = string
type RelativePath = string

const DefaultPort = 9999

var defaultExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

type Config struct {
	// Where merged wallpapers are written. Defaults to ~/.copic
	OutputDir string
	LogFile   string
	// Optional. When set the daemon tracks recently used wallpapers here and
	// avoids repeating them, instead of drawing uniformly at random.
	DatabaseDir string
	// Default wallpaper directory for daemon mode and for "set" when no
	// explicit files are given.
	WallpaperDirectory string
	// Port the command channel listens on
	Port                int
	ImageFileExtensions []string
}

var conf *Config

func GetConfig() (*Config, error) {
	if conf != nil {
		return conf, nil
	}

	return nil, fmt.Errorf("Init never called")
}

func Init() (*Config, error) {
	c := &Config{}

	if err := awconf.LoadConfig("copic", c); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	conf = c
	return c, nil
}

func (c *Config) validate() error {
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(os.Getenv("HOME"), ".copic")
	}

	fi, err := os.Stat(c.OutputDir)
	if err == nil && !fi.IsDir() {
		return fmt.Errorf("OutputDir [%s] is a regular file", c.OutputDir)
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf(
			"Error calling os.Stat on OutputDir [%s]: %s", c.OutputDir, err)
	}

	if c.DatabaseDir != "" {
		fi, err = os.Stat(c.DatabaseDir)
		if err != nil {
			return fmt.Errorf(
				"Error calling os.Stat on DatabaseDir [%s]: %s", c.DatabaseDir, err)
		}
		if !fi.IsDir() {
			return fmt.Errorf("DatabaseDir [%s] is not a directory", c.DatabaseDir)
		}
	}

	if c.WallpaperDirectory != "" {
		fi, err = os.Stat(c.WallpaperDirectory)
		if err != nil {
			return fmt.Errorf(
				"Error calling os.Stat on WallpaperDirectory [%s]: %s",
				c.WallpaperDirectory, err)
		}
		if !fi.IsDir() {
			return fmt.Errorf(
				"WallpaperDirectory [%s] is not a directory", c.WallpaperDirectory)
		}
	}

	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("Invalid Port [%d]", c.Port)
	}

	if len(c.ImageFileExtensions) == 0 {
		c.ImageFileExtensions = defaultExtensions
	}

	return nil
}
