//go:build !windows

package copiclib

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ApplyWallpaper points GNOME at the rendered file. The color scheme is
// queried once per apply so the uri lands on the key the active theme
// actually reads, and the wallpaper is forced to span the whole viewport.
func ApplyWallpaper(c *Config, wallpaper AbsolutePath) error {
	uri := "picture-uri"
	scheme, err := runBash(
		`gsettings get org.gnome.desktop.interface color-scheme`)
	if err == nil && strings.Contains(scheme, "prefer-dark") {
		uri = "picture-uri-dark"
	}

	oldWall, err := runBash(`gsettings get org.gnome.desktop.background ` + uri)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrApply, err)
	}

	_, err = runBash(`
		gsettings set org.gnome.desktop.background picture-options spanned
		gsettings set org.gnome.desktop.background ` + uri +
		` "file://` + wallpaper + `"
	`)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrApply, err)
	}

	oldWall = strings.TrimPrefix(strings.Trim(oldWall, "'\n"), "file://")
	// Only remove files we own
	if filepath.Dir(oldWall) == c.OutputDir && oldWall != wallpaper {
		// Could have already been removed, bury any errors
		_ = os.Remove(oldWall)
	}

	return nil
}

func runBash(cmd string) (string, error) {
	// See http://redsymbol.net/articles/unofficial-bash-strict-mode/
	command := `
		set -euo pipefail
		IFS=$'\n\t'
		` + cmd + "\n"

	bash := exec.Command("/usr/bin/env", "bash")
	bash.Stdin = strings.NewReader(command)
	bash.Stderr = os.Stderr

	bashOut, err := bash.Output()
	return string(bashOut), err
}
