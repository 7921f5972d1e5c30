//go:build !windows

package copiclib

import (
	"fmt"
	"io"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// GetLayout takes a fresh snapshot of the current display configuration from
// the X server: the viewport from the default screen and one Monitor per
// active RandR CRTC, leftmost first.
func GetLayout() (*DisplayLayout, error) {
	// Stop polluting stdout
	xgb.Logger.SetOutput(io.Discard)
	xgbutil.Logger.SetOutput(io.Discard)

	X, err := xgbutil.NewConnDisplay("")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLayoutUnavailable, err)
	}
	conn := X.Conn()
	defer conn.Close()

	if err = randr.Init(conn); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLayoutUnavailable, err)
	}

	screen := xproto.Setup(conn).DefaultScreen(conn)
	viewport := Viewport{
		Width:  int(screen.WidthInPixels),
		Height: int(screen.HeightInPixels),
	}
	if viewport.Width <= 0 || viewport.Height <= 0 {
		return nil, fmt.Errorf(
			"%w: screen reported %dx%d viewport",
			ErrLayoutUnavailable, viewport.Width, viewport.Height)
	}

	resources, err := randr.GetScreenResources(conn, screen.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLayoutUnavailable, err)
	}

	primaryCrtc := primaryCrtcFor(conn, screen.Root)

	monitors := []Monitor{}
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, 0).Reply()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrLayoutUnavailable, err)
		}

		// Disabled CRTCs report zero size
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		monitors = append(monitors, Monitor{
			Width:   int(info.Width),
			Height:  int(info.Height),
			X:       int(info.X),
			Y:       int(info.Y),
			Primary: primaryCrtc != 0 && crtc == primaryCrtc,
		})
	}

	if len(monitors) == 0 {
		return nil, fmt.Errorf("%w: no active monitors", ErrLayoutUnavailable)
	}

	sortMonitors(monitors)
	return &DisplayLayout{Viewport: viewport, Monitors: monitors}, nil
}

// Best effort; 0 when there is no primary output configured
func primaryCrtcFor(conn *xgb.Conn, root xproto.Window) randr.Crtc {
	primary, err := randr.GetOutputPrimary(conn, root).Reply()
	if err != nil || primary.Output == 0 {
		return 0
	}

	info, err := randr.GetOutputInfo(conn, primary.Output, 0).Reply()
	if err != nil {
		return 0
	}
	return info.Crtc
}
