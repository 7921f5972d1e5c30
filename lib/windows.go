//go:build windows

package copiclib

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows/registry"
)

const desktopWallpaperCLSID = "{C2CF3110-460E-4fc1-B9D0-8A1C0C9CC4BD}"
const desktopWallpaperIID = "{B92B56A9-8B55-4E14-9A89-0199BBB6F93B}"

// IDesktopWallpaper isn't dispatch-based, so the vtable is laid out by hand
type iDesktopWallpaperVtbl struct {
	QueryInterface            uintptr
	AddRef                    uintptr
	Release                   uintptr
	SetWallpaper              uintptr
	GetWallpaper              uintptr
	GetMonitorDevicePathAt    uintptr
	GetMonitorDevicePathCount uintptr
	GetMonitorRECT            uintptr
	SetBackgroundColor        uintptr
	GetBackgroundColor        uintptr
	SetPosition               uintptr
	GetPosition               uintptr
	SetSlideshow              uintptr
	GetSlideshow              uintptr
	SetSlideshowOptions       uintptr
	GetSlideshowOptions       uintptr
	AdvanceSlideshow          uintptr
	GetStatus                 uintptr
	Enable                    uintptr
}

// DWPOS_SPAN
const positionSpan = 5

type winRect struct {
	left   int32
	top    int32
	right  int32
	bottom int32
}

var modole32 = syscall.NewLazyDLL("ole32.dll")
var coTaskMemFree = modole32.NewProc("CoTaskMemFree")

func withDesktopWallpaper(
	f func(desktop *ole.IUnknown, vtable *iDesktopWallpaperVtbl) error) error {

	ole.CoInitialize(0)
	defer ole.CoUninitialize()

	desktop, err := ole.CreateInstance(
		ole.NewGUID(desktopWallpaperCLSID), ole.NewGUID(desktopWallpaperIID))
	if err != nil {
		return err
	}
	defer desktop.Release()

	vtable := (*iDesktopWallpaperVtbl)(unsafe.Pointer(desktop.RawVTable))
	return f(desktop, vtable)
}

// GetLayout takes a fresh snapshot of the virtual desktop through
// IDesktopWallpaper. Offsets are shifted so the leftmost/topmost monitor
// sits at (0, 0); Windows puts the primary monitor at the origin of the
// unshifted coordinate space.
func GetLayout() (*DisplayLayout, error) {
	var monitors []Monitor
	primaryIdx := -1

	err := withDesktopWallpaper(func(
		desktop *ole.IUnknown, vtable *iDesktopWallpaperVtbl) error {

		var count uint32
		hr, _, _ := syscall.Syscall(
			vtable.GetMonitorDevicePathCount,
			2,
			uintptr(unsafe.Pointer(desktop)),
			uintptr(unsafe.Pointer(&count)),
			0)
		if hr != 0 {
			return fmt.Errorf(
				"Unexpected value from GetMonitorDevicePathCount %d", hr)
		}

		for i := uint32(0); i < count; i++ {
			var pathOut uintptr

			hr, _, _ = syscall.Syscall(
				vtable.GetMonitorDevicePathAt,
				3,
				uintptr(unsafe.Pointer(desktop)),
				uintptr(i),
				uintptr(unsafe.Pointer(&pathOut)))
			if hr != 0 {
				return fmt.Errorf(
					"Unexpected value from GetMonitorDevicePathAt %d", hr)
			}

			r := winRect{}
			hr, _, _ = syscall.Syscall(
				vtable.GetMonitorRECT,
				3,
				uintptr(unsafe.Pointer(desktop)),
				pathOut,
				uintptr(unsafe.Pointer(&r)))

			_, _, _ = syscall.Syscall(coTaskMemFree.Addr(), 1, pathOut, 0, 0)

			// GetMonitorRECT fails for device paths that are known but no
			// longer attached, skip those
			if hr != 0 {
				continue
			}

			if r.left == 0 && r.top == 0 {
				primaryIdx = len(monitors)
			}
			monitors = append(monitors, Monitor{
				Width:  int(r.right - r.left),
				Height: int(r.bottom - r.top),
				X:      int(r.left),
				Y:      int(r.top),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLayoutUnavailable, err)
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("%w: no attached monitors", ErrLayoutUnavailable)
	}

	if primaryIdx >= 0 {
		monitors[primaryIdx].Primary = true
	}

	minX, minY := monitors[0].X, monitors[0].Y
	for _, m := range monitors[1:] {
		if m.X < minX {
			minX = m.X
		}
		if m.Y < minY {
			minY = m.Y
		}
	}

	viewport := Viewport{}
	for i := range monitors {
		monitors[i].X -= minX
		monitors[i].Y -= minY
		if monitors[i].X+monitors[i].Width > viewport.Width {
			viewport.Width = monitors[i].X + monitors[i].Width
		}
		if monitors[i].Y+monitors[i].Height > viewport.Height {
			viewport.Height = monitors[i].Y + monitors[i].Height
		}
	}

	sortMonitors(monitors)
	return &DisplayLayout{Viewport: viewport, Monitors: monitors}, nil
}

// ApplyWallpaper spans the rendered file across every monitor
func ApplyWallpaper(c *Config, wallpaper AbsolutePath) error {
	if err := setSpanStyle(); err != nil {
		return fmt.Errorf("%w: %s", ErrApply, err)
	}

	err := withDesktopWallpaper(func(
		desktop *ole.IUnknown, vtable *iDesktopWallpaperVtbl) error {

		hr, _, _ := syscall.Syscall(
			vtable.SetPosition,
			2,
			uintptr(unsafe.Pointer(desktop)),
			uintptr(positionSpan),
			0)
		if hr != 0 {
			return fmt.Errorf("Unexpected value from SetPosition %d", hr)
		}

		hr, _, _ = syscall.Syscall(
			vtable.SetWallpaper,
			3,
			uintptr(unsafe.Pointer(desktop)),
			0,
			uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(wallpaper))))
		if hr != 0 {
			return fmt.Errorf("Unexpected value from SetWallpaper %d", hr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrApply, err)
	}

	removeStaleOutputs(c, wallpaper)
	return nil
}

// The legacy style keys still win over the COM position on some builds
func setSpanStyle() error {
	k, err := registry.OpenKey(
		registry.CURRENT_USER, `Control Panel\Desktop`, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	if err = k.SetStringValue("WallpaperStyle", "22"); err != nil {
		return err
	}
	return k.SetStringValue("TileWallpaper", "0")
}

// Previous output files are useless once a new wallpaper is live
func removeStaleOutputs(c *Config, current AbsolutePath) {
	matches, err := filepath.Glob(filepath.Join(c.OutputDir, "copic-*.png"))
	if err != nil {
		return
	}

	for _, m := range matches {
		if abs, err := filepath.Abs(m); err == nil && abs != current {
			_ = os.Remove(abs)
		}
	}
}
