package copiclib

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/awused/go-strpick/persistent"
)

type DaemonOptions struct {
	Directory AbsolutePath
	Recursive bool
	Mode      FitMode
	// How often a new wallpaper is composed
	RotationInterval time.Duration
	// How often the loop wakes up to check the timer, the monitor
	// configuration, and the command queue. Bounds responsiveness.
	PollInterval time.Duration
}

// Daemon owns the rotation loop. All state below is touched only from Run's
// goroutine; the command queue is the only thing shared with the listener.
type Daemon struct {
	conf   *Config
	opts   DaemonOptions
	queue  *CommandQueue
	picker Picker

	queryLayout func() (*DisplayLayout, error)
	selectPaths func(n int) ([]AbsolutePath, error)
	render      func(*DisplayLayout, []AbsolutePath) error
	now         func() time.Time

	paused      bool
	forceNext   bool
	lastApplied time.Time
	lastSeen    *DisplayLayout
}

func NewDaemon(
	c *Config, opts DaemonOptions, queue *CommandQueue) (*Daemon, error) {

	d := &Daemon{
		conf:        c,
		opts:        opts,
		queue:       queue,
		queryLayout: GetLayout,
		now:         time.Now,
	}
	d.selectPaths = d.selectImages
	d.render = d.renderAndApply

	if c.DatabaseDir != "" {
		p, err := persistent.NewPicker(c.DatabaseDir)
		if err != nil {
			return nil, err
		}
		d.picker = p
	}

	return d, nil
}

func (d *Daemon) Close() error {
	if d.picker != nil {
		return d.picker.Close()
	}
	return nil
}

// Run drives the loop until stop is closed. The first poll composes
// immediately so a fresh daemon doesn't sit on a stale desktop for a full
// rotation interval.
func (d *Daemon) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(d.opts.PollInterval)
	defer ticker.Stop()

	d.poll()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		d.poll()
	}
}

// One wakeup: consume pending commands, then decide whether this cycle
// composes. Failures anywhere in the pipeline are logged and retried
// naturally on a later poll, they never kill the daemon.
func (d *Daemon) poll() {
	for {
		cmd, ok := d.queue.TryPop()
		if !ok {
			break
		}
		d.handleCommand(cmd)
	}

	layout, err := d.queryLayout()
	if err != nil {
		log.Printf("Layout query failed: %v", err)
		return
	}

	// The original scripts only ever compared monitor count here, geometry
	// changes at constant count wait for the next scheduled rotation
	changed := d.lastSeen != nil &&
		len(layout.Monitors) != len(d.lastSeen.Monitors)
	due := d.now().Sub(d.lastApplied) >= d.opts.RotationInterval

	// pause masks the timer, not configuration changes or an explicit next
	if !changed && !d.forceNext && (d.paused || !due) {
		return
	}

	if err = d.composeOnce(layout); err != nil {
		log.Printf("Skipping rotation: %v", err)
		return
	}

	d.forceNext = false
	d.lastApplied = d.now()
	d.lastSeen = layout
}

func (d *Daemon) composeOnce(layout *DisplayLayout) error {
	paths, err := d.selectPaths(len(layout.Monitors))
	if err != nil {
		return err
	}
	return d.render(layout, paths)
}

func (d *Daemon) handleCommand(cmd Command) {
	switch strings.ToLower(strings.TrimSpace(cmd)) {
	case "pause":
		d.paused = true
		log.Println("Rotation paused")
	case "resume":
		d.paused = false
		log.Println("Rotation resumed")
	case "next":
		d.forceNext = true
	case "status":
		d.logStatus()
	default:
		log.Printf("Ignoring unrecognized command %q", cmd)
	}
}

func (d *Daemon) logStatus() {
	state := "running"
	if d.paused {
		state = "paused"
	}

	if d.lastApplied.IsZero() {
		log.Printf("Daemon %s, no wallpaper applied yet", state)
		return
	}
	log.Printf(
		"Daemon %s, %d monitors, last wallpaper applied %s",
		state, len(d.lastSeen.Monitors),
		d.lastApplied.Format(time.RFC3339))
}

func (d *Daemon) selectImages(n int) ([]AbsolutePath, error) {
	files, err := ListImages(
		d.opts.Directory, d.opts.Recursive, d.conf.ImageFileExtensions)
	if err != nil {
		return nil, err
	}

	var drawn []RelativePath
	if d.picker != nil {
		drawn, err = DrawPersistent(d.picker, files, n)
		if err != nil {
			return nil, err
		}
	} else {
		drawn = DrawUniform(files, n)
	}

	paths := make([]AbsolutePath, len(drawn))
	for i, rel := range drawn {
		paths[i], err = filepath.Abs(filepath.Join(d.opts.Directory, rel))
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func (d *Daemon) renderAndApply(
	layout *DisplayLayout, paths []AbsolutePath) error {

	paired, err := PairByAspect(layout, paths)
	if err != nil {
		return err
	}

	images, err := LoadImages(paired)
	if err != nil {
		return err
	}

	canvas, err := Compose(layout, images, d.opts.Mode)
	if err != nil {
		return err
	}

	out, err := WriteWallpaper(d.conf, canvas)
	if err != nil {
		return err
	}

	return ApplyWallpaper(d.conf, out)
}
