package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	lib "github.com/ccrippey/copic/lib"
	"github.com/urfave/cli/v2"
)

const interval = "interval"
const poll = "poll"
const port = "port"

func daemonCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "daemon"
	cmd.Usage = "Rotate wallpapers on a timer and react to monitor changes"
	cmd.Description = "Also listens for ctl commands on a local TCP port. " +
		"Runs until SIGINT or SIGTERM."
	cmd.Before = beforeFunc
	cmd.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    directory,
			Aliases: []string{"d"},
			Usage:   "Directory to draw wallpapers from",
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
		&cli.DurationFlag{
			Name:    interval,
			Aliases: []string{"i"},
			Value:   15 * time.Minute,
			Usage:   "Time between automatic wallpaper changes",
		},
		&cli.DurationFlag{
			Name:  poll,
			Value: 2 * time.Second,
			Usage: "How often to check the timer, monitors and command queue",
		},
		&cli.IntFlag{
			Name:    port,
			Aliases: []string{"p"},
			Usage:   "Command channel port, overriding the config",
		},
	}

	cmd.Action = daemonAction

	return cmd
}

func daemonAction(c *cli.Context) error {
	conf, err := lib.GetConfig()
	checkErr(err)

	mode, err := lib.ParseFitMode(c.String(fit))
	checkErr(err)

	dir := c.String(directory)
	if dir == "" {
		dir = conf.WallpaperDirectory
	}
	if dir == "" {
		checkErr(errors.New(
			"No --directory given and no WallpaperDirectory configured"))
	}

	p := c.Int(port)
	if p == 0 {
		p = conf.Port
	}

	queue := &lib.CommandQueue{}
	listener := &lib.Listener{
		Addr:  fmt.Sprintf("localhost:%d", p),
		Queue: queue,
	}
	err = listener.Listen()
	checkErr(err)

	d, err := lib.NewDaemon(conf, lib.DaemonOptions{
		Directory:        dir,
		Recursive:        c.Bool(recursive),
		Mode:             mode,
		RotationInterval: c.Duration(interval),
		PollInterval:     c.Duration(poll),
	}, queue)
	checkErr(err)
	defer d.Close()

	stop := make(chan struct{})
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		close(stop)
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		listener.Run(stop)
	}()

	log.Printf("Rotating wallpapers from [%s] every %s, listening on %s",
		dir, c.Duration(interval), listener.ListenAddr())
	d.Run(stop)
	wg.Wait()
	return nil
}
