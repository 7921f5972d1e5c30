package main

import (
	"log"
	"os"

	lib "github.com/ccrippey/copic/lib"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "copic"
	app.Usage = "Compose per-monitor images into one spanned wallpaper"
	app.Commands = []*cli.Command{
		setCommand(),
		daemonCommand(),
		ctlCommand(),
	}

	err := app.Run(os.Args)
	checkErr(err)
}

// Only init when necessary; ctl talks to the socket and needs no config
func beforeFunc(ctxt *cli.Context) error {
	c, err := lib.Init()
	checkErr(err)

	if c.LogFile != "" {
		f, err := os.OpenFile(
			c.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("Error opening log file: %v", err)
		}

		log.SetOutput(f)
	}
	return nil
}

func checkErr(err error) {
	if err != nil {
		log.Println(err)
		panic(err)
	}
}
