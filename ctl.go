package main

import (
	"fmt"
	"net"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	lib "github.com/ccrippey/copic/lib"
	"github.com/urfave/cli/v2"
)

func ctlCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "ctl"
	cmd.Usage = "Send control commands to a running daemon"
	cmd.ArgsUsage = "[COMMAND]"
	cmd.Description = "With no arguments an interactive prompt is opened. " +
		"Commands are sent as-is and the daemon logs anything it doesn't " +
		"recognize; there is never a response."
	cmd.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    port,
			Aliases: []string{"p"},
			Value:   lib.DefaultPort,
			Usage:   "Port the daemon is listening on",
		},
	}

	cmd.Action = ctlAction

	return cmd
}

func ctlAction(c *cli.Context) error {
	addr := fmt.Sprintf("localhost:%d", c.Int(port))

	if c.NArg() > 0 {
		return sendCommand(addr, strings.Join(c.Args().Slice(), " "))
	}

	for {
		in := strings.TrimSpace(prompt.Input("> ", ctlCompleter))
		if in == "" {
			continue
		}
		if in == "exit" {
			return nil
		}

		if err := sendCommand(addr, in); err != nil {
			fmt.Printf("Failed to send %q: %v\n", in, err)
		}
	}
}

// Connect, send the UTF-8 bytes, close
func sendCommand(addr, command string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Write([]byte(command))
	return err
}

func ctlCompleter(d prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{
		{Text: "pause", Description: "Suspend timed rotation"},
		{Text: "resume", Description: "Resume timed rotation"},
		{Text: "next", Description: "Rotate to a new wallpaper now"},
		{Text: "status", Description: "Log daemon status"},
		{Text: "exit", Description: "Exit this prompt"},
	}
	return prompt.FilterHasPrefix(s, d.TextBeforeCursor(), true)
}
