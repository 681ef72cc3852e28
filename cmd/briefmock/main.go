package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

const version = "1.1.0"

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "briefmock",
		Usage:   "Person.ai briefing mock services and check dispatcher",
		Suggest: true,
		Version: version,
		Commands: []*cli.Command{
			serveCommand(),
			dispatchCommand(),
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
