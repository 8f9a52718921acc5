package main

import (
	"context"
	"log"
	"os"

	"github.com/sunshin3/invoicepro/internal/buildinfo"
	"github.com/sunshin3/invoicepro/internal/cli"
	"github.com/sunshin3/invoicepro/internal/flagx"
	"github.com/sunshin3/invoicepro/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stderr)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	// everything that is not a recognized flag is the subcommand
	args := flagx.NonFlagArgs(os.Args[1:])
	if err := app.Run(ctx, args); err != nil {
		log.Fatalf("%v", err)
	}

}
