package main

import (
	"context"
	"log"
	"os"

	"github.com/sunshin3/invoicepro/internal/buildinfo"
	"github.com/sunshin3/invoicepro/internal/server"
	"github.com/sunshin3/invoicepro/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
