package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/lanshare/internal/buildinfo"
	"github.com/dmitrijs2005/lanshare/internal/cli"
	"github.com/dmitrijs2005/lanshare/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stderr)

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
