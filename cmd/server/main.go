package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/lanshare/internal/app"
	"github.com/dmitrijs2005/lanshare/internal/buildinfo"
	"github.com/dmitrijs2005/lanshare/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
