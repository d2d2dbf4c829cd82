package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/labdrive/internal/buildinfo"
	"github.com/dmitrijs2005/labdrive/internal/server"
	"github.com/dmitrijs2005/labdrive/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
