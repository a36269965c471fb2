package main

import (
	"context"
	"log"
	"os"

	"github.com/zipboard/zipboard/internal/buildinfo"
	"github.com/zipboard/zipboard/internal/cli"
	"github.com/zipboard/zipboard/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	defer func() {
		if err := app.Close(ctx); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
