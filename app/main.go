package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func init() {
	// .env is optional, real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file loaded, using process environment")
	}
}

func main() {
	app := &cli.App{
		Name:  "market-front",
		Usage: "viewer facing marketplace front service",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the viewer facing http server",
				Action: serve,
			},
			{
				Name:   "devbackend",
				Usage:  "start a local marketplace backend on gorm",
				Action: runDevBackend,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		logrus.Fatalf("market-front: %v", err)
	}
}
