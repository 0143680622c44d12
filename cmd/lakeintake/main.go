package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	// Optional .env at the working directory, matching how the service is
	// run in development.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "lakeintake",
		Usage: "Document intake form that pushes supplier PDFs into SmartSuite",
		Commands: []*cli.Command{
			serveCommand,
			configCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
