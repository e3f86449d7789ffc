package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/api"
	"github.com/travigo/journeyplanner/pkg/dataimporter"
	"github.com/travigo/journeyplanner/pkg/planner"
	"github.com/urfave/cli/v2"
)

func main() {
	if os.Getenv("JOURNEYPLANNER_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if os.Getenv("JOURNEYPLANNER_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "journeyplanner",
		Description: "Plans public transport trips over the city dataset and third party planners",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML config file",
				EnvVars: []string{"JOURNEYPLANNER_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			api.RegisterCLI(),
			dataimporter.RegisterCLI(),
			planner.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
