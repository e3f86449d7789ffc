package dataimporter

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/database"
	"github.com/travigo/journeyplanner/pkg/transitgraph"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "dataset",
		Usage: "Load and import the transit dataset",
		Subcommands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Upsert the JSON stop and route documents into MongoDB",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "stops",
						Usage: "Path or URL of the stop document, defaults to the configured one",
					},
					&cli.StringFlag{
						Name:  "routes",
						Usage: "Path or URL of the route document, defaults to the configured one",
					},
					&cli.StringFlag{
						Name:  "repeat-every",
						Usage: "Repeat the import every X (Go or ISO8601 duration)",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					log.Logger = cfg.Log.Logger(os.Stderr)

					stopsLocation := c.String("stops")
					if stopsLocation == "" {
						stopsLocation = cfg.Dataset.Stops
					}
					routesLocation := c.String("routes")
					if routesLocation == "" {
						routesLocation = cfg.Dataset.Routes
					}

					var repeatDuration time.Duration
					if repeatEvery := c.String("repeat-every"); repeatEvery != "" {
						if repeatDuration, err = config.ParseDuration(repeatEvery); err != nil {
							return err
						}
					}

					instance, err := database.Connect(c.Context, cfg.Dataset.MongoURI, cfg.Dataset.MongoDatabase)
					if err != nil {
						return err
					}
					defer instance.Disconnect(context.Background())

					for {
						startTime := time.Now()

						if err := Import(c.Context, instance, stopsLocation, routesLocation); err != nil {
							return err
						}

						if repeatDuration <= 0 {
							break
						}

						executionDuration := time.Since(startTime)
						log.Info().Dur("duration", executionDuration).Msg("Import finished")

						if waitTime := repeatDuration - executionDuration; waitTime > 0 {
							select {
							case <-c.Context.Done():
								return nil
							case <-time.After(waitTime):
							}
						}
					}

					return nil
				},
			},
			{
				Name:  "stats",
				Usage: "Load the configured dataset and print its size",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					log.Logger = cfg.Log.Logger(os.Stderr)

					dataset, err := Load(c.Context, cfg.Dataset, nil)
					if err != nil {
						return err
					}

					stats := transitgraph.New(dataset.Stops, dataset.Routes).Stats()

					log.Info().
						Int("stops", stats.Stops).
						Int("routes", stats.Routes).
						Int("directions", stats.Directions).
						Msg("Dataset")

					return nil
				},
			},
		},
	}
}

// Import reads both documents and upserts them into the stop and route collections
func Import(ctx context.Context, instance *database.MongoInstance, stopsLocation string, routesLocation string) error {
	dataset, err := LoadFiles(ctx, stopsLocation, routesLocation, nil)
	if err != nil {
		return err
	}

	stopsWritten, err := instance.UpsertStops(ctx, dataset.Stops)
	if err != nil {
		return errors.Wrap(err, "importing stops")
	}

	routesWritten, err := instance.UpsertRoutes(ctx, dataset.Routes)
	if err != nil {
		return errors.Wrap(err, "importing routes")
	}

	log.Info().
		Int("stops", len(dataset.Stops)).
		Int64("stops_written", stopsWritten).
		Int("routes", len(dataset.Routes)).
		Int64("routes_written", routesWritten).
		Msg("Imported dataset")

	return nil
}
