package planner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/global"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/geometry"
	"github.com/urfave/cli/v2"
)

var outputFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "modes",
		Usage: "comma separated vehicle modes (bus, trolleybus, tram, metro)",
	},
	&cli.BoolFlag{
		Name:  "pretty",
		Usage: "print the plan as a Go value instead of JSON",
	},
	&cli.BoolFlag{
		Name:  "geojson",
		Usage: "print the best itinerary as GeoJSON",
	},
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Plan a trip from the command line",
		Subcommands: []*cli.Command{
			{
				Name:  "local",
				Usage: "plan between two stop names over the transit dataset",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "from", Required: true},
					&cli.StringFlag{Name: "to", Required: true},
				}, outputFlags...),
				Action: func(c *cli.Context) error {
					modes, err := ctdf.ParseModes(c.String("modes"))
					if err != nil {
						return err
					}

					aggregator, err := setup(c)
					if err != nil {
						return err
					}

					result := aggregator.PlanLocal(c.Context, query.LocalPlan{
						From:  c.String("from"),
						To:    c.String("to"),
						Modes: modes,
					})

					return Print(os.Stdout, result, c.Bool("pretty"), c.Bool("geojson"))
				},
			},
			{
				Name:  "trips",
				Usage: "plan between two coordinates with every enabled source",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "origin", Usage: "lat,lon", Required: true},
					&cli.StringFlag{Name: "destination", Usage: "lat,lon", Required: true},
				}, outputFlags...),
				Action: func(c *cli.Context) error {
					origin, err := ctdf.ParseLocation(c.String("origin"))
					if err != nil {
						return err
					}
					destination, err := ctdf.ParseLocation(c.String("destination"))
					if err != nil {
						return err
					}
					modes, err := ctdf.ParseModes(c.String("modes"))
					if err != nil {
						return err
					}

					aggregator, err := setup(c)
					if err != nil {
						return err
					}

					result := aggregator.PlanItineraries(c.Context, query.ItineraryPlan{
						Origin:      origin,
						Destination: destination,
						Modes:       modes,
					})

					return Print(os.Stdout, result, c.Bool("pretty"), c.Bool("geojson"))
				},
			},
		},
	}
}

func setup(c *cli.Context) (*dataaggregator.Aggregator, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	return global.Setup(c.Context, cfg)
}

// Print writes the plan result as indented JSON, as a pretty printed Go value, or the best
// itinerary as GeoJSON
func Print(w io.Writer, result *dataaggregator.PlanResult, asGoValue bool, asGeoJSON bool) error {
	switch {
	case asGeoJSON:
		if len(result.Itineraries) == 0 {
			return errors.New("no itineraries found")
		}

		featureCollection, err := geometry.ToGeoJSON(result.Itineraries[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(featureCollection))
		return err
	case asGoValue:
		_, err := pretty.Fprintf(w, "%# v\n", result)
		return err
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}
}
