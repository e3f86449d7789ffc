package api

import (
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/global"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the journey planner web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen target for the web server, defaults to the configured one",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					listen := cfg.Server.Listen
					if c.String("listen") != "" {
						listen = c.String("listen")
					}

					aggregator, err := global.Setup(c.Context, cfg)
					if err != nil {
						return err
					}

					return SetupServer(listen, aggregator)
				},
			},
		},
	}
}
