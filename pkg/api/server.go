package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/journeyplanner/pkg/api/routes"
	"github.com/travigo/journeyplanner/pkg/dataaggregator"
)

func NewApp(aggregator *dataaggregator.Aggregator) *fiber.App {
	webApp := fiber.New(fiber.Config{
		AppName:               "journeyplanner",
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StopsRouter(group.Group("/stops"), aggregator)
	routes.RoutesRouter(group.Group("/routes"), aggregator)
	routes.PlannerRouter(group.Group("/planner"), aggregator)

	return webApp
}

func SetupServer(listen string, aggregator *dataaggregator.Aggregator) error {
	return NewApp(aggregator).Listen(listen)
}
