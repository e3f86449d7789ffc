package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
)

func RoutesRouter(router fiber.Router, aggregator *dataaggregator.Aggregator) {
	router.Get("/", func(c *fiber.Ctx) error {
		transportType := c.Query("type")
		if transportType != "" && ctdf.ParseTransportType(transportType) == ctdf.TransportTypeUnknown {
			return badRequest(c, "Parameter type should be one of bus, trolleybus, tram, metro")
		}

		routes, err := dataaggregator.Lookup[[]*ctdf.Route](c.UserContext(), aggregator, query.Routes{
			TransportType: transportType,
		})
		if err != nil {
			c.Status(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		if routes == nil {
			routes = []*ctdf.Route{}
		}

		return reduced(c, routes)
	})
}
