package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
)

func StopsRouter(router fiber.Router, aggregator *dataaggregator.Aggregator) {
	router.Get("/", func(c *fiber.Ctx) error {
		return listStops(c, aggregator)
	})
}

// listStops searches stop names with q. Without q it browses the first stops, or all of
// them with all=true.
func listStops(c *fiber.Ctx, aggregator *dataaggregator.Aggregator) error {
	stops, err := dataaggregator.Lookup[[]*ctdf.Stop](c.UserContext(), aggregator, query.Stop{
		Text:      c.Query("q"),
		Unbounded: c.QueryBool("all"),
	})
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if stops == nil {
		stops = []*ctdf.Stop{}
	}

	return reduced(c, stops)
}
