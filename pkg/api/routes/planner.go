package routes

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/geometry"
	"github.com/travigo/journeyplanner/pkg/ranker"
	"github.com/travigo/journeyplanner/pkg/util"
)

type planResponse struct {
	Itineraries []plannedItinerary              `json:"itineraries" groups:"basic"`
	Providers   []dataaggregator.ProviderStatus `json:"providers" groups:"basic"`
}

type plannedItinerary struct {
	Itinerary ctdf.Itinerary `json:"itinerary" groups:"basic"`

	// Geometry and Markers use the compact polyline codec
	Geometry string `json:"geometry" groups:"basic"`
	Markers  string `json:"markers,omitempty" groups:"basic"`

	EstimatedSeconds int    `json:"estimated_seconds" groups:"basic"`
	EstimatedTime    string `json:"estimated_time" groups:"basic"`
	Transfers        int    `json:"transfers" groups:"basic"`
}

func PlannerRouter(router fiber.Router, aggregator *dataaggregator.Aggregator) {
	router.Get("/local", func(c *fiber.Ctx) error {
		return getLocalPlan(c, aggregator)
	})
	router.Get("/trips", func(c *fiber.Ctx) error {
		return getTripPlan(c, aggregator)
	})
}

func getLocalPlan(c *fiber.Ctx, aggregator *dataaggregator.Aggregator) error {
	from := c.Query("from")
	to := c.Query("to")
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return badRequest(c, "Parameters from and to are required")
	}

	modes, err := ctdf.ParseModes(c.Query("modes"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	result := aggregator.PlanLocal(c.UserContext(), query.LocalPlan{
		From:  from,
		To:    to,
		Modes: modes,
	})

	return sendPlan(c, result)
}

func getTripPlan(c *fiber.Ctx, aggregator *dataaggregator.Aggregator) error {
	origin, err := ctdf.ParseLocation(c.Query("origin"))
	if err != nil {
		return badRequest(c, "Parameter origin: "+err.Error())
	}
	destination, err := ctdf.ParseLocation(c.Query("destination"))
	if err != nil {
		return badRequest(c, "Parameter destination: "+err.Error())
	}

	modes, err := ctdf.ParseModes(c.Query("modes"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	result := aggregator.PlanItineraries(c.UserContext(), query.ItineraryPlan{
		Origin:      origin,
		Destination: destination,
		Modes:       modes,
	})

	return sendPlan(c, result)
}

// sendPlan writes the plan as JSON, or one itinerary as GeoJSON with format=geojson&index=N
func sendPlan(c *fiber.Ctx, result *dataaggregator.PlanResult) error {
	if c.Query("format") == "geojson" {
		index, err := strconv.Atoi(c.Query("index", "0"))
		if err != nil || index < 0 {
			return badRequest(c, "Parameter index should be a non-negative integer")
		}
		if index >= len(result.Itineraries) {
			c.Status(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "No itinerary at this index",
			})
		}

		featureCollection, err := geometry.ToGeoJSON(result.Itineraries[index])
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(featureCollection)
	}

	response := planResponse{
		Itineraries: make([]plannedItinerary, 0, len(result.Itineraries)),
		Providers:   result.Providers,
	}

	for _, itinerary := range result.Itineraries {
		estimatedSeconds := int(math.Round(ranker.TotalSeconds(itinerary)))

		planned := plannedItinerary{
			Itinerary:        itinerary,
			Geometry:         geometry.Encode(itinerary),
			EstimatedSeconds: estimatedSeconds,
			EstimatedTime:    util.FormatDuration(estimatedSeconds),
			Transfers:        itinerary.Transfers(),
		}
		if len(itinerary.Markers) > 0 {
			planned.Markers = geometry.EncodeMarkers(itinerary.Markers)
		}

		response.Itineraries = append(response.Itineraries, planned)
	}

	return reduced(c, response)
}
