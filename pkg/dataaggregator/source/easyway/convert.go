package easyway

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/geo"
	"github.com/travigo/journeyplanner/pkg/util"
)

// routeBlock is a usable "route" detail of a way
type routeBlock struct {
	routeID       int64
	startPosition string
	stopPosition  string
	detail        wayDetail
}

type decodedWay struct {
	first  *wayDetail
	last   *wayDetail
	blocks []routeBlock
}

// decodeDetails keeps route blocks only when they carry a numeric id and both positions,
// so the ids, starts and stops sent for geometry stay parallel
func decodeDetails(raw []json.RawMessage) decodedWay {
	var decoded decodedWay

	for index, rawDetail := range raw {
		var detail wayDetail
		if err := json.Unmarshal(rawDetail, &detail); err != nil {
			log.Debug().Err(err).Str("source", SourceName).Int("detail", index).Msg("Skipping malformed way detail")
			continue
		}

		switch detail.Type {
		case detailFirst:
			if decoded.first == nil {
				d := detail
				decoded.first = &d
			}
		case detailLast:
			d := detail
			decoded.last = &d
		case detailRoute:
			routeID, err := strconv.ParseInt(string(detail.ID), 10, 64)
			if err != nil || detail.StartPosition == "" || detail.StopPosition == "" {
				log.Debug().Str("source", SourceName).Str("id", string(detail.ID)).Msg("Skipping incomplete route block")
				continue
			}

			decoded.blocks = append(decoded.blocks, routeBlock{
				routeID:       routeID,
				startPosition: string(detail.StartPosition),
				stopPosition:  string(detail.StopPosition),
				detail:        detail,
			})
		}
	}

	return decoded
}

// resolveWay fetches the geometry of one way. It returns nil without an error for degenerate ways.
func (s Source) resolveWay(ctx context.Context, compiledWay way, origin ctdf.Location, destination ctdf.Location) (*ctdf.Itinerary, error) {
	details := decodeDetails(compiledWay.WayDetails)
	if len(details.blocks) == 0 {
		return nil, nil
	}

	groups, err := s.compileRoute(ctx, details.blocks, origin, destination)
	if err != nil {
		return nil, err
	}

	return convertWay(compiledWay, details, groups, origin, destination), nil
}

func convertWay(compiledWay way, details decodedWay, groups []routePoints, origin ctdf.Location, destination ctdf.Location) *ctdf.Itinerary {
	var rides []ctdf.Leg
	var markers []ctdf.Location
	usedBlocks := make([]bool, len(details.blocks))

	for groupIndex, group := range groups {
		var points []ctdf.Location
		for _, rawPoint := range group.CompilePoints {
			var point compilePoint
			if err := json.Unmarshal(rawPoint, &point); err != nil {
				continue
			}

			location := geo.DecodeFixedPoint1e6(point.X, point.Y)
			points = append(points, location)
			if point.I != nil {
				markers = append(markers, location)
			}
		}

		if len(points) < 2 {
			continue
		}

		leg := ctdf.Leg{
			Type:          ctdf.LegTypeRide,
			RouteID:       int64(group.RouteID),
			RouteName:     string(group.RouteNumber),
			TransportType: ctdf.ParseTransportType(string(group.TransportType)),
			Points:        points,
		}

		if blockIndex := matchBlock(details.blocks, usedBlocks, int64(group.RouteID), groupIndex); blockIndex >= 0 {
			usedBlocks[blockIndex] = true
			block := details.blocks[blockIndex]

			leg.RouteID = block.routeID
			leg.DistanceMeters = float64(block.detail.Length)
			leg.DurationSeconds = seconds(block.detail.Time)
			if block.detail.Route != "" {
				leg.RouteName = string(block.detail.Route)
			}
			if block.detail.RouteType != "" {
				leg.TransportType = ctdf.ParseTransportType(string(block.detail.RouteType))
			}
		}

		rides = append(rides, leg)
	}

	if len(rides) == 0 {
		return nil
	}

	itinerary := &ctdf.Itinerary{
		Source:  SourceName,
		Markers: util.RemoveDuplicates(markers),
	}

	for _, block := range details.blocks {
		if block.detail.Route != "" {
			itinerary.RouteNumbers = append(itinerary.RouteNumbers, string(block.detail.Route))
		}
	}
	itinerary.RouteNumbers = util.RemoveDuplicates(itinerary.RouteNumbers)

	if details.first != nil {
		start := origin
		end := rides[0].Points[0]
		itinerary.Legs = append(itinerary.Legs, ctdf.NewWalkLeg(float64(details.first.Length), seconds(details.first.Time), &start, &end))
	}

	itinerary.Legs = append(itinerary.Legs, rides...)

	if details.last != nil {
		lastRide := rides[len(rides)-1]
		start := lastRide.Points[len(lastRide.Points)-1]
		end := destination
		itinerary.Legs = append(itinerary.Legs, ctdf.NewWalkLeg(float64(details.last.Length), seconds(details.last.Time), &start, &end))
	}

	// way totals win, leg sums only stand in when they are missing
	if compiledWay.WayTime > 0 {
		itinerary.TotalDurationSeconds = seconds(compiledWay.WayTime * 60)
	} else {
		for _, leg := range itinerary.Legs {
			itinerary.TotalDurationSeconds += leg.DurationSeconds
		}
	}

	if compiledWay.TravelLength > 0 {
		itinerary.TotalDistanceMeters = float64(compiledWay.TravelLength) * 1000
	} else {
		for _, leg := range rides {
			itinerary.TotalDistanceMeters += leg.DistanceMeters
		}
	}

	return itinerary
}

// matchBlock finds the unused route block for a geometry group, by route id first and then by position
func matchBlock(blocks []routeBlock, used []bool, routeID int64, groupIndex int) int {
	for i, block := range blocks {
		if !used[i] && block.routeID == routeID {
			return i
		}
	}

	if groupIndex < len(blocks) && !used[groupIndex] {
		return groupIndex
	}
	return -1
}

func seconds(value number) int {
	if value <= 0 {
		return 0
	}
	return int(math.Round(float64(value)))
}
