package ctdf

import (
	"strings"

	"github.com/pkg/errors"
)

type TransportType string

const (
	TransportTypeBus        TransportType = "Bus"
	TransportTypeTrolleybus TransportType = "Trolleybus"
	TransportTypeTram       TransportType = "Tram"
	TransportTypeMetro      TransportType = "Metro"
	TransportTypeWalk       TransportType = "Walk"
	TransportTypeUnknown    TransportType = "UNKNOWN"
)

// TransportTypeFromDatasetID maps the numeric route type used by the bundled city dataset
func TransportTypeFromDatasetID(typeID int) TransportType {
	switch typeID {
	case 0:
		return TransportTypeBus
	case 1:
		return TransportTypeTrolleybus
	case 2:
		return TransportTypeMetro
	case 3:
		return TransportTypeTram
	default:
		return TransportTypeUnknown
	}
}

// ParseTransportType accepts the lowercase mode names used on the API surface and by providers
func ParseTransportType(mode string) TransportType {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "bus":
		return TransportTypeBus
	case "trolleybus", "trol", "trolley":
		return TransportTypeTrolleybus
	case "tram":
		return TransportTypeTram
	case "metro", "subway":
		return TransportTypeMetro
	case "walk", "pedestrian", "walkway":
		return TransportTypeWalk
	default:
		return TransportTypeUnknown
	}
}

// ParseModes reads a comma separated list of vehicle modes. An empty list means every mode.
func ParseModes(raw string) ([]TransportType, error) {
	var modes []TransportType

	for _, mode := range strings.Split(raw, ",") {
		if strings.TrimSpace(mode) == "" {
			continue
		}

		transportType := ParseTransportType(mode)
		if transportType == TransportTypeUnknown || transportType == TransportTypeWalk {
			return nil, errors.Errorf("unsupported mode %q", mode)
		}
		modes = append(modes, transportType)
	}

	return modes, nil
}
