package ctdf

type Route struct {
	ID            int64         `json:"id" groups:"basic"`
	TransportType TransportType `json:"transport_type" groups:"basic"`
	Name          LocalizedName `json:"name" groups:"basic"`

	Directions []Direction `json:"directions" groups:"detailed"`
}

// Direction is one travel direction of a Route. Stops are in physical travel order and
// the same stop may appear more than once on loop routes.
type Direction struct {
	Index         int             `json:"index" groups:"basic"`
	TotalDistance float64         `json:"total_distance" groups:"basic"`
	Stops         []DirectionStop `json:"stops" groups:"detailed"`
}

type DirectionStop struct {
	StopID        int64 `json:"stop_id" groups:"basic"`
	SequenceIndex int   `json:"sequence_index" groups:"basic"`

	// OffsetDistance is the cumulative distance in meters from the start of the direction
	OffsetDistance float64 `json:"offset_distance" groups:"basic"`
}
