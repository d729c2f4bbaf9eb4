package gtfs

type TripField int

const (
	TripFieldNonstandard TripField = iota
	TripFieldRouteID
	TripFieldServiceID
	TripFieldID
	TripFieldHeadsign
	TripFieldShortName
	TripFieldDirectionID
	TripFieldBlockID
	TripFieldShapeID
	TripFieldWheelchairAccessible
	TripFieldBikesAllowed
)

var tripColumns = []string{
	TripFieldNonstandard:          "nonstandard",
	TripFieldRouteID:              "route_id",
	TripFieldServiceID:            "service_id",
	TripFieldID:                   "trip_id",
	TripFieldHeadsign:             "trip_headsign",
	TripFieldShortName:            "trip_short_name",
	TripFieldDirectionID:          "direction_id",
	TripFieldBlockID:              "block_id",
	TripFieldShapeID:              "shape_id",
	TripFieldWheelchairAccessible: "wheelchair_accessible",
	TripFieldBikesAllowed:         "bikes_allowed",
}

func (f TripField) String() string {
	return columnName(tripColumns, int(f))
}

// Trip is one row of trips.txt. RouteID and ServiceID refer to routes.txt
// and calendar(_dates).txt by value only.
type Trip struct {
	Identity

	RouteID              string
	ServiceID            string
	ID                   string
	Headsign             *string
	ShortName            *string
	DirectionID          *uint
	BlockID              *string
	ShapeID              *string
	WheelchairAccessible *uint
	BikesAllowed         *uint
}

var tripSchema = newSchema(TripsFile, tripColumns,
	[]TripField{TripFieldRouteID, TripFieldServiceID, TripFieldID},
	map[TripField]binder[Trip]{
		TripFieldRouteID:              requiredString(func(t *Trip) *string { return &t.RouteID }),
		TripFieldServiceID:            requiredString(func(t *Trip) *string { return &t.ServiceID }),
		TripFieldID:                   requiredString(func(t *Trip) *string { return &t.ID }),
		TripFieldHeadsign:             optionalString(func(t *Trip) **string { return &t.Headsign }),
		TripFieldShortName:            optionalString(func(t *Trip) **string { return &t.ShortName }),
		TripFieldDirectionID:          optionalUint(func(t *Trip) **uint { return &t.DirectionID }),
		TripFieldBlockID:              optionalString(func(t *Trip) **string { return &t.BlockID }),
		TripFieldShapeID:              optionalString(func(t *Trip) **string { return &t.ShapeID }),
		TripFieldWheelchairAccessible: optionalUint(func(t *Trip) **uint { return &t.WheelchairAccessible }),
		TripFieldBikesAllowed:         optionalUint(func(t *Trip) **uint { return &t.BikesAllowed }),
	},
)

// DecodeTrips decodes the contents of trips.txt.
func DecodeTrips(text string, opts DecodeOptions) (*Trips, error) {
	return decodeTable(tripSchema, text, &bindContext{}, opts)
}
