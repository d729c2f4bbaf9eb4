package gtfs

import (
	"time"
)

type StopTimeField int

const (
	StopTimeFieldNonstandard StopTimeField = iota
	StopTimeFieldTripID
	StopTimeFieldArrivalTime
	StopTimeFieldDepartureTime
	StopTimeFieldStopID
	StopTimeFieldStopSequence
	StopTimeFieldStopHeadsign
	StopTimeFieldPickupType
	StopTimeFieldDropOffType
	StopTimeFieldContinuousPickup
	StopTimeFieldContinuousDropOff
	StopTimeFieldShapeDistTraveled
	StopTimeFieldTimepoint
)

var stopTimeColumns = []string{
	StopTimeFieldNonstandard:       "nonstandard",
	StopTimeFieldTripID:            "trip_id",
	StopTimeFieldArrivalTime:       "arrival_time",
	StopTimeFieldDepartureTime:     "departure_time",
	StopTimeFieldStopID:            "stop_id",
	StopTimeFieldStopSequence:      "stop_sequence",
	StopTimeFieldStopHeadsign:      "stop_headsign",
	StopTimeFieldPickupType:        "pickup_type",
	StopTimeFieldDropOffType:       "drop_off_type",
	StopTimeFieldContinuousPickup:  "continuous_pickup",
	StopTimeFieldContinuousDropOff: "continuous_drop_off",
	StopTimeFieldShapeDistTraveled: "shape_dist_traveled",
	StopTimeFieldTimepoint:         "timepoint",
}

func (f StopTimeField) String() string {
	return columnName(stopTimeColumns, int(f))
}

// StopTime is one row of stop_times.txt. Arrival and departure are on the
// reference date in the feed time zone; times past midnight of the service
// day fall on the following days.
type StopTime struct {
	Identity

	TripID            string
	ArrivalTime       *time.Time
	DepartureTime     *time.Time
	StopID            string
	StopSequence      uint
	StopHeadsign      *string
	PickupType        *uint
	DropOffType       *uint
	ContinuousPickup  *uint
	ContinuousDropOff *uint
	ShapeDistTraveled *float64
	Timepoint         *uint
}

var stopTimeSchema = newSchema(StopTimesFile, stopTimeColumns,
	[]StopTimeField{StopTimeFieldTripID, StopTimeFieldStopID, StopTimeFieldStopSequence},
	map[StopTimeField]binder[StopTime]{
		StopTimeFieldTripID:            requiredString(func(s *StopTime) *string { return &s.TripID }),
		StopTimeFieldArrivalTime:       optionalTimeOfDay(func(s *StopTime) **time.Time { return &s.ArrivalTime }),
		StopTimeFieldDepartureTime:     optionalTimeOfDay(func(s *StopTime) **time.Time { return &s.DepartureTime }),
		StopTimeFieldStopID:            requiredString(func(s *StopTime) *string { return &s.StopID }),
		StopTimeFieldStopSequence:      requiredUint(func(s *StopTime) *uint { return &s.StopSequence }),
		StopTimeFieldStopHeadsign:      optionalString(func(s *StopTime) **string { return &s.StopHeadsign }),
		StopTimeFieldPickupType:        optionalUint(func(s *StopTime) **uint { return &s.PickupType }),
		StopTimeFieldDropOffType:       optionalUint(func(s *StopTime) **uint { return &s.DropOffType }),
		StopTimeFieldContinuousPickup:  optionalUint(func(s *StopTime) **uint { return &s.ContinuousPickup }),
		StopTimeFieldContinuousDropOff: optionalUint(func(s *StopTime) **uint { return &s.ContinuousDropOff }),
		StopTimeFieldShapeDistTraveled: optionalDouble(func(s *StopTime) **float64 { return &s.ShapeDistTraveled }),
		StopTimeFieldTimepoint:         optionalUint(func(s *StopTime) **uint { return &s.Timepoint }),
	},
)

// DecodeStopTimes decodes the contents of stop_times.txt, normalising
// arrival and departure times into location. A nil location means UTC.
func DecodeStopTimes(text string, location *time.Location, opts DecodeOptions) (*StopTimes, error) {
	if location == nil {
		location = time.UTC
	}

	return decodeTable(stopTimeSchema, text, &bindContext{location: location}, opts)
}
