package gtfs

import (
	"net/url"
	"time"
)

type StopField int

const (
	StopFieldNonstandard StopField = iota
	StopFieldID
	StopFieldCode
	StopFieldName
	StopFieldTTSName
	StopFieldDescription
	StopFieldLatitude
	StopFieldLongitude
	StopFieldZoneID
	StopFieldURL
	StopFieldLocationType
	StopFieldParentStation
	StopFieldTimezone
	StopFieldWheelchairBoarding
	StopFieldLevelID
	StopFieldPlatformCode
)

var stopColumns = []string{
	StopFieldNonstandard:        "nonstandard",
	StopFieldID:                 "stop_id",
	StopFieldCode:               "stop_code",
	StopFieldName:               "stop_name",
	StopFieldTTSName:            "tts_stop_name",
	StopFieldDescription:        "stop_desc",
	StopFieldLatitude:           "stop_lat",
	StopFieldLongitude:          "stop_lon",
	StopFieldZoneID:             "zone_id",
	StopFieldURL:                "stop_url",
	StopFieldLocationType:       "location_type",
	StopFieldParentStation:      "parent_station",
	StopFieldTimezone:           "stop_timezone",
	StopFieldWheelchairBoarding: "wheelchair_boarding",
	StopFieldLevelID:            "level_id",
	StopFieldPlatformCode:       "platform_code",
}

func (f StopField) String() string {
	return columnName(stopColumns, int(f))
}

// Stop is one row of stops.txt.
type Stop struct {
	Identity

	ID                 string
	Code               *string
	Name               *string
	TTSName            *string
	Description        *string
	Latitude           *float64
	Longitude          *float64
	ZoneID             *string
	URL                *url.URL
	LocationType       *uint
	ParentStation      *string
	Timezone           *time.Location
	WheelchairBoarding *uint
	LevelID            *string
	PlatformCode       *string
}

var stopSchema = newSchema(StopsFile, stopColumns,
	[]StopField{StopFieldID},
	map[StopField]binder[Stop]{
		StopFieldID:                 requiredString(func(s *Stop) *string { return &s.ID }),
		StopFieldCode:               optionalString(func(s *Stop) **string { return &s.Code }),
		StopFieldName:               optionalString(func(s *Stop) **string { return &s.Name }),
		StopFieldTTSName:            optionalString(func(s *Stop) **string { return &s.TTSName }),
		StopFieldDescription:        optionalString(func(s *Stop) **string { return &s.Description }),
		StopFieldLatitude:           optionalDouble(func(s *Stop) **float64 { return &s.Latitude }),
		StopFieldLongitude:          optionalDouble(func(s *Stop) **float64 { return &s.Longitude }),
		StopFieldZoneID:             optionalString(func(s *Stop) **string { return &s.ZoneID }),
		StopFieldURL:                optionalURL(func(s *Stop) **url.URL { return &s.URL }),
		StopFieldLocationType:       optionalUint(func(s *Stop) **uint { return &s.LocationType }),
		StopFieldParentStation:      optionalString(func(s *Stop) **string { return &s.ParentStation }),
		StopFieldTimezone:           optionalTimezone(func(s *Stop) **time.Location { return &s.Timezone }),
		StopFieldWheelchairBoarding: optionalUint(func(s *Stop) **uint { return &s.WheelchairBoarding }),
		StopFieldLevelID:            optionalString(func(s *Stop) **string { return &s.LevelID }),
		StopFieldPlatformCode:       optionalString(func(s *Stop) **string { return &s.PlatformCode }),
	},
)

// DecodeStops decodes the contents of stops.txt.
func DecodeStops(text string, opts DecodeOptions) (*Stops, error) {
	return decodeTable(stopSchema, text, &bindContext{}, opts)
}
