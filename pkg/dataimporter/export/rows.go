package export

import (
	"net/url"
	"strconv"
	"time"

	"github.com/travigo/gtfs-loader/pkg/gtfs"
)

// Row types flatten decoded records back into their GTFS text form. Absent
// optional values become empty strings.

type Agency struct {
	ID       string `csv:"agency_id" json:"agency_id" bson:"agency_id" groups:"basic"`
	Name     string `csv:"agency_name" json:"agency_name" bson:"agency_name" groups:"basic"`
	URL      string `csv:"agency_url" json:"agency_url" bson:"agency_url" groups:"detailed"`
	Timezone string `csv:"agency_timezone" json:"agency_timezone" bson:"agency_timezone" groups:"basic"`
	Language string `csv:"agency_lang" json:"agency_lang" bson:"agency_lang" groups:"detailed"`
	Phone    string `csv:"agency_phone" json:"agency_phone" bson:"agency_phone" groups:"detailed"`
	FareURL  string `csv:"agency_fare_url" json:"agency_fare_url" bson:"agency_fare_url" groups:"detailed"`
	Email    string `csv:"agency_email" json:"agency_email" bson:"agency_email" groups:"detailed"`
}

type Stop struct {
	ID                 string `csv:"stop_id" json:"stop_id" bson:"stop_id" groups:"basic"`
	Code               string `csv:"stop_code" json:"stop_code" bson:"stop_code" groups:"detailed"`
	Name               string `csv:"stop_name" json:"stop_name" bson:"stop_name" groups:"basic"`
	TTSName            string `csv:"tts_stop_name" json:"tts_stop_name" bson:"tts_stop_name" groups:"detailed"`
	Description        string `csv:"stop_desc" json:"stop_desc" bson:"stop_desc" groups:"detailed"`
	Latitude           string `csv:"stop_lat" json:"stop_lat" bson:"stop_lat" groups:"basic"`
	Longitude          string `csv:"stop_lon" json:"stop_lon" bson:"stop_lon" groups:"basic"`
	ZoneID             string `csv:"zone_id" json:"zone_id" bson:"zone_id" groups:"detailed"`
	URL                string `csv:"stop_url" json:"stop_url" bson:"stop_url" groups:"detailed"`
	LocationType       string `csv:"location_type" json:"location_type" bson:"location_type" groups:"detailed"`
	ParentStation      string `csv:"parent_station" json:"parent_station" bson:"parent_station" groups:"detailed"`
	Timezone           string `csv:"stop_timezone" json:"stop_timezone" bson:"stop_timezone" groups:"detailed"`
	WheelchairBoarding string `csv:"wheelchair_boarding" json:"wheelchair_boarding" bson:"wheelchair_boarding" groups:"detailed"`
	LevelID            string `csv:"level_id" json:"level_id" bson:"level_id" groups:"detailed"`
	PlatformCode       string `csv:"platform_code" json:"platform_code" bson:"platform_code" groups:"detailed"`
}

type Route struct {
	ID                string `csv:"route_id" json:"route_id" bson:"route_id" groups:"basic"`
	AgencyID          string `csv:"agency_id" json:"agency_id" bson:"agency_id" groups:"basic"`
	ShortName         string `csv:"route_short_name" json:"route_short_name" bson:"route_short_name" groups:"basic"`
	LongName          string `csv:"route_long_name" json:"route_long_name" bson:"route_long_name" groups:"basic"`
	Description       string `csv:"route_desc" json:"route_desc" bson:"route_desc" groups:"detailed"`
	Type              uint   `csv:"route_type" json:"route_type" bson:"route_type" groups:"basic"`
	URL               string `csv:"route_url" json:"route_url" bson:"route_url" groups:"detailed"`
	Colour            string `csv:"route_color" json:"route_color" bson:"route_color" groups:"detailed"`
	TextColour        string `csv:"route_text_color" json:"route_text_color" bson:"route_text_color" groups:"detailed"`
	SortOrder         string `csv:"route_sort_order" json:"route_sort_order" bson:"route_sort_order" groups:"detailed"`
	ContinuousPickup  string `csv:"continuous_pickup" json:"continuous_pickup" bson:"continuous_pickup" groups:"detailed"`
	ContinuousDropOff string `csv:"continuous_drop_off" json:"continuous_drop_off" bson:"continuous_drop_off" groups:"detailed"`
	NetworkID         string `csv:"network_id" json:"network_id" bson:"network_id" groups:"detailed"`
}

type Trip struct {
	RouteID              string `csv:"route_id" json:"route_id" bson:"route_id" groups:"basic"`
	ServiceID            string `csv:"service_id" json:"service_id" bson:"service_id" groups:"basic"`
	ID                   string `csv:"trip_id" json:"trip_id" bson:"trip_id" groups:"basic"`
	Headsign             string `csv:"trip_headsign" json:"trip_headsign" bson:"trip_headsign" groups:"basic"`
	ShortName            string `csv:"trip_short_name" json:"trip_short_name" bson:"trip_short_name" groups:"detailed"`
	DirectionID          string `csv:"direction_id" json:"direction_id" bson:"direction_id" groups:"detailed"`
	BlockID              string `csv:"block_id" json:"block_id" bson:"block_id" groups:"detailed"`
	ShapeID              string `csv:"shape_id" json:"shape_id" bson:"shape_id" groups:"detailed"`
	WheelchairAccessible string `csv:"wheelchair_accessible" json:"wheelchair_accessible" bson:"wheelchair_accessible" groups:"detailed"`
	BikesAllowed         string `csv:"bikes_allowed" json:"bikes_allowed" bson:"bikes_allowed" groups:"detailed"`
}

type StopTime struct {
	TripID            string `csv:"trip_id" json:"trip_id" bson:"trip_id" groups:"basic"`
	ArrivalTime       string `csv:"arrival_time" json:"arrival_time" bson:"arrival_time" groups:"basic"`
	DepartureTime     string `csv:"departure_time" json:"departure_time" bson:"departure_time" groups:"basic"`
	StopID            string `csv:"stop_id" json:"stop_id" bson:"stop_id" groups:"basic"`
	StopSequence      uint   `csv:"stop_sequence" json:"stop_sequence" bson:"stop_sequence" groups:"basic"`
	StopHeadsign      string `csv:"stop_headsign" json:"stop_headsign" bson:"stop_headsign" groups:"detailed"`
	PickupType        string `csv:"pickup_type" json:"pickup_type" bson:"pickup_type" groups:"detailed"`
	DropOffType       string `csv:"drop_off_type" json:"drop_off_type" bson:"drop_off_type" groups:"detailed"`
	ContinuousPickup  string `csv:"continuous_pickup" json:"continuous_pickup" bson:"continuous_pickup" groups:"detailed"`
	ContinuousDropOff string `csv:"continuous_drop_off" json:"continuous_drop_off" bson:"continuous_drop_off" groups:"detailed"`
	ShapeDistTraveled string `csv:"shape_dist_traveled" json:"shape_dist_traveled" bson:"shape_dist_traveled" groups:"detailed"`
	Timepoint         string `csv:"timepoint" json:"timepoint" bson:"timepoint" groups:"detailed"`
}

type Calendar struct {
	ServiceID string `csv:"service_id" json:"service_id" bson:"service_id" groups:"basic"`
	Monday    uint   `csv:"monday" json:"monday" bson:"monday" groups:"basic"`
	Tuesday   uint   `csv:"tuesday" json:"tuesday" bson:"tuesday" groups:"basic"`
	Wednesday uint   `csv:"wednesday" json:"wednesday" bson:"wednesday" groups:"basic"`
	Thursday  uint   `csv:"thursday" json:"thursday" bson:"thursday" groups:"basic"`
	Friday    uint   `csv:"friday" json:"friday" bson:"friday" groups:"basic"`
	Saturday  uint   `csv:"saturday" json:"saturday" bson:"saturday" groups:"basic"`
	Sunday    uint   `csv:"sunday" json:"sunday" bson:"sunday" groups:"basic"`
	StartDate string `csv:"start_date" json:"start_date" bson:"start_date" groups:"basic"`
	EndDate   string `csv:"end_date" json:"end_date" bson:"end_date" groups:"basic"`
}

type CalendarDate struct {
	ServiceID     string `csv:"service_id" json:"service_id" bson:"service_id" groups:"basic"`
	Date          string `csv:"date" json:"date" bson:"date" groups:"basic"`
	ExceptionType uint   `csv:"exception_type" json:"exception_type" bson:"exception_type" groups:"basic"`
}

const dateLayout = "20060102"

func AgencyRow(a gtfs.Agency) Agency {
	row := Agency{
		ID:      str(a.ID),
		Name:    a.Name,
		URL:     a.URL.String(),
		Phone:   str(a.Phone),
		FareURL: link(a.FareURL),
		Email:   str(a.Email),
	}
	if a.Timezone != nil {
		row.Timezone = a.Timezone.String()
	}
	if a.Language != nil {
		row.Language = a.Language.String()
	}

	return row
}

func StopRow(s gtfs.Stop) Stop {
	row := Stop{
		ID:                 s.ID,
		Code:               str(s.Code),
		Name:               str(s.Name),
		TTSName:            str(s.TTSName),
		Description:        str(s.Description),
		Latitude:           float(s.Latitude),
		Longitude:          float(s.Longitude),
		ZoneID:             str(s.ZoneID),
		URL:                link(s.URL),
		LocationType:       number(s.LocationType),
		ParentStation:      str(s.ParentStation),
		WheelchairBoarding: number(s.WheelchairBoarding),
		LevelID:            str(s.LevelID),
		PlatformCode:       str(s.PlatformCode),
	}
	if s.Timezone != nil {
		row.Timezone = s.Timezone.String()
	}

	return row
}

func RouteRow(r gtfs.Route) Route {
	return Route{
		ID:                r.ID,
		AgencyID:          str(r.AgencyID),
		ShortName:         str(r.ShortName),
		LongName:          str(r.LongName),
		Description:       str(r.Description),
		Type:              r.Type,
		URL:               link(r.URL),
		Colour:            colour(r.Color),
		TextColour:        colour(r.TextColor),
		SortOrder:         number(r.SortOrder),
		ContinuousPickup:  number(r.ContinuousPickup),
		ContinuousDropOff: number(r.ContinuousDropOff),
		NetworkID:         str(r.NetworkID),
	}
}

func TripRow(t gtfs.Trip) Trip {
	return Trip{
		RouteID:              t.RouteID,
		ServiceID:            t.ServiceID,
		ID:                   t.ID,
		Headsign:             str(t.Headsign),
		ShortName:            str(t.ShortName),
		DirectionID:          number(t.DirectionID),
		BlockID:              str(t.BlockID),
		ShapeID:              str(t.ShapeID),
		WheelchairAccessible: number(t.WheelchairAccessible),
		BikesAllowed:         number(t.BikesAllowed),
	}
}

func StopTimeRow(s gtfs.StopTime) StopTime {
	return StopTime{
		TripID:            s.TripID,
		ArrivalTime:       timeOfDay(s.ArrivalTime),
		DepartureTime:     timeOfDay(s.DepartureTime),
		StopID:            s.StopID,
		StopSequence:      s.StopSequence,
		StopHeadsign:      str(s.StopHeadsign),
		PickupType:        number(s.PickupType),
		DropOffType:       number(s.DropOffType),
		ContinuousPickup:  number(s.ContinuousPickup),
		ContinuousDropOff: number(s.ContinuousDropOff),
		ShapeDistTraveled: float(s.ShapeDistTraveled),
		Timepoint:         number(s.Timepoint),
	}
}

func CalendarRow(c gtfs.Calendar) Calendar {
	return Calendar{
		ServiceID: c.ServiceID,
		Monday:    c.Monday,
		Tuesday:   c.Tuesday,
		Wednesday: c.Wednesday,
		Thursday:  c.Thursday,
		Friday:    c.Friday,
		Saturday:  c.Saturday,
		Sunday:    c.Sunday,
		StartDate: c.StartDate.Format(dateLayout),
		EndDate:   c.EndDate.Format(dateLayout),
	}
}

func CalendarDateRow(c gtfs.CalendarDate) CalendarDate {
	return CalendarDate{
		ServiceID:     c.ServiceID,
		Date:          c.Date.Format(dateLayout),
		ExceptionType: c.ExceptionType,
	}
}

// Rows converts every record of table with convert, in table order.
func Rows[R gtfs.Record, F gtfs.Field, T any](table *gtfs.Table[R, F], convert func(R) T) []T {
	rows := make([]T, 0, table.Len())
	for _, record := range table.All() {
		rows = append(rows, convert(record))
	}

	return rows
}

func str(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}

func number(value *uint) string {
	if value == nil {
		return ""
	}

	return strconv.FormatUint(uint64(*value), 10)
}

func float(value *float64) string {
	if value == nil {
		return ""
	}

	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func timeOfDay(value *time.Time) string {
	if value == nil {
		return ""
	}

	return gtfs.FormatTimeOfDay(*value)
}

func link(value *url.URL) string {
	if value == nil {
		return ""
	}

	return value.String()
}

func colour(value *gtfs.Color) string {
	if value == nil {
		return ""
	}

	return value.String()
}
