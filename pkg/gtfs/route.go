package gtfs

import (
	"net/url"
)

type RouteField int

const (
	RouteFieldNonstandard RouteField = iota
	RouteFieldID
	RouteFieldAgencyID
	RouteFieldShortName
	RouteFieldLongName
	RouteFieldDescription
	RouteFieldType
	RouteFieldURL
	RouteFieldColor
	RouteFieldTextColor
	RouteFieldSortOrder
	RouteFieldContinuousPickup
	RouteFieldContinuousDropOff
	RouteFieldNetworkID
)

var routeColumns = []string{
	RouteFieldNonstandard:       "nonstandard",
	RouteFieldID:                "route_id",
	RouteFieldAgencyID:          "agency_id",
	RouteFieldShortName:         "route_short_name",
	RouteFieldLongName:          "route_long_name",
	RouteFieldDescription:       "route_desc",
	RouteFieldType:              "route_type",
	RouteFieldURL:               "route_url",
	RouteFieldColor:             "route_color",
	RouteFieldTextColor:         "route_text_color",
	RouteFieldSortOrder:         "route_sort_order",
	RouteFieldContinuousPickup:  "continuous_pickup",
	RouteFieldContinuousDropOff: "continuous_drop_off",
	RouteFieldNetworkID:         "network_id",
}

func (f RouteField) String() string {
	return columnName(routeColumns, int(f))
}

// Route is one row of routes.txt.
type Route struct {
	Identity

	ID                string
	AgencyID          *string
	ShortName         *string
	LongName          *string
	Description       *string
	Type              uint
	URL               *url.URL
	Color             *Color
	TextColor         *Color
	SortOrder         *uint
	ContinuousPickup  *uint
	ContinuousDropOff *uint
	NetworkID         *string
}

// DisplayName is the short name, falling back to the long name.
func (r Route) DisplayName() string {
	if r.ShortName != nil {
		return *r.ShortName
	}
	if r.LongName != nil {
		return *r.LongName
	}

	return ""
}

var routeSchema = newSchema(RoutesFile, routeColumns,
	[]RouteField{RouteFieldID, RouteFieldType},
	map[RouteField]binder[Route]{
		RouteFieldID:                requiredString(func(r *Route) *string { return &r.ID }),
		RouteFieldAgencyID:          optionalString(func(r *Route) **string { return &r.AgencyID }),
		RouteFieldShortName:         optionalString(func(r *Route) **string { return &r.ShortName }),
		RouteFieldLongName:          optionalString(func(r *Route) **string { return &r.LongName }),
		RouteFieldDescription:       optionalString(func(r *Route) **string { return &r.Description }),
		RouteFieldType:              requiredUint(func(r *Route) *uint { return &r.Type }),
		RouteFieldURL:               optionalURL(func(r *Route) **url.URL { return &r.URL }),
		RouteFieldColor:             optionalColor(func(r *Route) **Color { return &r.Color }),
		RouteFieldTextColor:         optionalColor(func(r *Route) **Color { return &r.TextColor }),
		RouteFieldSortOrder:         optionalUint(func(r *Route) **uint { return &r.SortOrder }),
		RouteFieldContinuousPickup:  optionalUint(func(r *Route) **uint { return &r.ContinuousPickup }),
		RouteFieldContinuousDropOff: optionalUint(func(r *Route) **uint { return &r.ContinuousDropOff }),
		RouteFieldNetworkID:         optionalString(func(r *Route) **string { return &r.NetworkID }),
	},
)

// DecodeRoutes decodes the contents of routes.txt.
func DecodeRoutes(text string, opts DecodeOptions) (*Routes, error) {
	return decodeTable(routeSchema, text, &bindContext{}, opts)
}
