package gtfs

import (
	"net/url"
	"time"

	"golang.org/x/text/language"
)

type AgencyField int

const (
	AgencyFieldNonstandard AgencyField = iota
	AgencyFieldID
	AgencyFieldName
	AgencyFieldURL
	AgencyFieldTimezone
	AgencyFieldLanguage
	AgencyFieldPhone
	AgencyFieldFareURL
	AgencyFieldEmail
)

var agencyColumns = []string{
	AgencyFieldNonstandard: "nonstandard",
	AgencyFieldID:          "agency_id",
	AgencyFieldName:        "agency_name",
	AgencyFieldURL:         "agency_url",
	AgencyFieldTimezone:    "agency_timezone",
	AgencyFieldLanguage:    "agency_lang",
	AgencyFieldPhone:       "agency_phone",
	AgencyFieldFareURL:     "agency_fare_url",
	AgencyFieldEmail:       "agency_email",
}

func (f AgencyField) String() string {
	return columnName(agencyColumns, int(f))
}

// Agency is one row of agency.txt.
type Agency struct {
	Identity

	ID       *string
	Name     string
	URL      url.URL
	Timezone *time.Location
	Language *language.Tag
	Phone    *string
	FareURL  *url.URL
	Email    *string
}

var agencySchema = newSchema(AgencyFile, agencyColumns,
	[]AgencyField{AgencyFieldName, AgencyFieldURL, AgencyFieldTimezone},
	map[AgencyField]binder[Agency]{
		AgencyFieldID:       optionalString(func(a *Agency) **string { return &a.ID }),
		AgencyFieldName:     requiredString(func(a *Agency) *string { return &a.Name }),
		AgencyFieldURL:      requiredURL(func(a *Agency) *url.URL { return &a.URL }),
		AgencyFieldTimezone: requiredTimezone(func(a *Agency) **time.Location { return &a.Timezone }),
		AgencyFieldLanguage: optionalLocale(func(a *Agency) **language.Tag { return &a.Language }),
		AgencyFieldPhone:    optionalString(func(a *Agency) **string { return &a.Phone }),
		AgencyFieldFareURL:  optionalURL(func(a *Agency) **url.URL { return &a.FareURL }),
		AgencyFieldEmail:    optionalString(func(a *Agency) **string { return &a.Email }),
	},
)

// DecodeAgencies decodes the contents of agency.txt.
func DecodeAgencies(text string, opts DecodeOptions) (*Agencies, error) {
	return decodeTable(agencySchema, text, &bindContext{}, opts)
}
