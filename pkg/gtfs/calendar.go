package gtfs

import (
	"time"
)

type CalendarDateField int

const (
	CalendarDateFieldNonstandard CalendarDateField = iota
	CalendarDateFieldServiceID
	CalendarDateFieldDate
	CalendarDateFieldExceptionType
)

var calendarDateColumns = []string{
	CalendarDateFieldNonstandard:   "nonstandard",
	CalendarDateFieldServiceID:     "service_id",
	CalendarDateFieldDate:          "date",
	CalendarDateFieldExceptionType: "exception_type",
}

func (f CalendarDateField) String() string {
	return columnName(calendarDateColumns, int(f))
}

const (
	ExceptionTypeAdded   uint = 1
	ExceptionTypeRemoved uint = 2
)

// CalendarDate is one row of calendar_dates.txt. Date is midnight UTC of the
// service day.
type CalendarDate struct {
	Identity

	ServiceID     string
	Date          time.Time
	ExceptionType uint
}

var calendarDateSchema = newSchema(CalendarDatesFile, calendarDateColumns,
	[]CalendarDateField{CalendarDateFieldServiceID, CalendarDateFieldDate, CalendarDateFieldExceptionType},
	map[CalendarDateField]binder[CalendarDate]{
		CalendarDateFieldServiceID:     requiredString(func(c *CalendarDate) *string { return &c.ServiceID }),
		CalendarDateFieldDate:          requiredDate(func(c *CalendarDate) *time.Time { return &c.Date }),
		CalendarDateFieldExceptionType: requiredUint(func(c *CalendarDate) *uint { return &c.ExceptionType }),
	},
)

// DecodeCalendarDates decodes the contents of calendar_dates.txt.
func DecodeCalendarDates(text string, opts DecodeOptions) (*CalendarDates, error) {
	return decodeTable(calendarDateSchema, text, &bindContext{}, opts)
}

type CalendarField int

const (
	CalendarFieldNonstandard CalendarField = iota
	CalendarFieldServiceID
	CalendarFieldMonday
	CalendarFieldTuesday
	CalendarFieldWednesday
	CalendarFieldThursday
	CalendarFieldFriday
	CalendarFieldSaturday
	CalendarFieldSunday
	CalendarFieldStartDate
	CalendarFieldEndDate
)

var calendarColumns = []string{
	CalendarFieldNonstandard: "nonstandard",
	CalendarFieldServiceID:   "service_id",
	CalendarFieldMonday:      "monday",
	CalendarFieldTuesday:     "tuesday",
	CalendarFieldWednesday:   "wednesday",
	CalendarFieldThursday:    "thursday",
	CalendarFieldFriday:      "friday",
	CalendarFieldSaturday:    "saturday",
	CalendarFieldSunday:      "sunday",
	CalendarFieldStartDate:   "start_date",
	CalendarFieldEndDate:     "end_date",
}

func (f CalendarField) String() string {
	return columnName(calendarColumns, int(f))
}

// Calendar is one row of calendar.txt.
type Calendar struct {
	Identity

	ServiceID string
	Monday    uint
	Tuesday   uint
	Wednesday uint
	Thursday  uint
	Friday    uint
	Saturday  uint
	Sunday    uint
	StartDate time.Time
	EndDate   time.Time
}

// RunsOn reports whether the weekly pattern includes day.
func (c Calendar) RunsOn(day time.Weekday) bool {
	flags := [...]uint{
		time.Sunday:    c.Sunday,
		time.Monday:    c.Monday,
		time.Tuesday:   c.Tuesday,
		time.Wednesday: c.Wednesday,
		time.Thursday:  c.Thursday,
		time.Friday:    c.Friday,
		time.Saturday:  c.Saturday,
	}

	return flags[day] == 1
}

// RunningDays lists the weekdays the service runs, Monday first.
func (c Calendar) RunningDays() []time.Weekday {
	days := []time.Weekday{}

	for _, day := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		if c.RunsOn(day) {
			days = append(days, day)
		}
	}

	return days
}

var calendarSchema = newSchema(CalendarFile, calendarColumns,
	[]CalendarField{
		CalendarFieldServiceID,
		CalendarFieldMonday, CalendarFieldTuesday, CalendarFieldWednesday, CalendarFieldThursday,
		CalendarFieldFriday, CalendarFieldSaturday, CalendarFieldSunday,
		CalendarFieldStartDate, CalendarFieldEndDate,
	},
	map[CalendarField]binder[Calendar]{
		CalendarFieldServiceID: requiredString(func(c *Calendar) *string { return &c.ServiceID }),
		CalendarFieldMonday:    requiredUint(func(c *Calendar) *uint { return &c.Monday }),
		CalendarFieldTuesday:   requiredUint(func(c *Calendar) *uint { return &c.Tuesday }),
		CalendarFieldWednesday: requiredUint(func(c *Calendar) *uint { return &c.Wednesday }),
		CalendarFieldThursday:  requiredUint(func(c *Calendar) *uint { return &c.Thursday }),
		CalendarFieldFriday:    requiredUint(func(c *Calendar) *uint { return &c.Friday }),
		CalendarFieldSaturday:  requiredUint(func(c *Calendar) *uint { return &c.Saturday }),
		CalendarFieldSunday:    requiredUint(func(c *Calendar) *uint { return &c.Sunday }),
		CalendarFieldStartDate: requiredDate(func(c *Calendar) *time.Time { return &c.StartDate }),
		CalendarFieldEndDate:   requiredDate(func(c *Calendar) *time.Time { return &c.EndDate }),
	},
)

// DecodeCalendars decodes the contents of calendar.txt.
func DecodeCalendars(text string, opts DecodeOptions) (*Calendars, error) {
	return decodeTable(calendarSchema, text, &bindContext{}, opts)
}
