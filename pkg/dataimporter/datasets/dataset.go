package datasets

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/travigo/gtfs-loader/pkg/gtfs"
	"github.com/travigo/gtfs-loader/pkg/util"
)

type DataSet struct {
	Identifier    string `yaml:"identifier" validate:"required"`
	DataSourceRef string `yaml:"-" json:"-"`

	Provider Provider `yaml:"provider"`

	Source               string               `yaml:"source" validate:"required"`
	SourceAuthentication SourceAuthentication `yaml:"sourceauthentication" json:"-"`

	// Timezone is used for stop times when the feed has no agency.
	Timezone      string   `yaml:"timezone" validate:"omitempty,timezone"`
	RequiredFiles []string `yaml:"requiredfiles" validate:"dive,oneof=agency.txt routes.txt stops.txt trips.txt stop_times.txt calendar_dates.txt calendar.txt"`
	LenientHeader bool     `yaml:"lenientheader"`

	// RefreshInterval is how often a repeating import checks the source.
	RefreshInterval time.Duration `yaml:"refreshinterval" validate:"gte=0"`
}

type Provider struct {
	Name    string `yaml:"name"`
	Website string `yaml:"website" validate:"omitempty,url"`
}

// SourceAuthentication values may reference environment variables as
// $NAME or ${NAME}.
type SourceAuthentication struct {
	Query  map[string]string `yaml:"query"`
	Header map[string]string `yaml:"header"`
	Basic  struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"basic"`
}

func (a SourceAuthentication) IsZero() bool {
	return len(a.Query) == 0 && len(a.Header) == 0 && a.Basic.Username == "" && a.Basic.Password == ""
}

// ResolvedSource returns Source with any query authentication applied.
func (d DataSet) ResolvedSource() (string, error) {
	if len(d.SourceAuthentication.Query) == 0 {
		return d.Source, nil
	}

	source, err := url.Parse(d.Source)
	if err != nil || source.Scheme == "" {
		return "", fmt.Errorf("%w: query authentication needs a url source, got %q", gtfs.ErrInvalidURL, d.Source)
	}

	env := util.GetEnvironmentVariables()
	query := source.Query()
	for key, value := range d.SourceAuthentication.Query {
		query.Set(key, expand(value, env))
	}
	source.RawQuery = query.Encode()

	return source.String(), nil
}

// RequestHeaders returns the headers to send when downloading the source.
func (d DataSet) RequestHeaders() map[string]string {
	env := util.GetEnvironmentVariables()
	headers := map[string]string{}

	for key, value := range d.SourceAuthentication.Header {
		headers[key] = expand(value, env)
	}

	basic := d.SourceAuthentication.Basic
	if basic.Username != "" || basic.Password != "" {
		credentials := expand(basic.Username, env) + ":" + expand(basic.Password, env)
		headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
	}

	return headers
}

// LoadOptions converts the dataset settings into feed load options.
func (d DataSet) LoadOptions() (gtfs.LoadOptions, error) {
	opts := gtfs.LoadOptions{
		FailurePolicy: gtfs.FailAll,
		HeaderPolicy:  gtfs.HeaderStrict,
		RequiredFiles: d.RequiredFiles,
	}

	if d.LenientHeader {
		opts.HeaderPolicy = gtfs.HeaderLenient
	}

	if d.Timezone != "" {
		location, err := time.LoadLocation(d.Timezone)
		if err != nil {
			return gtfs.LoadOptions{}, fmt.Errorf("dataset %s timezone: %w", d.Identifier, err)
		}
		opts.DefaultTimezone = location
	}

	return opts, nil
}

func expand(value string, env map[string]string) string {
	return os.Expand(value, func(name string) string {
		return env[name]
	})
}
