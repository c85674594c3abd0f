package aeroapi

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MaxMapDimension bounds the height and width of rendered flight maps.
const MaxMapDimension = 1500

// QueryParam is one rendered query parameter. Order is significant.
type QueryParam struct {
	Name  string
	Value string
}

// Filter contributes query parameters to a request. The set of filters is closed; use the
// named types declared in this file.
type Filter interface {
	params() ([]QueryParam, error)
}

type (
	Ident               string
	IdentType           string
	AirlineCode         string
	Origin              string
	Destination         string
	StartDate           time.Time
	EndDate             time.Time
	FlightNumber        int
	IncludeCodeshares   bool
	IncludeEstimated    bool
	Cursor              string
	MaxPages            int
	FlightType          string
	CountryCode         string
	Radius              int
	OnlyIAP             bool
	Latitude            float64
	Longitude           float64
	TemperatureUnits    string
	Timestamp           time.Time
	ReturnNearbyWeather bool
	TimePeriod          string
	Height              int
	Width               int
	LayersOn            []MapLayer
	LayersOff           []MapLayer
	ShowDataBlock       bool
	AirportsExpandView  bool
	ShowAirports        bool
	SortBy              string
	MaxFileAge          string
	SearchQuery         string
)

const (
	IdentTypeDesignator   IdentType = "designator"
	IdentTypeRegistration IdentType = "registration"
	IdentTypeFAFlightID   IdentType = "fa_flight_id"
)

const (
	FlightTypeAirline         FlightType = "Airline"
	FlightTypeGeneralAviation FlightType = "General_Aviation"
)

const (
	Celsius    TemperatureUnits = "C"
	Fahrenheit TemperatureUnits = "F"
)

const (
	PeriodYesterday       TimePeriod = "yesterday"
	PeriodToday           TimePeriod = "today"
	PeriodTomorrow        TimePeriod = "tomorrow"
	PeriodPlus2Days       TimePeriod = "plus2days"
	PeriodTwoDaysAgo      TimePeriod = "twoDaysAgo"
	PeriodMinus2Plus12Hrs TimePeriod = "minus2plus12hrs"
	PeriodNext36Hrs       TimePeriod = "next36hrs"
	PeriodWeek            TimePeriod = "week"
)

const (
	SortByCount             SortBy = "count"
	SortByLastDepartureTime SortBy = "last_departure_time"
)

const (
	queryIdent               = "ident"
	queryIdentType           = "ident_type"
	queryAirline             = "airline"
	queryOrigin              = "origin"
	queryDestination         = "destination"
	queryStart               = "start"
	queryEnd                 = "end"
	queryFlightNumber        = "flight_number"
	queryIncludeCodeshares   = "include_codeshares"
	queryIncludeEstimated    = "include_estimated_positions"
	queryCursor              = "cursor"
	queryMaxPages            = "max_pages"
	queryType                = "type"
	queryCountryCode         = "country_code"
	queryRadius              = "radius"
	queryOnlyIAP             = "only_iap"
	queryLatitude            = "latitude"
	queryLongitude           = "longitude"
	queryTemperatureUnits    = "temperature_units"
	queryTimestamp           = "timestamp"
	queryReturnNearbyWeather = "return_nearby_weather"
	queryTimePeriod          = "time_period"
	queryHeight              = "height"
	queryWidth               = "width"
	queryLayerOn             = "layer_on"
	queryLayerOff            = "layer_off"
	queryShowDataBlock       = "show_data_block"
	queryAirportsExpandView  = "airports_expand_view"
	queryShowAirports        = "show_airports"
	querySortBy              = "sort_by"
	queryMaxFileAge          = "max_file_age"
	querySearch              = "query"
)

func one(name, value string) []QueryParam {
	return []QueryParam{{Name: name, Value: value}}
}

func nonEmpty(name, value string) ([]QueryParam, error) {
	if strings.TrimSpace(value) == "" {
		return nil, &InvalidFilterError{Name: name, Reason: "must not be empty"}
	}
	return one(name, value), nil
}

func positive(name string, value int) ([]QueryParam, error) {
	if value <= 0 {
		return nil, &InvalidFilterError{Name: name, Reason: "must be positive, got " + strconv.Itoa(value)}
	}
	return one(name, strconv.Itoa(value)), nil
}

func date(name string, value time.Time) ([]QueryParam, error) {
	if value.IsZero() {
		return nil, &InvalidFilterError{Name: name, Reason: "date is not set"}
	}
	return one(name, formatDate(value)), nil
}

func boolean(name string, value bool) ([]QueryParam, error) {
	return one(name, strconv.FormatBool(value)), nil
}

func coordinate(name string, value, limit float64) ([]QueryParam, error) {
	if value < -limit || value > limit {
		return nil, &InvalidFilterError{Name: name, Reason: "out of range"}
	}
	return one(name, strconv.FormatFloat(value, 'f', -1, 64)), nil
}

func enum[T ~string](name string, value T, allowed ...T) ([]QueryParam, error) {
	for _, a := range allowed {
		if value == a {
			return one(name, string(value)), nil
		}
	}
	return nil, &InvalidFilterError{Name: name, Reason: "unknown value " + strconv.Quote(string(value))}
}

func validateDimension(field string, value int) error {
	if value <= 0 || value > MaxMapDimension {
		return &InvalidDimensionError{Field: field, Value: value}
	}
	return nil
}

func layers(name string, values []MapLayer) ([]QueryParam, error) {
	if len(values) == 0 {
		return nil, &InvalidFilterError{Name: name, Reason: "no layers given"}
	}
	out := make([]QueryParam, 0, len(values))
	for _, l := range values {
		if !l.valid() {
			return nil, &InvalidFilterError{Name: name, Reason: "unknown layer " + strconv.Quote(string(l))}
		}
		out = append(out, QueryParam{Name: name, Value: string(l)})
	}
	return out, nil
}

func (f Ident) params() ([]QueryParam, error)       { return nonEmpty(queryIdent, string(f)) }
func (f AirlineCode) params() ([]QueryParam, error) { return nonEmpty(queryAirline, string(f)) }
func (f Origin) params() ([]QueryParam, error)      { return nonEmpty(queryOrigin, string(f)) }
func (f Destination) params() ([]QueryParam, error) { return nonEmpty(queryDestination, string(f)) }
func (f Cursor) params() ([]QueryParam, error)      { return nonEmpty(queryCursor, string(f)) }
func (f CountryCode) params() ([]QueryParam, error) { return nonEmpty(queryCountryCode, string(f)) }
func (f MaxFileAge) params() ([]QueryParam, error)  { return nonEmpty(queryMaxFileAge, string(f)) }
func (f SearchQuery) params() ([]QueryParam, error) { return nonEmpty(querySearch, string(f)) }

func (f IdentType) params() ([]QueryParam, error) {
	return enum(queryIdentType, f, IdentTypeDesignator, IdentTypeRegistration, IdentTypeFAFlightID)
}

func (f FlightType) params() ([]QueryParam, error) {
	return enum(queryType, f, FlightTypeAirline, FlightTypeGeneralAviation)
}

func (f TemperatureUnits) params() ([]QueryParam, error) {
	return enum(queryTemperatureUnits, f, Celsius, Fahrenheit)
}

func (f TimePeriod) params() ([]QueryParam, error) {
	return enum(queryTimePeriod, f, PeriodYesterday, PeriodToday, PeriodTomorrow, PeriodPlus2Days,
		PeriodTwoDaysAgo, PeriodMinus2Plus12Hrs, PeriodNext36Hrs, PeriodWeek)
}

func (f SortBy) params() ([]QueryParam, error) {
	return enum(querySortBy, f, SortByCount, SortByLastDepartureTime)
}

func (f StartDate) params() ([]QueryParam, error) { return date(queryStart, time.Time(f)) }
func (f EndDate) params() ([]QueryParam, error)   { return date(queryEnd, time.Time(f)) }
func (f Timestamp) params() ([]QueryParam, error) { return date(queryTimestamp, time.Time(f)) }

func (f FlightNumber) params() ([]QueryParam, error) { return positive(queryFlightNumber, int(f)) }
func (f MaxPages) params() ([]QueryParam, error)     { return positive(queryMaxPages, int(f)) }
func (f Radius) params() ([]QueryParam, error)       { return positive(queryRadius, int(f)) }

func (f IncludeCodeshares) params() ([]QueryParam, error) {
	return boolean(queryIncludeCodeshares, bool(f))
}

func (f IncludeEstimated) params() ([]QueryParam, error) {
	return boolean(queryIncludeEstimated, bool(f))
}

func (f OnlyIAP) params() ([]QueryParam, error) { return boolean(queryOnlyIAP, bool(f)) }

func (f ReturnNearbyWeather) params() ([]QueryParam, error) {
	return boolean(queryReturnNearbyWeather, bool(f))
}

func (f ShowDataBlock) params() ([]QueryParam, error) { return boolean(queryShowDataBlock, bool(f)) }

func (f AirportsExpandView) params() ([]QueryParam, error) {
	return boolean(queryAirportsExpandView, bool(f))
}

func (f ShowAirports) params() ([]QueryParam, error) { return boolean(queryShowAirports, bool(f)) }

func (f Latitude) params() ([]QueryParam, error)  { return coordinate(queryLatitude, float64(f), 90) }
func (f Longitude) params() ([]QueryParam, error) { return coordinate(queryLongitude, float64(f), 180) }

func (f Height) params() ([]QueryParam, error) {
	if err := validateDimension(queryHeight, int(f)); err != nil {
		return nil, err
	}
	return one(queryHeight, strconv.Itoa(int(f))), nil
}

func (f Width) params() ([]QueryParam, error) {
	if err := validateDimension(queryWidth, int(f)); err != nil {
		return nil, err
	}
	return one(queryWidth, strconv.Itoa(int(f))), nil
}

func (f LayersOn) params() ([]QueryParam, error)  { return layers(queryLayerOn, f) }
func (f LayersOff) params() ([]QueryParam, error) { return layers(queryLayerOff, f) }

// RenderQuery renders filters in order. Any invalid filter fails the whole render.
func RenderQuery(filters []Filter) ([]QueryParam, error) {
	out := make([]QueryParam, 0, len(filters))
	for _, f := range filters {
		ps, err := f.params()
		if err != nil {
			return nil, err
		}
		out = append(out, ps...)
	}
	return out, nil
}

// encodeQuery keeps parameter order, unlike url.Values.Encode.
func encodeQuery(params []QueryParam) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// ParseFilter maps a rendered parameter back to its filter. Map layers come back as a
// single-element list per parameter.
func ParseFilter(p QueryParam) (Filter, error) {
	var (
		f   Filter
		err error
	)
	switch p.Name {
	case queryIdent:
		f = Ident(p.Value)
	case queryIdentType:
		f = IdentType(p.Value)
	case queryAirline:
		f = AirlineCode(p.Value)
	case queryOrigin:
		f = Origin(p.Value)
	case queryDestination:
		f = Destination(p.Value)
	case queryCursor:
		f = Cursor(p.Value)
	case queryCountryCode:
		f = CountryCode(p.Value)
	case queryMaxFileAge:
		f = MaxFileAge(p.Value)
	case querySearch:
		f = SearchQuery(p.Value)
	case queryType:
		f = FlightType(p.Value)
	case queryTemperatureUnits:
		f = TemperatureUnits(p.Value)
	case queryTimePeriod:
		f = TimePeriod(p.Value)
	case querySortBy:
		f = SortBy(p.Value)
	case queryStart, queryEnd, queryTimestamp:
		var t time.Time
		t, err = parseDate(p.Value)
		switch p.Name {
		case queryStart:
			f = StartDate(t)
		case queryEnd:
			f = EndDate(t)
		default:
			f = Timestamp(t)
		}
	case queryFlightNumber, queryMaxPages, queryRadius, queryHeight, queryWidth:
		var n int
		n, err = strconv.Atoi(p.Value)
		switch p.Name {
		case queryFlightNumber:
			f = FlightNumber(n)
		case queryMaxPages:
			f = MaxPages(n)
		case queryRadius:
			f = Radius(n)
		case queryHeight:
			f = Height(n)
		default:
			f = Width(n)
		}
	case queryIncludeCodeshares, queryIncludeEstimated, queryOnlyIAP, queryReturnNearbyWeather,
		queryShowDataBlock, queryAirportsExpandView, queryShowAirports:
		var b bool
		b, err = strconv.ParseBool(p.Value)
		switch p.Name {
		case queryIncludeCodeshares:
			f = IncludeCodeshares(b)
		case queryIncludeEstimated:
			f = IncludeEstimated(b)
		case queryOnlyIAP:
			f = OnlyIAP(b)
		case queryReturnNearbyWeather:
			f = ReturnNearbyWeather(b)
		case queryShowDataBlock:
			f = ShowDataBlock(b)
		case queryAirportsExpandView:
			f = AirportsExpandView(b)
		default:
			f = ShowAirports(b)
		}
	case queryLatitude, queryLongitude:
		var v float64
		v, err = strconv.ParseFloat(p.Value, 64)
		if p.Name == queryLatitude {
			f = Latitude(v)
		} else {
			f = Longitude(v)
		}
	case queryLayerOn:
		f = LayersOn{MapLayer(p.Value)}
	case queryLayerOff:
		f = LayersOff{MapLayer(p.Value)}
	default:
		return nil, &InvalidFilterError{Name: p.Name, Reason: "unknown query parameter"}
	}
	if err != nil {
		return nil, &InvalidFilterError{Name: p.Name, Reason: err.Error()}
	}
	if _, err := f.params(); err != nil {
		return nil, err
	}
	return f, nil
}
