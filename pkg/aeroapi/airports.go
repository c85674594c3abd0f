package aeroapi

import (
	"context"
	"time"
)

type AirportInfoRequest struct {
	sealed
	Code string
}

func (r AirportInfoRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/airports/%s", r.Code)
}

func (r AirportInfoRequest) Filters() []Filter { return nil }
func (r AirportInfoRequest) Operation() string { return "GetAirport" }

// AirportsRequest lists every airport code AeroAPI knows.
type AirportsRequest struct {
	sealed
	Paging
}

func (r AirportsRequest) Path() (string, error) { return "/airports", nil }
func (r AirportsRequest) Filters() []Filter     { return r.Paging.filters() }
func (r AirportsRequest) Operation() string     { return "ListAirports" }

type AirportsResponse struct {
	Page
	Airports []AirportRef `json:"airports"`
}

type AirportRef struct {
	Code           string `json:"code"`
	AirportInfoURL string `json:"airport_info_url,omitempty"`
}

type AirportCanonicalRequest struct {
	sealed
	Code string
}

func (r AirportCanonicalRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/airports/%s/canonical", r.Code)
}

func (r AirportCanonicalRequest) Filters() []Filter { return nil }
func (r AirportCanonicalRequest) Operation() string { return "GetAirportCanonical" }

type CanonicalResponse struct {
	Airports  []CanonicalID `json:"airports,omitempty"`
	Operators []CanonicalID `json:"operators,omitempty"`
	Flights   []CanonicalID `json:"flights,omitempty"`
}

type CanonicalID struct {
	ID     string `json:"id"`
	IDType string `json:"id_type"`
}

type AirportFlightCountsRequest struct {
	sealed
	Code string
}

func (r AirportFlightCountsRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/airports/%s/flights/counts", r.Code)
}

func (r AirportFlightCountsRequest) Filters() []Filter { return nil }
func (r AirportFlightCountsRequest) Operation() string { return "GetAirportFlightCounts" }

type AirportFlightCounts struct {
	Departed            int `json:"departed"`
	Enroute             int `json:"enroute"`
	ScheduledArrivals   int `json:"scheduled_arrivals"`
	ScheduledDepartures int `json:"scheduled_departures"`
}

type AirportFlightsKind string

const (
	AllAirportFlights   AirportFlightsKind = ""
	ScheduledArrivals   AirportFlightsKind = "scheduled_arrivals"
	ScheduledDepartures AirportFlightsKind = "scheduled_departures"
	Arrivals            AirportFlightsKind = "arrivals"
	Departures          AirportFlightsKind = "departures"
)

type AirportFlightsRequest struct {
	sealed
	Paging
	Code    string
	Kind    AirportFlightsKind
	Airline string
	Type    FlightType
	Start   time.Time
	End     time.Time
}

// NewAirportFlightsRequest validates the code and the [start, end) window up front.
func NewAirportFlightsRequest(code string, kind AirportFlightsKind, start, end time.Time) (AirportFlightsRequest, error) {
	r := AirportFlightsRequest{Code: code, Kind: kind, Start: start, End: end}
	if _, err := r.Path(); err != nil {
		return AirportFlightsRequest{}, err
	}
	if err := validateWindow(start, end); err != nil {
		return AirportFlightsRequest{}, err
	}
	return r, nil
}

// Path also checks the window, so literal requests are held to the constructor's rules.
func (r AirportFlightsRequest) Path() (string, error) {
	if err := validateOptionalWindow(r.Start, r.End); err != nil {
		return "", err
	}
	switch r.Kind {
	case AllAirportFlights:
		return buildPath(r.Operation(), "/airports/%s/flights", r.Code)
	case ScheduledArrivals, ScheduledDepartures, Arrivals, Departures:
		return buildPath(r.Operation(), "/airports/%s/flights/"+string(r.Kind), r.Code)
	default:
		return "", &InvalidFilterError{Name: "kind", Reason: "unknown airport flights kind " + string(r.Kind)}
	}
}

func (r AirportFlightsRequest) Filters() []Filter {
	var out []Filter
	if r.Airline != "" {
		out = append(out, AirlineCode(r.Airline))
	}
	if r.Type != "" {
		out = append(out, r.Type)
	}
	if !r.Start.IsZero() {
		out = append(out, StartDate(r.Start))
	}
	if !r.End.IsZero() {
		out = append(out, EndDate(r.End))
	}
	return append(out, r.Paging.filters()...)
}

func (r AirportFlightsRequest) Operation() string { return "GetAirportFlights" }

type AirportFlightsResponse struct {
	Page
	ScheduledArrivals   []Flight `json:"scheduled_arrivals,omitempty"`
	ScheduledDepartures []Flight `json:"scheduled_departures,omitempty"`
	Arrivals            []Flight `json:"arrivals,omitempty"`
	Departures          []Flight `json:"departures,omitempty"`
}

// AirportDelaysRequest with an empty Code asks for every airport currently reporting delays.
type AirportDelaysRequest struct {
	sealed
	Paging
	Code string
}

func (r AirportDelaysRequest) Path() (string, error) {
	if r.Code == "" {
		return "/airports/delays", nil
	}
	return buildPath(r.Operation(), "/airports/%s/delays", r.Code)
}

func (r AirportDelaysRequest) Filters() []Filter { return r.Paging.filters() }
func (r AirportDelaysRequest) Operation() string { return "GetAirportDelays" }

type DelayColor string

const (
	DelayRed    DelayColor = "red"
	DelayYellow DelayColor = "yellow"
	DelayGreen  DelayColor = "green"
)

type AirportDelays struct {
	Airport   string        `json:"airport"`
	Category  string        `json:"category"`
	Color     DelayColor    `json:"color"`
	DelaySecs int           `json:"delay_secs"`
	Reasons   []DelayReason `json:"reasons"`
}

type DelayReason struct {
	Category  string     `json:"category"`
	Color     DelayColor `json:"color"`
	DelaySecs int        `json:"delay_secs"`
	Reason    string     `json:"reason"`
}

type AllAirportDelays struct {
	Page
	Delays []AirportDelays `json:"delays"`
}

type AirportRoutesRequest struct {
	sealed
	Paging
	Origin      string
	Destination string
	SortBy      SortBy
	MaxFileAge  string
}

func (r AirportRoutesRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/airports/%s/routes/%s", r.Origin, r.Destination)
}

func (r AirportRoutesRequest) Filters() []Filter {
	var out []Filter
	if r.SortBy != "" {
		out = append(out, r.SortBy)
	}
	if r.MaxFileAge != "" {
		out = append(out, MaxFileAge(r.MaxFileAge))
	}
	return append(out, r.Paging.filters()...)
}

func (r AirportRoutesRequest) Operation() string { return "GetAirportRoutes" }

type AirportRoutesResponse struct {
	Page
	Routes []AirportRoute `json:"routes"`
}

type AirportRoute struct {
	AircraftTypes     []string `json:"aircraft_types"`
	Count             int      `json:"count"`
	FiledAltitudeMax  int      `json:"filed_altitude_max"`
	FiledAltitudeMin  int      `json:"filed_altitude_min"`
	LastDepartureTime Time     `json:"last_departure_time"`
	Route             string   `json:"route"`
	RouteDistance     string   `json:"route_distance"`
}

// AirportsNearbyRequest searches around an airport when Code is set, else around the coordinates.
type AirportsNearbyRequest struct {
	sealed
	Paging
	Code      string
	Latitude  float64
	Longitude float64
	Radius    int
	OnlyIAP   bool
}

func (r AirportsNearbyRequest) Path() (string, error) {
	if r.Code == "" {
		return "/airports/nearby", nil
	}
	return buildPath(r.Operation(), "/airports/%s/nearby", r.Code)
}

func (r AirportsNearbyRequest) Filters() []Filter {
	var out []Filter
	if r.Code == "" {
		out = append(out, Latitude(r.Latitude), Longitude(r.Longitude))
	}
	out = append(out, Radius(r.Radius))
	if r.OnlyIAP {
		out = append(out, OnlyIAP(true))
	}
	return append(out, r.Paging.filters()...)
}

func (r AirportsNearbyRequest) Operation() string { return "GetNearbyAirports" }

type Direction string

const (
	North     Direction = "N"
	NorthEast Direction = "NE"
	East      Direction = "E"
	SouthEast Direction = "SE"
	South     Direction = "S"
	SouthWest Direction = "SW"
	West      Direction = "W"
	NorthWest Direction = "NW"
)

type NearbyAirport struct {
	Airport
	Distance  int       `json:"distance"`
	Heading   int       `json:"heading"`
	Direction Direction `json:"direction"`
}

type NearbyAirportsResponse struct {
	Page
	Airports []NearbyAirport `json:"airports"`
}

// GetAirport fetches an airport and merges it into the reference cache.
func (c *Client) GetAirport(ctx context.Context, code string) (Airport, error) {
	airport, err := Do[Airport](ctx, c, AirportInfoRequest{Code: code})
	if err != nil {
		return Airport{}, err
	}
	return c.mergeAirport(ctx, airport, code), nil
}

func (c *Client) ListAirports(ctx context.Context, paging Paging) (AirportsResponse, error) {
	return Do[AirportsResponse](ctx, c, AirportsRequest{Paging: paging})
}

func (c *Client) GetAirportCanonical(ctx context.Context, code string) ([]CanonicalID, error) {
	resp, err := Do[CanonicalResponse](ctx, c, AirportCanonicalRequest{Code: code})
	if err != nil {
		return nil, err
	}
	return resp.Airports, nil
}

func (c *Client) GetAirportFlightCounts(ctx context.Context, code string) (AirportFlightCounts, error) {
	return Do[AirportFlightCounts](ctx, c, AirportFlightCountsRequest{Code: code})
}

func (c *Client) GetAirportFlights(ctx context.Context, r AirportFlightsRequest) (AirportFlightsResponse, error) {
	return Do[AirportFlightsResponse](ctx, c, r)
}

func (c *Client) GetAirportDelays(ctx context.Context, code string) (AirportDelays, error) {
	if code == "" {
		return AirportDelays{}, &MissingIdentifierError{Request: "GetAirportDelays"}
	}
	return Do[AirportDelays](ctx, c, AirportDelaysRequest{Code: code})
}

func (c *Client) GetAllAirportDelays(ctx context.Context, paging Paging) (AllAirportDelays, error) {
	return Do[AllAirportDelays](ctx, c, AirportDelaysRequest{Paging: paging})
}

func (c *Client) GetAirportRoutes(ctx context.Context, r AirportRoutesRequest) (AirportRoutesResponse, error) {
	return Do[AirportRoutesResponse](ctx, c, r)
}

// GetNearbyAirports fetches nearby airports. Each result is merged into the reference cache.
func (c *Client) GetNearbyAirports(ctx context.Context, r AirportsNearbyRequest) (NearbyAirportsResponse, error) {
	resp, err := Do[NearbyAirportsResponse](ctx, c, r)
	if err != nil {
		return NearbyAirportsResponse{}, err
	}
	for i := range resp.Airports {
		a := &resp.Airports[i]
		a.Airport = c.mergeAirport(ctx, a.Airport, a.AirportCode)
	}
	return resp, nil
}
