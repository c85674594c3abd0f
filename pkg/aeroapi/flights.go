package aeroapi

import (
	"context"
	"time"
)

type Flight struct {
	Ident               string         `json:"ident"`
	IdentICAO           string         `json:"ident_icao,omitempty"`
	IdentIATA           string         `json:"ident_iata,omitempty"`
	FAFlightID          string         `json:"fa_flight_id"`
	Operator            string         `json:"operator,omitempty"`
	OperatorICAO        string         `json:"operator_icao,omitempty"`
	OperatorIATA        string         `json:"operator_iata,omitempty"`
	FlightNumber        string         `json:"flight_number,omitempty"`
	Registration        string         `json:"registration,omitempty"`
	ATCIdent            string         `json:"atc_ident,omitempty"`
	InboundFAFlightID   string         `json:"inbound_fa_flight_id,omitempty"`
	Codeshares          []string       `json:"codeshares,omitempty"`
	CodesharesIATA      []string       `json:"codeshares_iata,omitempty"`
	Blocked             bool           `json:"blocked"`
	Diverted            bool           `json:"diverted"`
	Cancelled           bool           `json:"cancelled"`
	PositionOnly        bool           `json:"position_only"`
	Origin              *FlightAirport `json:"origin,omitempty"`
	Destination         *FlightAirport `json:"destination,omitempty"`
	DepartureDelay      *int           `json:"departure_delay,omitempty"`
	ArrivalDelay        *int           `json:"arrival_delay,omitempty"`
	FiledETE            *int           `json:"filed_ete,omitempty"`
	ScheduledOut        *Time          `json:"scheduled_out,omitempty"`
	EstimatedOut        *Time          `json:"estimated_out,omitempty"`
	ActualOut           *Time          `json:"actual_out,omitempty"`
	ScheduledOff        *Time          `json:"scheduled_off,omitempty"`
	EstimatedOff        *Time          `json:"estimated_off,omitempty"`
	ActualOff           *Time          `json:"actual_off,omitempty"`
	ScheduledOn         *Time          `json:"scheduled_on,omitempty"`
	EstimatedOn         *Time          `json:"estimated_on,omitempty"`
	ActualOn            *Time          `json:"actual_on,omitempty"`
	ScheduledIn         *Time          `json:"scheduled_in,omitempty"`
	EstimatedIn         *Time          `json:"estimated_in,omitempty"`
	ActualIn            *Time          `json:"actual_in,omitempty"`
	ProgressPercent     *int           `json:"progress_percent,omitempty"`
	Status              FlightStatus   `json:"status,omitempty"`
	AircraftType        string         `json:"aircraft_type,omitempty"`
	RouteDistance       *int           `json:"route_distance,omitempty"`
	FiledAirspeed       *int           `json:"filed_airspeed,omitempty"`
	FiledAltitude       *int           `json:"filed_altitude,omitempty"`
	Route               string         `json:"route,omitempty"`
	BaggageClaim        string         `json:"baggage_claim,omitempty"`
	SeatsCabinBusiness  *int           `json:"seats_cabin_business,omitempty"`
	SeatsCabinCoach     *int           `json:"seats_cabin_coach,omitempty"`
	SeatsCabinFirst     *int           `json:"seats_cabin_first,omitempty"`
	GateOrigin          string         `json:"gate_origin,omitempty"`
	GateDestination     string         `json:"gate_destination,omitempty"`
	TerminalOrigin      string         `json:"terminal_origin,omitempty"`
	TerminalDestination string         `json:"terminal_destination,omitempty"`
	Type                string         `json:"type,omitempty"`
}

// ScheduledDuration is gate-to-gate time by schedule, zero when either end is unknown.
func (f Flight) ScheduledDuration() time.Duration {
	if f.ScheduledOut == nil || f.ScheduledIn == nil {
		return 0
	}
	return f.ScheduledIn.Sub(f.ScheduledOut.Time)
}

type FlightAirport struct {
	Code           string `json:"code"`
	CodeICAO       string `json:"code_icao,omitempty"`
	CodeIATA       string `json:"code_iata,omitempty"`
	CodeLID        string `json:"code_lid,omitempty"`
	Timezone       string `json:"timezone,omitempty"`
	Name           string `json:"name,omitempty"`
	City           string `json:"city,omitempty"`
	AirportInfoURL string `json:"airport_info_url,omitempty"`
}

// FlightsRequest looks flights up by ident. Historical routes it to /history/flights.
type FlightsRequest struct {
	sealed
	Paging
	Ident      string
	IdentType  IdentType
	Historical bool
	Start      time.Time
	End        time.Time
}

// NewFlightsRequest validates ident and, when either bound is set, the search window.
func NewFlightsRequest(ident string, start, end time.Time) (FlightsRequest, error) {
	r := FlightsRequest{Ident: ident, Start: start, End: end}
	if _, err := r.Path(); err != nil {
		return FlightsRequest{}, err
	}
	return r, nil
}

// NewFlightByIDRequest looks a single flight up by FlightAware id, routed by the id's timestamp.
func NewFlightByIDRequest(faID string) (FlightsRequest, error) {
	historical, err := isHistorical(faID)
	if err != nil {
		return FlightsRequest{}, err
	}
	return FlightsRequest{Ident: faID, IdentType: IdentTypeFAFlightID, Historical: historical}, nil
}

func (r FlightsRequest) Path() (string, error) {
	if err := validateOptionalWindow(r.Start, r.End); err != nil {
		return "", err
	}
	return buildPath(r.Operation(), historyPrefix(r.Historical)+"/flights/%s", r.Ident)
}

func (r FlightsRequest) Filters() []Filter {
	var out []Filter
	if r.IdentType != "" {
		out = append(out, r.IdentType)
	}
	if !r.Start.IsZero() {
		out = append(out, StartDate(r.Start))
	}
	if !r.End.IsZero() {
		out = append(out, EndDate(r.End))
	}
	return append(out, r.Paging.filters()...)
}

func (r FlightsRequest) Operation() string { return "GetFlights" }

type FlightsResponse struct {
	Page
	Flights []Flight `json:"flights"`
}

type FlightCanonicalRequest struct {
	sealed
	Ident     string
	IdentType IdentType
}

func (r FlightCanonicalRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/flights/%s/canonical", r.Ident)
}

func (r FlightCanonicalRequest) Filters() []Filter {
	if r.IdentType == "" {
		return nil
	}
	return []Filter{r.IdentType}
}

func (r FlightCanonicalRequest) Operation() string { return "GetFlightCanonical" }

type FlightCanonicalResponse struct {
	Idents []CanonicalIdent `json:"idents"`
}

type CanonicalIdent struct {
	Ident     string    `json:"ident"`
	IdentType IdentType `json:"ident_type"`
}

type FlightPositionRequest struct {
	sealed
	FAID string
}

func (r FlightPositionRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/flights/%s/position", r.FAID)
}

func (r FlightPositionRequest) Filters() []Filter { return nil }
func (r FlightPositionRequest) Operation() string { return "GetFlightPosition" }

type PredictionSource string

const (
	PredictionForesight         PredictionSource = "Foresight"
	PredictionHistoricalAverage PredictionSource = "Historical Average"
)

type FlightPosition struct {
	Ident                         string           `json:"ident"`
	IdentICAO                     string           `json:"ident_icao,omitempty"`
	IdentIATA                     string           `json:"ident_iata,omitempty"`
	FAFlightID                    string           `json:"fa_flight_id"`
	Origin                        *FlightAirport   `json:"origin,omitempty"`
	Destination                   *FlightAirport   `json:"destination,omitempty"`
	Waypoints                     []float64        `json:"waypoints,omitempty"`
	FirstPositionTime             *Time            `json:"first_position_time,omitempty"`
	LastPosition                  *Position        `json:"last_position,omitempty"`
	BoundingBox                   []float64        `json:"bounding_box,omitempty"`
	IdentPrefix                   string           `json:"ident_prefix,omitempty"`
	AircraftType                  string           `json:"aircraft_type,omitempty"`
	ForesightPredictionsAvailable bool             `json:"foresight_predictions_available"`
	ActualOff                     *Time            `json:"actual_off,omitempty"`
	ActualOn                      *Time            `json:"actual_on,omitempty"`
	PredictedOut                  *Time            `json:"predicted_out,omitempty"`
	PredictedOff                  *Time            `json:"predicted_off,omitempty"`
	PredictedOn                   *Time            `json:"predicted_on,omitempty"`
	PredictedIn                   *Time            `json:"predicted_in,omitempty"`
	PredictedOutSource            PredictionSource `json:"predicted_out_source,omitempty"`
	PredictedOffSource            PredictionSource `json:"predicted_off_source,omitempty"`
	PredictedOnSource             PredictionSource `json:"predicted_on_source,omitempty"`
	PredictedInSource             PredictionSource `json:"predicted_in_source,omitempty"`
}

// Position is one point of a flight track.
type Position struct {
	FAFlightID     string     `json:"fa_flight_id,omitempty"`
	Altitude       int        `json:"altitude"`
	AltitudeChange AltChange  `json:"altitude_change"`
	Groundspeed    int        `json:"groundspeed"`
	Heading        *int       `json:"heading,omitempty"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Timestamp      Time       `json:"timestamp"`
	UpdateType     UpdateType `json:"update_type,omitempty"`
}

type FlightTrackRequest struct {
	sealed
	FAID             string
	Historical       bool
	IncludeEstimated bool
}

// NewFlightTrackRequest routes by the id's timestamp and includes estimated positions.
func NewFlightTrackRequest(faID string) (FlightTrackRequest, error) {
	historical, err := isHistorical(faID)
	if err != nil {
		return FlightTrackRequest{}, err
	}
	return FlightTrackRequest{FAID: faID, Historical: historical, IncludeEstimated: true}, nil
}

func (r FlightTrackRequest) Path() (string, error) {
	return buildPath(r.Operation(), historyPrefix(r.Historical)+"/flights/%s/track", r.FAID)
}

func (r FlightTrackRequest) Filters() []Filter {
	return []Filter{IncludeEstimated(r.IncludeEstimated)}
}

func (r FlightTrackRequest) Operation() string { return "GetFlightTrack" }

type FlightTrack struct {
	ActualDistance *int       `json:"actual_distance,omitempty"`
	Positions      []Position `json:"positions"`
}

type FlightRouteRequest struct {
	sealed
	FAID       string
	Historical bool
}

func NewFlightRouteRequest(faID string) (FlightRouteRequest, error) {
	historical, err := isHistorical(faID)
	if err != nil {
		return FlightRouteRequest{}, err
	}
	return FlightRouteRequest{FAID: faID, Historical: historical}, nil
}

func (r FlightRouteRequest) Path() (string, error) {
	return buildPath(r.Operation(), historyPrefix(r.Historical)+"/flights/%s/route", r.FAID)
}

func (r FlightRouteRequest) Filters() []Filter { return nil }
func (r FlightRouteRequest) Operation() string { return "GetFlightRoute" }

type FlightRoute struct {
	RouteDistance string `json:"route_distance,omitempty"`
	Fixes         []Fix  `json:"fixes"`
}

type Fix struct {
	Name                  string   `json:"name"`
	Latitude              *float64 `json:"latitude,omitempty"`
	Longitude             *float64 `json:"longitude,omitempty"`
	DistanceFromOrigin    *float64 `json:"distance_from_origin,omitempty"`
	DistanceThisLeg       *float64 `json:"distance_this_leg,omitempty"`
	DistanceToDestination *float64 `json:"distance_to_destination,omitempty"`
	OutboundCourse        *float64 `json:"outbound_course,omitempty"`
	Type                  string   `json:"type,omitempty"`
}

func (c *Client) GetFlights(ctx context.Context, r FlightsRequest) (FlightsResponse, error) {
	return Do[FlightsResponse](ctx, c, r)
}

// GetFlight returns the flight with the given FlightAware id.
func (c *Client) GetFlight(ctx context.Context, faID string) (Flight, error) {
	r, err := NewFlightByIDRequest(faID)
	if err != nil {
		return Flight{}, err
	}
	resp, err := do(ctx, c, r, func(resp *FlightsResponse) error {
		if len(resp.Flights) == 0 {
			return &EmptyResultError{Resource: "flights for " + faID}
		}
		return nil
	})
	if err != nil {
		return Flight{}, err
	}
	for _, f := range resp.Flights {
		if f.FAFlightID == faID {
			return f, nil
		}
	}
	return resp.Flights[0], nil
}

func (c *Client) GetFlightCanonical(ctx context.Context, r FlightCanonicalRequest) ([]CanonicalIdent, error) {
	resp, err := Do[FlightCanonicalResponse](ctx, c, r)
	if err != nil {
		return nil, err
	}
	return resp.Idents, nil
}

func (c *Client) GetFlightPosition(ctx context.Context, faID string) (FlightPosition, error) {
	return Do[FlightPosition](ctx, c, FlightPositionRequest{FAID: faID})
}

// GetFlightTrack fails with EmptyResultError when the track has no positions.
func (c *Client) GetFlightTrack(ctx context.Context, r FlightTrackRequest) (FlightTrack, error) {
	return do(ctx, c, r, func(t *FlightTrack) error {
		if len(t.Positions) == 0 {
			return &EmptyResultError{Resource: "flight track"}
		}
		return nil
	})
}

func (c *Client) GetFlightRoute(ctx context.Context, r FlightRouteRequest) (FlightRoute, error) {
	return Do[FlightRoute](ctx, c, r)
}
