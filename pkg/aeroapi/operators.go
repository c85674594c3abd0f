package aeroapi

import (
	"context"
	"time"
)

type OperatorsRequest struct {
	sealed
	Paging
}

func (r OperatorsRequest) Path() (string, error) { return "/operators", nil }
func (r OperatorsRequest) Filters() []Filter     { return r.Paging.filters() }
func (r OperatorsRequest) Operation() string     { return "ListOperators" }

type OperatorsResponse struct {
	Page
	Operators []OperatorRef `json:"operators"`
}

type OperatorRef struct {
	Code        string `json:"code"`
	OperatorURL string `json:"operator_info_url,omitempty"`
}

// OperatorInfoRequest prefers ICAO over IATA. At least one must be set.
type OperatorInfoRequest struct {
	sealed
	ICAO string
	IATA string
}

func (r OperatorInfoRequest) code() string {
	if r.ICAO != "" {
		return r.ICAO
	}
	return r.IATA
}

func (r OperatorInfoRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/operators/%s", r.code())
}

func (r OperatorInfoRequest) Filters() []Filter { return nil }
func (r OperatorInfoRequest) Operation() string { return "GetOperator" }

type OperatorCanonicalRequest struct {
	sealed
	Code        string
	CountryCode string
}

func (r OperatorCanonicalRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/operators/%s/canonical", r.Code)
}

func (r OperatorCanonicalRequest) Filters() []Filter {
	if r.CountryCode == "" {
		return nil
	}
	return []Filter{CountryCode(r.CountryCode)}
}

func (r OperatorCanonicalRequest) Operation() string { return "GetOperatorCanonical" }

type OperatorFlightCountsRequest struct {
	sealed
	Code string
}

func (r OperatorFlightCountsRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/operators/%s/flights/counts", r.Code)
}

func (r OperatorFlightCountsRequest) Filters() []Filter { return nil }
func (r OperatorFlightCountsRequest) Operation() string { return "GetOperatorFlightCounts" }

type OperatorFlightCounts struct {
	Airborne           int `json:"airborne"`
	FlightsLast24Hours int `json:"flights_last_24_hours"`
}

type OperatorFlightsKind string

const (
	AllOperatorFlights OperatorFlightsKind = ""
	OperatorEnroute    OperatorFlightsKind = "enroute"
	OperatorArrivals   OperatorFlightsKind = "arrivals"
	OperatorScheduled  OperatorFlightsKind = "scheduled"
)

type OperatorFlightsRequest struct {
	sealed
	Paging
	Code  string
	Kind  OperatorFlightsKind
	Start time.Time
	End   time.Time
}

// NewOperatorFlightsRequest validates the code and the [start, end) window up front.
func NewOperatorFlightsRequest(code string, kind OperatorFlightsKind, start, end time.Time) (OperatorFlightsRequest, error) {
	r := OperatorFlightsRequest{Code: code, Kind: kind, Start: start, End: end}
	if _, err := r.Path(); err != nil {
		return OperatorFlightsRequest{}, err
	}
	if err := validateWindow(start, end); err != nil {
		return OperatorFlightsRequest{}, err
	}
	return r, nil
}

func (r OperatorFlightsRequest) Path() (string, error) {
	if err := validateOptionalWindow(r.Start, r.End); err != nil {
		return "", err
	}
	switch r.Kind {
	case AllOperatorFlights:
		return buildPath(r.Operation(), "/operators/%s/flights", r.Code)
	case OperatorEnroute, OperatorArrivals, OperatorScheduled:
		return buildPath(r.Operation(), "/operators/%s/flights/"+string(r.Kind), r.Code)
	default:
		return "", &InvalidFilterError{Name: "kind", Reason: "unknown operator flights kind " + string(r.Kind)}
	}
}

func (r OperatorFlightsRequest) Filters() []Filter {
	var out []Filter
	if !r.Start.IsZero() {
		out = append(out, StartDate(r.Start))
	}
	if !r.End.IsZero() {
		out = append(out, EndDate(r.End))
	}
	return append(out, r.Paging.filters()...)
}

func (r OperatorFlightsRequest) Operation() string { return "GetOperatorFlights" }

type OperatorFlightsResponse struct {
	Page
	Arrivals  []Flight `json:"arrivals,omitempty"`
	Scheduled []Flight `json:"scheduled,omitempty"`
	Enroute   []Flight `json:"enroute,omitempty"`
}

func (c *Client) ListOperators(ctx context.Context, paging Paging) (OperatorsResponse, error) {
	return Do[OperatorsResponse](ctx, c, OperatorsRequest{Paging: paging})
}

// GetOperator fetches an operator and merges it into the reference cache.
func (c *Client) GetOperator(ctx context.Context, r OperatorInfoRequest) (Airline, error) {
	airline, err := Do[Airline](ctx, c, r)
	if err != nil {
		return Airline{}, err
	}
	return c.mergeAirline(ctx, airline, r.code()), nil
}

func (c *Client) GetOperatorCanonical(ctx context.Context, r OperatorCanonicalRequest) ([]CanonicalID, error) {
	resp, err := Do[CanonicalResponse](ctx, c, r)
	if err != nil {
		return nil, err
	}
	return resp.Operators, nil
}

func (c *Client) GetOperatorFlightCounts(ctx context.Context, code string) (OperatorFlightCounts, error) {
	return Do[OperatorFlightCounts](ctx, c, OperatorFlightCountsRequest{Code: code})
}

func (c *Client) GetOperatorFlights(ctx context.Context, r OperatorFlightsRequest) (OperatorFlightsResponse, error) {
	return Do[OperatorFlightsResponse](ctx, c, r)
}
