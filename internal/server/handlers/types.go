package handlers

import (
	"context"

	"github.com/vzahanych/aeroapi-demo-app/internal/aggregator"
	"github.com/vzahanych/aeroapi-demo-app/internal/server/utils"
	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi"
)

// AeroAPI is the part of *aeroapi.Client the handlers call.
type AeroAPI interface {
	GetAirport(ctx context.Context, code string) (aeroapi.Airport, error)
	GetAirportDelays(ctx context.Context, code string) (aeroapi.AirportDelays, error)
	GetNearbyAirports(ctx context.Context, r aeroapi.AirportsNearbyRequest) (aeroapi.NearbyAirportsResponse, error)
	GetOperator(ctx context.Context, r aeroapi.OperatorInfoRequest) (aeroapi.Airline, error)
	GetFlights(ctx context.Context, r aeroapi.FlightsRequest) (aeroapi.FlightsResponse, error)
	GetFlightTrack(ctx context.Context, r aeroapi.FlightTrackRequest) (aeroapi.FlightTrack, error)
	GetFlightMap(ctx context.Context, r aeroapi.FlightMapRequest) ([]byte, error)
}

type OverviewProvider interface {
	GetAirportOverview(ctx context.Context, code string) (*aggregator.AirportOverview, error)
}

// ReferenceLookup is satisfied by *aeroapi.ReferenceCache.
type ReferenceLookup interface {
	Loaded() bool
	FindAirport(code string) (aeroapi.Airport, bool)
	SearchAirports(pattern string) []aeroapi.Airport
}

type AirportPath struct {
	Code string `uri:"code" validate:"required,airport_code"`
}

type OperatorPath struct {
	Code string `uri:"code" validate:"required,operator_code"`
}

type FlightPath struct {
	Ident string `uri:"ident" validate:"required,flight_ident"`
}

// NearbyQuery: radius is in statute miles.
type NearbyQuery struct {
	Lat     *float64 `form:"lat" validate:"required,latitude"`
	Lon     *float64 `form:"lon" validate:"required,longitude"`
	Radius  int      `form:"radius" validate:"omitempty,min=1,max=500"`
	OnlyIAP bool     `form:"only_iap"`
}

type MapQuery struct {
	Height int `form:"height" validate:"omitempty,min=1,max=1500"`
	Width  int `form:"width" validate:"omitempty,min=1,max=1500"`
}

type LookupQuery struct {
	Q string `form:"q" validate:"required,max=64"`
}

type LookupResponse struct {
	Airports []aeroapi.Airport `json:"airports"`
}

// ErrorResponse represents an error response with validation
type ErrorResponse struct {
	Error   string                  `json:"error" validate:"required,min=1,max=500"`
	Code    string                  `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Details string                  `json:"details,omitempty" validate:"omitempty,max=1000"`
	Fields  []utils.ValidationError `json:"fields,omitempty"`
}

// HealthResponse represents health check response with validation
type HealthResponse struct {
	Status    string `json:"status" validate:"required,oneof=ok alive ready unavailable"`
	Uptime    string `json:"uptime" validate:"required"`
	Timestamp string `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}
