package aeroapi

import "context"

type MapLayer string

const (
	LayerUSCities          MapLayer = "US Cities"
	LayerEuropeBoundaries  MapLayer = "european country boundaries"
	LayerAsiaBoundaries    MapLayer = "asia country boundaries"
	LayerMajorAirports     MapLayer = "major airports"
	LayerCountryBoundaries MapLayer = "country boundaries"
	LayerUSStateBoundaries MapLayer = "US state boundaries"
	LayerWater             MapLayer = "water"
	LayerUSMajorRoads      MapLayer = "US major roads"
	LayerRadar             MapLayer = "radar"
	LayerTrack             MapLayer = "track"
	LayerFlights           MapLayer = "flights"
	LayerAirports          MapLayer = "airports"
)

func (l MapLayer) valid() bool {
	switch l {
	case LayerUSCities, LayerEuropeBoundaries, LayerAsiaBoundaries, LayerMajorAirports,
		LayerCountryBoundaries, LayerUSStateBoundaries, LayerWater, LayerUSMajorRoads,
		LayerRadar, LayerTrack, LayerFlights, LayerAirports:
		return true
	}
	return false
}

const (
	DefaultMapHeight = 480
	DefaultMapWidth  = 640
)

// MapOptions tunes a rendered flight map. Zero dimensions mean the defaults; nil toggles are
// left to the API.
type MapOptions struct {
	Height             int
	Width              int
	LayersOn           []MapLayer
	LayersOff          []MapLayer
	ShowDataBlock      *bool
	AirportsExpandView *bool
	ShowAirports       *bool
}

type FlightMapRequest struct {
	sealed
	FAID       string
	Historical bool
	MapOptions
}

// NewFlightMapRequest validates the dimensions and routes the request to the history
// endpoint when the flight's embedded timestamp is in the past.
func NewFlightMapRequest(faID string, opts MapOptions) (FlightMapRequest, error) {
	if opts.Height == 0 {
		opts.Height = DefaultMapHeight
	}
	if opts.Width == 0 {
		opts.Width = DefaultMapWidth
	}
	if err := validateDimension(queryHeight, opts.Height); err != nil {
		return FlightMapRequest{}, err
	}
	if err := validateDimension(queryWidth, opts.Width); err != nil {
		return FlightMapRequest{}, err
	}
	historical, err := isHistorical(faID)
	if err != nil {
		return FlightMapRequest{}, err
	}
	return FlightMapRequest{FAID: faID, Historical: historical, MapOptions: opts}, nil
}

func (r FlightMapRequest) Path() (string, error) {
	return buildPath(r.Operation(), historyPrefix(r.Historical)+"/flights/%s/map", r.FAID)
}

func (r FlightMapRequest) Filters() []Filter {
	out := []Filter{Height(r.Height), Width(r.Width)}
	if len(r.LayersOn) > 0 {
		out = append(out, LayersOn(r.LayersOn))
	}
	if len(r.LayersOff) > 0 {
		out = append(out, LayersOff(r.LayersOff))
	}
	if r.ShowDataBlock != nil {
		out = append(out, ShowDataBlock(*r.ShowDataBlock))
	}
	if r.AirportsExpandView != nil {
		out = append(out, AirportsExpandView(*r.AirportsExpandView))
	}
	if r.ShowAirports != nil {
		out = append(out, ShowAirports(*r.ShowAirports))
	}
	return out
}

func (r FlightMapRequest) Operation() string { return "GetFlightMap" }

// GetFlightMap returns the decoded PNG bytes of the map field.
func (c *Client) GetFlightMap(ctx context.Context, r FlightMapRequest) ([]byte, error) {
	return c.Binary(ctx, r, "map")
}
