package aeroapi

import (
	"context"
	"time"
)

type WeatherObservationsRequest struct {
	sealed
	Paging
	Code                string
	TemperatureUnits    TemperatureUnits
	ReturnNearbyWeather bool
	Timestamp           time.Time
}

func (r WeatherObservationsRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/airports/%s/weather/observations", r.Code)
}

func (r WeatherObservationsRequest) Filters() []Filter {
	var out []Filter
	if r.TemperatureUnits != "" {
		out = append(out, r.TemperatureUnits)
	}
	if r.ReturnNearbyWeather {
		out = append(out, ReturnNearbyWeather(true))
	}
	if !r.Timestamp.IsZero() {
		out = append(out, Timestamp(r.Timestamp))
	}
	return append(out, r.Paging.filters()...)
}

func (r WeatherObservationsRequest) Operation() string { return "GetWeatherObservations" }

type PressureUnits string

const (
	Millibars     PressureUnits = "mb"
	InchesMercury PressureUnits = "in Hg"
)

type VisibilityUnits string

const (
	Meters       VisibilityUnits = "meters"
	StatuteMiles VisibilityUnits = "SM"
)

type WindUnits string

const (
	MetersPerSecond WindUnits = "MPS"
	Knots           WindUnits = "KT"
)

type WeatherObservationsResponse struct {
	Page
	Observations []WeatherObservation `json:"observations"`
}

type WeatherObservation struct {
	AirportCode      string          `json:"airport_code"`
	CloudFriendly    string          `json:"cloud_friendly,omitempty"`
	Clouds           []ObservedCloud `json:"clouds"`
	Conditions       string          `json:"conditions,omitempty"`
	Pressure         *float64        `json:"pressure,omitempty"`
	PressureUnits    PressureUnits   `json:"pressure_units,omitempty"`
	RawData          string          `json:"raw_data"`
	TempAir          *int            `json:"temp_air,omitempty"`
	TempDewpoint     *int            `json:"temp_dewpoint,omitempty"`
	TempPerceived    *int            `json:"temp_perceived,omitempty"`
	RelativeHumidity *int            `json:"relative_humidity,omitempty"`
	Time             Time            `json:"time"`
	Visibility       *float64        `json:"visibility,omitempty"`
	VisibilityUnits  VisibilityUnits `json:"visibility_units,omitempty"`
	WindDirection    int             `json:"wind_direction"`
	WindFriendly     string          `json:"wind_friendly"`
	WindSpeed        int             `json:"wind_speed"`
	WindSpeedGust    int             `json:"wind_speed_gust"`
	WindUnits        WindUnits       `json:"wind_units"`
}

type ObservedCloud struct {
	Altitude *int   `json:"altitude,omitempty"`
	Symbol   string `json:"symbol"`
	Type     string `json:"type"`
}

type WeatherForecastRequest struct {
	sealed
	Code                string
	ReturnNearbyWeather bool
	Timestamp           time.Time
}

func (r WeatherForecastRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/airports/%s/weather/forecast", r.Code)
}

func (r WeatherForecastRequest) Filters() []Filter {
	var out []Filter
	if !r.Timestamp.IsZero() {
		out = append(out, Timestamp(r.Timestamp))
	}
	if r.ReturnNearbyWeather {
		out = append(out, ReturnNearbyWeather(true))
	}
	return out
}

func (r WeatherForecastRequest) Operation() string { return "GetWeatherForecast" }

type WeatherForecast struct {
	AirportCode     string           `json:"airport_code"`
	RawForecast     []string         `json:"raw_forecast"`
	Time            Time             `json:"time"`
	DecodedForecast *DecodedForecast `json:"decoded_forecast,omitempty"`
}

type DecodedForecast struct {
	Start Time           `json:"start"`
	End   Time           `json:"end"`
	Lines []ForecastLine `json:"lines"`
}

// ForecastLine keeps End as a string: the API emits non-timestamp markers there.
type ForecastLine struct {
	Type               string              `json:"type"`
	Start              Time                `json:"start"`
	End                string              `json:"end,omitempty"`
	TurbulenceLayers   string              `json:"turbulence_layers,omitempty"`
	IcingLayers        string              `json:"icing_layers,omitempty"`
	BarometricPressure *float64            `json:"barometric_pressure,omitempty"`
	SignificantWeather string              `json:"significant_weather,omitempty"`
	Winds              *ForecastWinds      `json:"winds,omitempty"`
	Windshear          *ForecastWindshear  `json:"windshear,omitempty"`
	Visibility         *ForecastVisibility `json:"visibility,omitempty"`
	Clouds             []ForecastCloud     `json:"clouds,omitempty"`
}

type ForecastWinds struct {
	Symbol    string `json:"symbol"`
	Direction string `json:"direction"`
	Speed     int    `json:"speed"`
	Units     string `json:"units,omitempty"`
	PeakGusts *int   `json:"peak_gusts,omitempty"`
}

type ForecastWindshear struct {
	Symbol    string `json:"symbol"`
	Direction string `json:"direction"`
	Speed     string `json:"speed"`
	Units     string `json:"units,omitempty"`
	Height    string `json:"height"`
}

type ForecastVisibility struct {
	Symbol     string `json:"symbol"`
	Visibility string `json:"visibility"`
	Units      string `json:"units,omitempty"`
}

type ForecastCloud struct {
	Symbol   string `json:"symbol"`
	Coverage string `json:"coverage"`
	Altitude string `json:"altitude"`
	Special  string `json:"special,omitempty"`
}

func (c *Client) GetWeatherObservations(ctx context.Context, r WeatherObservationsRequest) (WeatherObservationsResponse, error) {
	return Do[WeatherObservationsResponse](ctx, c, r)
}

func (c *Client) GetWeatherForecast(ctx context.Context, r WeatherForecastRequest) (WeatherForecast, error) {
	return Do[WeatherForecast](ctx, c, r)
}
