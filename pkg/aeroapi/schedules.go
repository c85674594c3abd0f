package aeroapi

import (
	"context"
	"time"
)

// ScheduledFlightsRequest searches published schedules in [Start, End). The dates are part
// of the path, not the query.
type ScheduledFlightsRequest struct {
	sealed
	Paging
	Start             time.Time
	End               time.Time
	Origin            string
	Destination       string
	Airline           string
	FlightNumber      int
	IncludeCodeshares *bool
}

// NewDayScheduleRequest covers one calendar day at origin, in origin's own timezone.
func NewDayScheduleRequest(origin Airport, dayOfYear, year int) (ScheduledFlightsRequest, error) {
	if origin.Timezone == "" {
		return ScheduledFlightsRequest{}, &InvalidFilterError{Name: "timezone", Reason: "origin airport has no timezone"}
	}
	loc, err := time.LoadLocation(origin.Timezone)
	if err != nil {
		return ScheduledFlightsRequest{}, &InvalidFilterError{Name: "timezone", Reason: err.Error()}
	}
	code := origin.DisplayCode()
	if code == "" {
		return ScheduledFlightsRequest{}, &MissingIdentifierError{Request: "GetSchedules"}
	}
	start, end := DayRange(dayOfYear, year, loc)
	return ScheduledFlightsRequest{Start: start, End: end, Origin: code}, nil
}

func (r ScheduledFlightsRequest) Path() (string, error) {
	if r.Start.IsZero() || r.End.IsZero() {
		return "", &MissingIdentifierError{Request: r.Operation()}
	}
	if !r.Start.Before(r.End) {
		return "", &StartAfterEndError{Start: r.Start, End: r.End}
	}
	return buildPath(r.Operation(), "/schedules/%s/%s", formatDate(r.Start), formatDate(r.End))
}

func (r ScheduledFlightsRequest) Filters() []Filter {
	var out []Filter
	if r.Origin != "" {
		out = append(out, Origin(r.Origin))
	}
	if r.Destination != "" {
		out = append(out, Destination(r.Destination))
	}
	if r.Airline != "" {
		out = append(out, AirlineCode(r.Airline))
	}
	if r.FlightNumber != 0 {
		out = append(out, FlightNumber(r.FlightNumber))
	}
	if r.IncludeCodeshares != nil {
		out = append(out, IncludeCodeshares(*r.IncludeCodeshares))
	}
	return append(out, r.Paging.filters()...)
}

func (r ScheduledFlightsRequest) Operation() string { return "GetSchedules" }

type ScheduledFlightsResponse struct {
	Page
	Scheduled []ScheduledFlight `json:"scheduled"`
}

type ScheduledFlight struct {
	Ident              string      `json:"ident"`
	IdentICAO          string      `json:"ident_icao,omitempty"`
	IdentIATA          string      `json:"ident_iata,omitempty"`
	ActualIdent        string      `json:"actual_ident,omitempty"`
	ActualIdentICAO    string      `json:"actual_ident_icao,omitempty"`
	ActualIdentIATA    string      `json:"actual_ident_iata,omitempty"`
	AircraftType       string      `json:"aircraft_type,omitempty"`
	ScheduledIn        Time        `json:"scheduled_in"`
	ScheduledOut       Time        `json:"scheduled_out"`
	Origin             string      `json:"origin"`
	OriginICAO         string      `json:"origin_icao,omitempty"`
	OriginIATA         string      `json:"origin_iata,omitempty"`
	OriginLID          string      `json:"origin_lid,omitempty"`
	Destination        string      `json:"destination"`
	DestinationICAO    string      `json:"destination_icao,omitempty"`
	DestinationIATA    string      `json:"destination_iata,omitempty"`
	DestinationLID     string      `json:"destination_lid,omitempty"`
	FAFlightID         string      `json:"fa_flight_id,omitempty"`
	MealService        string      `json:"meal_service,omitempty"`
	SeatsCabinBusiness *int        `json:"seats_cabin_business,omitempty"`
	SeatsCabinCoach    *int        `json:"seats_cabin_coach,omitempty"`
	SeatsCabinFirst    *int        `json:"seats_cabin_first,omitempty"`
	Codeshares         []Codeshare `json:"codeshares,omitempty"`
}

// IsCodeshare reports whether f is a marketing alias of another operating flight.
func (f ScheduledFlight) IsCodeshare() bool { return f.ActualIdent != "" }

type Codeshare struct {
	Ident       string `json:"ident"`
	IdentICAO   string `json:"ident_icao,omitempty"`
	IdentIATA   string `json:"ident_iata,omitempty"`
	ActualIdent string `json:"actual_ident,omitempty"`
}

func codeshareOf(f ScheduledFlight) Codeshare {
	return Codeshare{Ident: f.Ident, IdentICAO: f.IdentICAO, IdentIATA: f.IdentIATA, ActualIdent: f.ActualIdent}
}

// MergeCodeshares folds marketing flights into the flight that operates them. Operating
// flights keep their input order. Marketing flights whose operating flight is absent are
// grouped by operating ident and a synthesized operating flight is appended per group, in
// order of first appearance.
func MergeCodeshares(flights []ScheduledFlight) []ScheduledFlight {
	var (
		out      []ScheduledFlight
		parents  = map[string]int{}
		orphans  = map[string]int{}
		orphaned []ScheduledFlight
	)
	for _, f := range flights {
		if !f.IsCodeshare() {
			parents[f.Ident] = len(out)
			f.Codeshares = append([]Codeshare(nil), f.Codeshares...)
			out = append(out, f)
		}
	}
	for _, f := range flights {
		if !f.IsCodeshare() {
			continue
		}
		if i, ok := parents[f.ActualIdent]; ok {
			out[i].Codeshares = append(out[i].Codeshares, codeshareOf(f))
			continue
		}
		i, ok := orphans[f.ActualIdent]
		if !ok {
			op := f
			op.Ident, op.IdentICAO, op.IdentIATA = f.ActualIdent, f.ActualIdentICAO, f.ActualIdentIATA
			op.ActualIdent, op.ActualIdentICAO, op.ActualIdentIATA = "", "", ""
			op.Codeshares = nil
			i = len(orphaned)
			orphans[f.ActualIdent] = i
			orphaned = append(orphaned, op)
		}
		orphaned[i].Codeshares = append(orphaned[i].Codeshares, codeshareOf(f))
	}
	return append(out, orphaned...)
}

// GetSchedules returns scheduled flights with codeshares folded into their operating flight.
// An empty schedule is an EmptyResultError.
func (c *Client) GetSchedules(ctx context.Context, r ScheduledFlightsRequest) (ScheduledFlightsResponse, error) {
	resp, err := do(ctx, c, r, func(resp *ScheduledFlightsResponse) error {
		if len(resp.Scheduled) == 0 {
			return &EmptyResultError{Resource: "schedule"}
		}
		return nil
	})
	if err != nil {
		return ScheduledFlightsResponse{}, err
	}
	resp.Scheduled = MergeCodeshares(resp.Scheduled)
	return resp, nil
}
