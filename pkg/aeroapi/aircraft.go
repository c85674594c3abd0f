package aeroapi

import "context"

type AircraftTypeRequest struct {
	sealed
	Type string
}

func (r AircraftTypeRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/aircraft/types/%s", r.Type)
}

func (r AircraftTypeRequest) Filters() []Filter { return nil }
func (r AircraftTypeRequest) Operation() string { return "GetAircraftType" }

type AircraftOwnerRequest struct {
	sealed
	Ident string
}

func (r AircraftOwnerRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/aircraft/%s/owner", r.Ident)
}

func (r AircraftOwnerRequest) Filters() []Filter { return nil }
func (r AircraftOwnerRequest) Operation() string { return "GetAircraftOwner" }

type AircraftOwner struct {
	Name      string `json:"name,omitempty"`
	Location  string `json:"location,omitempty"`
	Location2 string `json:"location2,omitempty"`
	Website   string `json:"website,omitempty"`
}

type AircraftOwnerResponse struct {
	Owner AircraftOwner `json:"owner"`
}

type AircraftBlockedRequest struct {
	sealed
	Ident string
}

func (r AircraftBlockedRequest) Path() (string, error) {
	return buildPath(r.Operation(), "/aircraft/%s/blocked", r.Ident)
}

func (r AircraftBlockedRequest) Filters() []Filter { return nil }
func (r AircraftBlockedRequest) Operation() string { return "IsAircraftBlocked" }

type AircraftBlockedResponse struct {
	Blocked bool `json:"blocked"`
}

// GetAircraftType fetches an aircraft type and merges it into the reference cache. The API
// does not echo the type designator, so it is filled in from the request.
func (c *Client) GetAircraftType(ctx context.Context, typ string) (Aircraft, error) {
	aircraft, err := Do[Aircraft](ctx, c, AircraftTypeRequest{Type: typ})
	if err != nil {
		return Aircraft{}, err
	}
	if aircraft.Ident == "" {
		aircraft.Ident = typ
	}
	return c.mergeAircraft(ctx, aircraft, typ), nil
}

func (c *Client) GetAircraftOwner(ctx context.Context, registration string) (AircraftOwner, error) {
	resp, err := Do[AircraftOwnerResponse](ctx, c, AircraftOwnerRequest{Ident: registration})
	if err != nil {
		return AircraftOwner{}, err
	}
	return resp.Owner, nil
}

// IsAircraftBlocked reports whether the owner asked FlightAware to hide the aircraft.
func (c *Client) IsAircraftBlocked(ctx context.Context, ident string) (bool, error) {
	resp, err := Do[AircraftBlockedResponse](ctx, c, AircraftBlockedRequest{Ident: ident})
	if err != nil {
		return false, err
	}
	return resp.Blocked, nil
}
