package aeroapi

import "context"

type DisruptionEntityType string

const (
	DisruptionAirline     DisruptionEntityType = "airline"
	DisruptionOrigin      DisruptionEntityType = "origin"
	DisruptionDestination DisruptionEntityType = "destination"
)

// DisruptionCountsRequest with an empty Code lists every entity of EntityType. TimePeriod
// defaults to today.
type DisruptionCountsRequest struct {
	sealed
	Paging
	EntityType DisruptionEntityType
	Code       string
	TimePeriod TimePeriod
}

func (r DisruptionCountsRequest) Path() (string, error) {
	switch r.EntityType {
	case DisruptionAirline, DisruptionOrigin, DisruptionDestination:
	default:
		return "", &InvalidFilterError{Name: "entity_type", Reason: "unknown disruption entity " + string(r.EntityType)}
	}
	if r.Code == "" {
		return "/disruption_counts/" + string(r.EntityType), nil
	}
	return buildPath(r.Operation(), "/disruption_counts/"+string(r.EntityType)+"/%s", r.Code)
}

func (r DisruptionCountsRequest) Filters() []Filter {
	period := r.TimePeriod
	if period == "" {
		period = PeriodToday
	}
	return append([]Filter{period}, r.Paging.filters()...)
}

func (r DisruptionCountsRequest) Operation() string { return "GetDisruptionCounts" }

type DisruptionCountsResponse struct {
	Page
	Entities                    []DisruptionEntity `json:"entities"`
	TotalCancellationsNational  int                `json:"total_cancellations_national"`
	TotalCancellationsWorldwide int                `json:"total_cancellations_worldwide"`
	TotalDelaysWorldwide        int                `json:"total_delays_worldwide"`
}

type DisruptionEntity struct {
	Cancellations int    `json:"cancellations"`
	Delays        int    `json:"delays"`
	Total         int    `json:"total"`
	EntityName    string `json:"entity_name,omitempty"`
	EntityID      string `json:"entity_id,omitempty"`
}

func (c *Client) GetDisruptionCounts(ctx context.Context, r DisruptionCountsRequest) (DisruptionCountsResponse, error) {
	return Do[DisruptionCountsResponse](ctx, c, r)
}

// GetDisruptionEntity returns the counts of a single airline or airport.
func (c *Client) GetDisruptionEntity(ctx context.Context, typ DisruptionEntityType, code string, period TimePeriod) (DisruptionEntity, error) {
	if code == "" {
		return DisruptionEntity{}, &MissingIdentifierError{Request: "GetDisruptionEntity"}
	}
	return Do[DisruptionEntity](ctx, c, DisruptionCountsRequest{EntityType: typ, Code: code, TimePeriod: period})
}
