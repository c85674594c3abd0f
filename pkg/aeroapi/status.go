package aeroapi

// FlightStatus is AeroAPI's human readable status string.
type FlightStatus string

const (
	StatusScheduled        FlightStatus = "Scheduled"
	StatusScheduledDelayed FlightStatus = "Scheduled / Delayed"
	StatusOnTime           FlightStatus = "On Time"
	StatusDelayed          FlightStatus = "Delayed"
	StatusEnRoute          FlightStatus = "En Route"
	StatusEnRouteOnTime    FlightStatus = "En Route / On Time"
	StatusEnRouteDelayed   FlightStatus = "En Route / Delayed"
	StatusLeftGate         FlightStatus = "Left Gate"
	StatusTaxiing          FlightStatus = "Taxiing / Left Gate"
	StatusTaxiingDelayed   FlightStatus = "Taxiing / Delayed"
	StatusLandedTaxiing    FlightStatus = "Landed / Taxiing"
	StatusArrived          FlightStatus = "Arrived"
	StatusGateArrival      FlightStatus = "Arrived / Gate Arrival"
	StatusDelayedArrival   FlightStatus = "Arrived / Delayed"
	StatusDiverted         FlightStatus = "Diverted"
	StatusReturnedToGate   FlightStatus = "Returned to Gate"
	StatusCancelled        FlightStatus = "Cancelled"
	StatusUnknown          FlightStatus = "Unknown"
	StatusResultUnknown    FlightStatus = "result unknown"
)

func (s FlightStatus) HasArrived() bool {
	switch s {
	case StatusArrived, StatusGateArrival, StatusDelayedArrival:
		return true
	}
	return false
}

func (s FlightStatus) IsTaxiing() bool {
	switch s {
	case StatusTaxiing, StatusTaxiingDelayed, StatusLandedTaxiing, StatusLeftGate:
		return true
	}
	return false
}

func (s FlightStatus) IsInFlight() bool {
	switch s {
	case StatusOnTime, StatusEnRoute, StatusEnRouteOnTime, StatusEnRouteDelayed, StatusDelayed:
		return true
	}
	return false
}

func (s FlightStatus) IsDelayed() bool {
	switch s {
	case StatusDelayed, StatusEnRouteDelayed, StatusDelayedArrival, StatusTaxiingDelayed, StatusScheduledDelayed:
		return true
	}
	return false
}

func (s FlightStatus) HasDiverted() bool {
	return s == StatusDiverted || s == StatusReturnedToGate
}

// Label collapses the status into the short labels shown on flight boards.
func (s FlightStatus) Label() string {
	switch s {
	case StatusScheduled:
		return "Scheduled"
	case StatusArrived, StatusGateArrival, StatusDelayedArrival:
		return "Arrived"
	case StatusOnTime, StatusEnRouteOnTime, StatusEnRoute:
		return "On Time"
	case StatusTaxiing, StatusTaxiingDelayed, StatusLeftGate, StatusLandedTaxiing:
		return "Taxiing"
	case StatusDelayed, StatusEnRouteDelayed, StatusScheduledDelayed:
		return "Delayed"
	case StatusCancelled:
		return "Cancelled"
	case StatusDiverted:
		return "Diverted"
	case StatusReturnedToGate:
		return "Return to Gate"
	case StatusUnknown, StatusResultUnknown, "":
		return "Status Unknown"
	}
	return string(s)
}

// AltChange is "C" (climbing), "D" (descending) or "-" (level).
type AltChange string

const (
	AltLevel      AltChange = "-"
	AltClimbing   AltChange = "C"
	AltDescending AltChange = "D"
)

// UpdateType is the source of a track position.
type UpdateType string

const (
	UpdateProjected    UpdateType = "P"
	UpdateOceanic      UpdateType = "O"
	UpdateRadarZ       UpdateType = "Z"
	UpdateADSB         UpdateType = "A"
	UpdateMultilateral UpdateType = "M"
	UpdateDatalink     UpdateType = "D"
	UpdateSurface      UpdateType = "X"
	UpdateSpaceADSB    UpdateType = "S"
)
