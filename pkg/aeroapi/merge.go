package aeroapi

import "slices"

// MergeOutcome tells whether a merge updated a cached entity or passed the fresh one through.
type MergeOutcome int

const (
	Fresh MergeOutcome = iota
	Merged
)

func (o MergeOutcome) String() string {
	if o == Merged {
		return "merged"
	}
	return "fresh"
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst **T, v *T) {
	if v != nil {
		c := *v
		*dst = &c
	}
}

// MergeAirport copies the network-sourced fields of fresh onto the cached airport matching key
// (or fresh's own codes) and returns the updated cached copy. Without a match fresh is returned
// untouched and the cache is left as is.
//
// Only fields set in fresh are copied. AeroAPI omits fields it has no value for, and a decoded
// payload cannot tell an omitted field from a cleared one, so an empty code or city never wipes
// what the cache already knows.
func (c *ReferenceCache) MergeAirport(fresh Airport, key string) (Airport, MergeOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := lookupCode(c.airportIdx, key)
	for _, code := range []string{fresh.CodeICAO, fresh.AirportCode, fresh.CodeIATA} {
		if ok {
			break
		}
		i, ok = lookupCode(c.airportIdx, code)
	}
	if !ok {
		return fresh, Fresh
	}

	cached := &c.airports[i]
	setString(&cached.AirportCode, fresh.AirportCode)
	setString(&cached.CodeICAO, fresh.CodeICAO)
	setString(&cached.CodeIATA, fresh.CodeIATA)
	setString(&cached.CodeLID, fresh.CodeLID)
	setString(&cached.Name, fresh.Name)
	setString(&cached.Type, fresh.Type)
	setPtr(&cached.Elevation, fresh.Elevation)
	setString(&cached.City, fresh.City)
	setString(&cached.State, fresh.State)
	setPtr(&cached.Latitude, fresh.Latitude)
	setPtr(&cached.Longitude, fresh.Longitude)
	setString(&cached.Timezone, fresh.Timezone)
	setString(&cached.CountryCode, fresh.CountryCode)
	setString(&cached.WikiURL, fresh.WikiURL)
	setString(&cached.AirportInfoURL, fresh.AirportInfoURL)
	if len(fresh.Alternatives) > 0 {
		cached.Alternatives = slices.Clone(fresh.Alternatives)
	}
	c.indexAirport(i)
	return *cached, Merged
}

// MergeAirline is MergeAirport for operators.
func (c *ReferenceCache) MergeAirline(fresh Airline, key string) (Airline, MergeOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := lookupCode(c.airlineIdx, key)
	for _, code := range []string{fresh.ICAO, fresh.IATA} {
		if ok {
			break
		}
		i, ok = lookupCode(c.airlineIdx, code)
	}
	if !ok {
		return fresh, Fresh
	}

	cached := &c.airlines[i]
	setString(&cached.Callsign, fresh.Callsign)
	setString(&cached.Name, fresh.Name)
	setString(&cached.Shortname, fresh.Shortname)
	setString(&cached.Country, fresh.Country)
	setString(&cached.Location, fresh.Location)
	setString(&cached.URL, fresh.URL)
	setString(&cached.WikiURL, fresh.WikiURL)
	if len(fresh.Alternatives) > 0 {
		cached.Alternatives = slices.Clone(fresh.Alternatives)
	}
	return *cached, Merged
}

// MergeAircraft is MergeAirport for aircraft types.
func (c *ReferenceCache) MergeAircraft(fresh Aircraft, key string) (Aircraft, MergeOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := lookupCode(c.aircraftIdx, key)
	if !ok && fresh.Ident != "" {
		i, ok = lookupCode(c.aircraftIdx, fresh.Ident)
	}
	if !ok {
		return fresh, Fresh
	}

	cached := &c.aircraft[i]
	setString(&cached.Manufacturer, fresh.Manufacturer)
	setString(&cached.Type, fresh.Type)
	setString(&cached.Description, fresh.Description)
	setPtr(&cached.EngineCount, fresh.EngineCount)
	setString(&cached.EngineType, fresh.EngineType)
	return *cached, Merged
}
