package aeroapi

// Airport mirrors AeroAPI's airport object. The trailing block holds fields that only the bundled
// reference data carries; the API never sends them and merges never touch them.
type Airport struct {
	ID             int       `json:"id,omitempty"`
	AirportCode    string    `json:"airport_code,omitempty"`
	CodeICAO       string    `json:"code_icao,omitempty"`
	CodeIATA       string    `json:"code_iata,omitempty"`
	CodeLID        string    `json:"code_lid,omitempty"`
	Name           string    `json:"name,omitempty"`
	Type           string    `json:"type,omitempty"`
	Elevation      *float64  `json:"elevation,omitempty"`
	City           string    `json:"city,omitempty"`
	State          string    `json:"state,omitempty"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Timezone       string    `json:"timezone,omitempty"`
	CountryCode    string    `json:"country_code,omitempty"`
	WikiURL        string    `json:"wiki_url,omitempty"`
	AirportInfoURL string    `json:"airport_info_url,omitempty"`
	Alternatives   []Airport `json:"alternatives,omitempty"`

	Continent string `json:"continent,omitempty"`
	Region    string `json:"region,omitempty"`
	Country   string `json:"country,omitempty"`
	Link      string `json:"link,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Icon      string `json:"icon,omitempty"`
}

// DisplayCode prefers IATA, then ICAO, then LID, then the API's own airport_code.
func (a Airport) DisplayCode() string {
	for _, c := range []string{a.CodeIATA, a.CodeICAO, a.CodeLID, a.AirportCode} {
		if c != "" {
			return c
		}
	}
	return ""
}

// Airline mirrors AeroAPI's operator object plus locally curated fields.
type Airline struct {
	ID           int       `json:"id,omitempty"`
	ICAO         string    `json:"icao,omitempty"`
	IATA         string    `json:"iata,omitempty"`
	Callsign     string    `json:"callsign,omitempty"`
	Name         string    `json:"name,omitempty"`
	Country      string    `json:"country,omitempty"`
	Location     string    `json:"location,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Shortname    string    `json:"shortname,omitempty"`
	URL          string    `json:"url,omitempty"`
	WikiURL      string    `json:"wiki_url,omitempty"`
	Alternatives []Airline `json:"alternatives,omitempty"`

	Active       *bool  `json:"active,omitempty"`
	Alliance     string `json:"alliance,omitempty"`
	Website      string `json:"website,omitempty"`
	Reservations string `json:"reservations,omitempty"`
	Loyalty      string `json:"loyalty,omitempty"`
	Facebook     string `json:"facebook,omitempty"`
	Twitter      string `json:"twitter,omitempty"`
	Instagram    string `json:"instagram,omitempty"`
	Icon         string `json:"icon,omitempty"`
}

// Code returns the ICAO code when known, else IATA.
func (a Airline) Code() string {
	if a.ICAO != "" {
		return a.ICAO
	}
	return a.IATA
}

// Aircraft is keyed by its ICAO type designator (Ident).
type Aircraft struct {
	Ident  string   `json:"ident,omitempty"`
	IATA   string   `json:"iata,omitempty"`
	Name   string   `json:"name,omitempty"`
	Cruise *float64 `json:"cruise,omitempty"`
	Range  *int     `json:"range,omitempty"`
	Icon   string   `json:"icon,omitempty"`

	Manufacturer string `json:"manufacturer,omitempty"`
	Type         string `json:"type,omitempty"`
	Description  string `json:"description,omitempty"`
	EngineCount  *int   `json:"engine_count,omitempty"`
	EngineType   string `json:"engine_type,omitempty"`
}
