package aeroapi

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/tidwall/match"
	"golang.org/x/text/cases"

	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi/refdata"
)

const (
	AirportsDataset = "airports.json"
	AirlinesDataset = "airlines.json"
	AircraftDataset = "aircraft.json"
)

type codeIndex map[string]int

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (ix codeIndex) add(code string, i int) {
	code = normalizeCode(code)
	if code == "" {
		return
	}
	if _, ok := ix[code]; !ok {
		ix[code] = i
	}
}

func (ix codeIndex) get(code string) (int, bool) {
	i, ok := ix[normalizeCode(code)]
	return i, ok
}

func newIndexes(n int) []codeIndex {
	out := make([]codeIndex, n)
	for i := range out {
		out[i] = codeIndex{}
	}
	return out
}

// ReferenceCache holds the airports, airlines and aircraft types known locally. It is filled once
// by Load and afterwards only changes through the Merge methods.
type ReferenceCache struct {
	mu     sync.RWMutex
	loaded bool

	airports []Airport
	airlines []Airline
	aircraft []Aircraft

	// Ordered by lookup preference.
	airportIdx  []codeIndex // icao, iata, lid, airport_code
	airlineIdx  []codeIndex // icao, iata
	aircraftIdx []codeIndex // ident, iata
}

func NewReferenceCache() *ReferenceCache {
	return &ReferenceCache{
		airportIdx:  newIndexes(4),
		airlineIdx:  newIndexes(2),
		aircraftIdx: newIndexes(2),
	}
}

// LoadDefault loads the datasets embedded in the binary.
func (c *ReferenceCache) LoadDefault() error {
	return c.Load(refdata.FS)
}

// Load reads the three datasets from fsys. Once a load has succeeded further calls are no-ops.
// A failed load publishes nothing.
func (c *ReferenceCache) Load(fsys fs.FS) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return nil
	}

	airports, err := decodeDataset[Airport](fsys, AirportsDataset)
	if err != nil {
		return err
	}
	airlines, err := decodeDataset[Airline](fsys, AirlinesDataset)
	if err != nil {
		return err
	}
	aircraft, err := decodeDataset[Aircraft](fsys, AircraftDataset)
	if err != nil {
		return err
	}

	c.airports, c.airlines, c.aircraft = airports, airlines, aircraft
	for i := range c.airports {
		c.indexAirport(i)
	}
	for i := range c.airlines {
		c.indexAirline(i)
	}
	for i := range c.aircraft {
		c.indexAircraft(i)
	}
	c.loaded = true
	return nil
}

func decodeDataset[T any](fsys fs.FS, name string) ([]T, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &ResourceNotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{Target: name, Payload: data, Err: err}
	}
	return out, nil
}

func (c *ReferenceCache) indexAirport(i int) {
	a := c.airports[i]
	c.airportIdx[0].add(a.CodeICAO, i)
	c.airportIdx[1].add(a.CodeIATA, i)
	c.airportIdx[2].add(a.CodeLID, i)
	c.airportIdx[3].add(a.AirportCode, i)
}

func (c *ReferenceCache) indexAirline(i int) {
	a := c.airlines[i]
	c.airlineIdx[0].add(a.ICAO, i)
	c.airlineIdx[1].add(a.IATA, i)
}

func (c *ReferenceCache) indexAircraft(i int) {
	a := c.aircraft[i]
	c.aircraftIdx[0].add(a.Ident, i)
	c.aircraftIdx[1].add(a.IATA, i)
}

func lookupCode(indexes []codeIndex, code string) (int, bool) {
	for _, ix := range indexes {
		if i, ok := ix.get(code); ok {
			return i, true
		}
	}
	return 0, false
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func lookupPrefix[T any](items []T, name func(T) string, query string) (int, bool) {
	q := fold(query)
	if q == "" {
		return 0, false
	}
	for i, item := range items {
		if strings.HasPrefix(fold(name(item)), q) {
			return i, true
		}
	}
	return 0, false
}

func airportName(a Airport) string   { return a.Name }
func airlineName(a Airline) string   { return a.Name }
func aircraftName(a Aircraft) string { return a.Name }

// FindAirport resolves code as ICAO, then IATA, then LID, then as a name prefix.
func (c *ReferenceCache) FindAirport(code string) (Airport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := lookupCode(c.airportIdx, code)
	if !ok {
		i, ok = lookupPrefix(c.airports, airportName, code)
	}
	if !ok {
		return Airport{}, false
	}
	return c.airports[i], true
}

// FindAirline resolves code as ICAO, then IATA, then as a name prefix.
func (c *ReferenceCache) FindAirline(code string) (Airline, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := lookupCode(c.airlineIdx, code)
	if !ok {
		i, ok = lookupPrefix(c.airlines, airlineName, code)
	}
	if !ok {
		return Airline{}, false
	}
	return c.airlines[i], true
}

// FindAircraft resolves a type designator, then an IATA type code, then a name prefix.
func (c *ReferenceCache) FindAircraft(code string) (Aircraft, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := lookupCode(c.aircraftIdx, code)
	if !ok {
		i, ok = lookupPrefix(c.aircraft, aircraftName, code)
	}
	if !ok {
		return Aircraft{}, false
	}
	return c.aircraft[i], true
}

func search[T any](items []T, keys func(T) []string, pattern string) []T {
	p := fold(pattern)
	if p == "" {
		return nil
	}
	var out []T
	for _, item := range items {
		for _, k := range keys(item) {
			if k != "" && match.Match(fold(k), p) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// SearchAirports returns airports whose name, city or any code matches the wildcard pattern
// ("*" and "?"), case-insensitively, in dataset order.
func (c *ReferenceCache) SearchAirports(pattern string) []Airport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return search(c.airports, func(a Airport) []string {
		return []string{a.Name, a.City, a.CodeICAO, a.CodeIATA, a.CodeLID, a.AirportCode}
	}, pattern)
}

// SearchAirlines is SearchAirports for airlines (name, callsign, codes).
func (c *ReferenceCache) SearchAirlines(pattern string) []Airline {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return search(c.airlines, func(a Airline) []string {
		return []string{a.Name, a.Callsign, a.ICAO, a.IATA}
	}, pattern)
}

func (c *ReferenceCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Counts reports the number of airports, airlines and aircraft types held.
func (c *ReferenceCache) Counts() (airports, airlines, aircraft int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.airports), len(c.airlines), len(c.aircraft)
}

// Airports returns a copy of the airport collection.
func (c *ReferenceCache) Airports() []Airport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.airports)
}
