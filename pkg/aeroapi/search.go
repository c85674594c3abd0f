package aeroapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// DefaultSearchPages is the max_pages sent with an advanced search when none is given.
const DefaultSearchPages = 5

// Bounds is a lat/lon box. Corners may be given in any order.
type Bounds struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

// BoundsQuery selects flights inside b below maxAltitude (hundreds of feet).
func BoundsQuery(b Bounds, maxAltitude int) string {
	lat1, lat2 := ordered(b.MinLatitude, b.MaxLatitude)
	lon1, lon2 := ordered(b.MinLongitude, b.MaxLongitude)
	return fmt.Sprintf("{range lat %s %s} {range lon %s %s} {< alt %d}",
		formatCoord(lat1), formatCoord(lat2), formatCoord(lon1), formatCoord(lon2), maxAltitude)
}

func OriginQuery(code string) string              { return "{orig " + code + "}" }
func DestinationQuery(code string) string         { return "{dest " + code + "}" }
func OriginOrDestinationQuery(code string) string { return "{orig_or_dest " + code + "}" }

// AndQuery joins terms; the API treats space separated terms as a conjunction.
func AndQuery(terms ...string) string { return strings.Join(terms, " ") }

func ordered(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}

func formatCoord(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

type AdvancedSearchRequest struct {
	sealed
	Query  string
	Cursor string
	// MaxPages defaults to DefaultSearchPages when zero.
	MaxPages int
}

func (r AdvancedSearchRequest) Path() (string, error) { return "/flights/search/advanced", nil }

func (r AdvancedSearchRequest) Filters() []Filter {
	pages := r.MaxPages
	if pages == 0 {
		pages = DefaultSearchPages
	}
	return append([]Filter{SearchQuery(r.Query), MaxPages(pages)}, Paging{Cursor: r.Cursor}.filters()...)
}

func (r AdvancedSearchRequest) Operation() string { return "SearchFlights" }

func (c *Client) SearchFlights(ctx context.Context, r AdvancedSearchRequest) (FlightsResponse, error) {
	return Do[FlightsResponse](ctx, c, r)
}
