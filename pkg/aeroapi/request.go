package aeroapi

import (
	"fmt"
	"net/url"
	"strings"
)

// Request describes one AeroAPI call. Implementations live in this package only.
type Request interface {
	// Path is relative to the API base, e.g. "/airports/KTPA".
	Path() (string, error)
	Filters() []Filter
	// Operation names the call in logs, spans and metrics.
	Operation() string
	sealedRequest()
}

type sealed struct{}

func (sealed) sealedRequest() {}

// buildPath escapes every identifier into format. An empty identifier is a precondition
// failure for operation op.
func buildPath(op, format string, ids ...string) (string, error) {
	escaped := make([]any, len(ids))
	for i, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return "", &MissingIdentifierError{Request: op}
		}
		escaped[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, escaped...), nil
}

func historyPrefix(historical bool) string {
	if historical {
		return "/history"
	}
	return ""
}

// Page carries the pagination envelope shared by list responses.
type Page struct {
	Links    *Links `json:"links,omitempty"`
	NumPages int    `json:"num_pages,omitempty"`
}

type Links struct {
	Next string `json:"next,omitempty"`
}

// NextCursor returns the cursor of the next page, or "" on the last page.
func (p Page) NextCursor() string {
	if p.Links == nil || p.Links.Next == "" {
		return ""
	}
	u, err := url.Parse(p.Links.Next)
	if err != nil {
		return ""
	}
	return u.Query().Get(queryCursor)
}

// Paging is embedded by requests that accept max_pages and cursor.
type Paging struct {
	MaxPages int
	Cursor   string
}

func (p Paging) filters() []Filter {
	var out []Filter
	if p.MaxPages != 0 {
		out = append(out, MaxPages(p.MaxPages))
	}
	if p.Cursor != "" {
		out = append(out, Cursor(p.Cursor))
	}
	return out
}
