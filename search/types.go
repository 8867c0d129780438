package search

import (
	"strings"

	"github.com/kbukum/searchlab/errors"
)

// FilterMode selects the client-side refinement applied to fetched items.
type FilterMode string

const (
	FilterAll         FilterMode = "all"
	FilterTitle       FilterMode = "title"
	FilterDescription FilterMode = "description"
)

// ParseFilterMode parses a filter name. Matching is case-insensitive and
// the empty string maps to FilterAll.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterTitle:
		return FilterTitle, nil
	case FilterDescription:
		return FilterDescription, nil
	default:
		return "", errors.InvalidInput("filter", "unknown filter mode "+s)
	}
}

// Next cycles all -> title -> description -> all.
func (m FilterMode) Next() FilterMode {
	switch m {
	case FilterAll, "":
		return FilterTitle
	case FilterTitle:
		return FilterDescription
	default:
		return FilterAll
	}
}

func (m FilterMode) String() string {
	if m == "" {
		return string(FilterAll)
	}
	return string(m)
}

// Query is the user's current search intent.
type Query struct {
	Term   string     `json:"term"`
	Page   int        `json:"page"`
	Filter FilterMode `json:"filter"`
}

// NewQuery returns the initial query: empty term on page 1 with no filter.
func NewQuery() Query {
	return Query{Page: 1, Filter: FilterAll}
}

// Item is a single catalog entry.
type Item struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PagedResult is one page of lookup matches. Total counts every match
// before pagination.
type PagedResult struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

// LookupRequest is the input of a lookup provider call.
type LookupRequest struct {
	Term     string `json:"term"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// State is the snapshot published to the UI after every pipeline event.
// An empty Error means no error.
type State struct {
	Loading    bool       `json:"loading"`
	Error      string     `json:"error,omitempty"`
	Results    []Item     `json:"results"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Filter     FilterMode `json:"filter"`
	TotalPages int        `json:"total_pages"`
	HasPrev    bool       `json:"has_prev"`
	HasNext    bool       `json:"has_next"`
}

// HasError reports whether the snapshot carries a user-facing error.
func (s State) HasError() bool { return s.Error != "" }
