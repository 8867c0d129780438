package query

import (
	"github.com/kbukum/searchlab/search"
)

// Source is the settable current Query with synchronous change
// notification. It is not goroutine-safe; it belongs to the scheduler
// goroutine that drives the search pipeline.
type Source struct {
	current   search.Query
	nextID    int
	observers []observer
}

type observer struct {
	id int
	fn func(search.Query)
}

// NewSource returns a source holding search.NewQuery().
func NewSource() *Source {
	return &Source{current: search.NewQuery()}
}

// Current returns the current query.
func (s *Source) Current() search.Query { return s.current }

// SetTerm replaces the term and resets the page to 1.
func (s *Source) SetTerm(term string) {
	q := s.current
	q.Term = term
	q.Page = 1
	s.Set(q)
}

// SetPage moves to page. Pages below 1 are clamped to 1.
func (s *Source) SetPage(page int) {
	q := s.current
	q.Page = page
	s.Set(q)
}

// SetFilter replaces the filter mode and resets the page to 1.
func (s *Source) SetFilter(mode search.FilterMode) {
	q := s.current
	q.Filter = mode
	q.Page = 1
	s.Set(q)
}

// Set replaces the query wholesale. Observers run only if the value changed.
func (s *Source) Set(q search.Query) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Filter == "" {
		q.Filter = search.FilterAll
	}
	if q == s.current {
		return
	}
	s.current = q
	for _, o := range append([]observer(nil), s.observers...) {
		o.fn(q)
	}
}

// Subscribe registers fn for future changes. The returned function removes it.
func (s *Source) Subscribe(fn func(search.Query)) (unsubscribe func()) {
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}
