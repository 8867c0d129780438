package catalog

import "github.com/kbukum/searchlab/search"

var items = []search.Item{
	{ID: 1, Title: "Angular Signals", Description: "Modern reactive state for Angular."},
	{ID: 2, Title: "RxJS switchMap", Description: "Operator that cancels previous requests."},
	{ID: 3, Title: "RxJS mergeMap", Description: "Runs requests in parallel."},
	{ID: 4, Title: "Angular HttpClient", Description: "HTTP client for Angular with Observables."},
	{ID: 5, Title: "TypeScript Advanced Types", Description: "Utilities and patterns for advanced typing."},
	{ID: 6, Title: "Reactive Forms", Description: "Full control over forms with FormGroup."},
	{ID: 7, Title: "Feature-based Architecture", Description: "Organizing scalable Angular projects."},
}

// Items returns a copy of the fixed catalog.
func Items() []search.Item {
	return append([]search.Item(nil), items...)
}

// Match returns every item whose title or description contains term,
// ignoring case, in catalog order.
func Match(all []search.Item, term string) []search.Item {
	out := make([]search.Item, 0, len(all))
	for _, it := range all {
		if it.Matches(term) {
			out = append(out, it)
		}
	}
	return out
}

// SearchPaged matches term against all and returns the requested page.
// Total counts every match.
func SearchPaged(all []search.Item, term string, page, pageSize int) search.PagedResult {
	matches := Match(all, term)
	return search.PagedResult{
		Items: search.Paginate(matches, page, pageSize),
		Total: len(matches),
	}
}
