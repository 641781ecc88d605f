// Package nav maps facet state to and from the shareable location surface
// (query parameters plus an event-anchor fragment) and plans the scroll and
// highlight side effects as data, so none of it needs a browser to test.
package nav

import (
	"net/url"
	"strconv"

	"chronicle/internal/timeline/filter"
	"chronicle/internal/timeline/store"
	"chronicle/pkg/slug"
)

// Location query parameter names. These are the bookmarkable contract and
// must not change.
const (
	ParamCategory    = "category"
	ParamSubcategory = "subCategory"
	ParamYear        = "year"
	ParamSearch      = "q"
)

// Location is the external shareable navigation state.
type Location struct {
	Query url.Values `json:"query"`
	// Fragment carries an event anchor on deep links, "" otherwise.
	Fragment string `json:"fragment,omitempty"`
}

// Anchor derives the fragment token for an event title: lower-cased,
// whitespace runs become hyphens, non-word non-hyphen characters stripped.
func Anchor(title string) string {
	return slug.Make(title)
}

// Encode renders facets as location query parameters. Default axes are
// omitted so shared links stay minimal.
func Encode(facets filter.Facets) url.Values {
	values := url.Values{}
	if facets.Category != "" {
		values.Set(ParamCategory, slug.Make(facets.Category))
	}
	if facets.Subcategory != "" && facets.Subcategory != filter.SubcategoryAll {
		values.Set(ParamSubcategory, slug.Make(facets.Subcategory))
	}
	if facets.Year != 0 {
		values.Set(ParamYear, strconv.Itoa(facets.Year))
	}
	if facets.SearchText != "" {
		values.Set(ParamSearch, facets.SearchText)
	}
	return values
}

// Decode resolves location parameters against a subject's store. Unknown or
// missing tokens fall back rather than failing: the first available category
// and the all-subcategories view. Decode never returns an error; a mangled
// link degrades to the default view.
func Decode(values url.Values, st *store.Store) filter.Facets {
	facets := filter.Facets{
		Category:    st.FirstCategory(),
		Subcategory: filter.SubcategoryAll,
	}

	if token := values.Get(ParamCategory); token != "" {
		for _, name := range st.CategoryNames() {
			if slug.Make(name) == token {
				facets.Category = name
				break
			}
		}
	}
	if token := values.Get(ParamSubcategory); token != "" {
		for _, name := range st.Subcategories(facets.Category) {
			if slug.Make(name) == token {
				facets.Subcategory = name
				break
			}
		}
	}
	if raw := values.Get(ParamYear); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil && year > 0 {
			facets.Year = year
		}
	}
	facets.SearchText = values.Get(ParamSearch)
	return facets
}
