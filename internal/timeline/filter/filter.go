// Package filter computes the visible subset of a timeline store for one
// facet selection, plus the facet counts a filter picker needs.
//
// Search is deliberately best-effort over article text: only articles already
// loaded by the progressive loader are searched, so identical search text can
// match more events as loading proceeds. Callers must not "fix" this by
// forcing a full load.
package filter

import (
	"strconv"
	"strings"

	artmodels "chronicle/internal/article/models"
	"chronicle/internal/timeline/models"
	"chronicle/internal/timeline/store"
)

// SubcategoryAll selects every subcategory of the active category, grouped in
// table order.
const SubcategoryAll = "All"

// Facets is one complete filter selection. All axes combine with AND.
type Facets struct {
	Category string `json:"category"`
	// Subcategory narrows to one subcategory; "" and SubcategoryAll both
	// mean no narrowing.
	Subcategory string `json:"sub_category"`
	// Year filters events whose Years set contains it; 0 means no year
	// filter.
	Year int `json:"year,omitempty"`
	// SearchText matches case-insensitively against event title, summary,
	// point dates and descriptions, years, the primary date, and the
	// title/subtitle/body of already-loaded articles.
	SearchText string `json:"search_text,omitempty"`
}

// IsDefault reports whether no axis narrows anything beyond the default
// category. It exists for labeling; the filter path is identical either way.
func (f Facets) IsDefault(st *store.Store) bool {
	return (f.Category == "" || f.Category == st.FirstCategory()) &&
		(f.Subcategory == "" || f.Subcategory == SubcategoryAll) &&
		f.Year == 0 && f.SearchText == ""
}

// ArticleLookup exposes the loader's fetched set to search. A nil lookup
// means no article text is available yet.
type ArticleLookup interface {
	Article(id string) (artmodels.Article, bool)
}

// Group is one subcategory's visible events, sorted most recent first.
type Group struct {
	Name   string         `json:"name"`
	Events []models.Event `json:"events"`
}

// FilteredView is the visible subset for one facet selection. Groups keep
// subcategory table order.
type FilteredView struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Groups      []Group `json:"groups"`
	EventCount  int     `json:"event_count"`
}

// Filter computes the visible view. Cost is proportional to the active main
// category only: the store's per-category index is pre-sorted, so this is a
// single filtered walk of that category.
func Filter(st *store.Store, facets Facets, loaded ArticleLookup) FilteredView {
	category := facets.Category
	if !st.HasCategory(category) {
		category = st.FirstCategory()
	}
	view := FilteredView{
		Category:    category,
		Description: st.CategoryDescription(category),
	}
	if category == "" {
		return view
	}

	needle := strings.ToLower(strings.TrimSpace(facets.SearchText))
	for _, sub := range st.Subcategories(category) {
		if facets.Subcategory != "" && facets.Subcategory != SubcategoryAll && facets.Subcategory != sub {
			continue
		}
		var events []models.Event
		for _, ev := range st.Events(category, sub) {
			if matches(ev, facets.Year, needle, loaded) {
				events = append(events, ev)
			}
		}
		if len(events) == 0 {
			continue
		}
		view.Groups = append(view.Groups, Group{Name: sub, Events: events})
		view.EventCount += len(events)
	}
	return view
}

// CountForCategory counts the events in the named category that survive the
// active year and search filters. The active category/subcategory selection
// is ignored so counts answer "how many exist", not "how many are shown".
func CountForCategory(st *store.Store, category string, facets Facets, loaded ArticleLookup) int {
	needle := strings.ToLower(strings.TrimSpace(facets.SearchText))
	if facets.Year == 0 && needle == "" {
		return st.EventCount(category)
	}
	total := 0
	for _, sub := range st.Subcategories(category) {
		total += countGroup(st, category, sub, facets.Year, needle, loaded)
	}
	return total
}

// CountForSubcategory is CountForCategory narrowed to one subcategory.
func CountForSubcategory(st *store.Store, category, subcategory string, facets Facets, loaded ArticleLookup) int {
	needle := strings.ToLower(strings.TrimSpace(facets.SearchText))
	return countGroup(st, category, subcategory, facets.Year, needle, loaded)
}

func countGroup(st *store.Store, category, sub string, year int, needle string, loaded ArticleLookup) int {
	n := 0
	for _, ev := range st.Events(category, sub) {
		if matches(ev, year, needle, loaded) {
			n++
		}
	}
	return n
}

func matches(ev models.Event, year int, needle string, loaded ArticleLookup) bool {
	if year != 0 && !ev.HasYear(year) {
		return false
	}
	if needle == "" {
		return true
	}
	return matchesText(ev, needle, loaded)
}

// matchesText tries each text surface independently; any one hit suffices.
func matchesText(ev models.Event, needle string, loaded ArticleLookup) bool {
	if contains(ev.Title, needle) || contains(ev.Summary, needle) {
		return true
	}
	for _, p := range ev.Points {
		if contains(p.Date, needle) || contains(p.Description, needle) {
			return true
		}
	}
	for _, y := range ev.Years {
		if contains(strconv.Itoa(y), needle) {
			return true
		}
	}
	if contains(ev.PrimaryDate(), needle) {
		return true
	}
	if loaded == nil {
		return false
	}
	for _, p := range ev.Points {
		for _, id := range p.SourceIDs {
			art, ok := loaded.Article(id)
			if !ok {
				// Pending articles are not searched; the result set
				// may grow as loading completes.
				continue
			}
			if contains(art.Title, needle) || contains(art.Subtitle, needle) || contains(art.Body, needle) {
				return true
			}
		}
	}
	return false
}

func contains(haystack, needle string) bool {
	return haystack != "" && strings.Contains(strings.ToLower(haystack), needle)
}
