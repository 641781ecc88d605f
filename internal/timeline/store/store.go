// Package store holds the immutable in-memory timeline hierarchy for one
// subject. A store is built once per subject load and shared freely
// afterwards; a new subject produces a new store.
package store

import (
	"sort"

	"chronicle/internal/timeline/models"
	"chronicle/pkg/slug"
)

// EventRef locates one event within the hierarchy.
type EventRef struct {
	Category    string
	Subcategory string
	Event       models.Event
}

type category struct {
	name        string
	description string
	// order lists the subcategories present for this subject, in table
	// order. groups holds the events per subcategory, pre-sorted most
	// recent first.
	order      []string
	groups     map[string][]models.Event
	eventCount int
}

// Store is read-only after Build. Slices returned by accessors alias
// internal state and must not be mutated by callers.
type Store struct {
	subjectID  string
	ordering   models.Ordering
	categories []*category
	byName     map[string]*category
	sourceIDs  []string
	anchors    map[string]EventRef
}

// Build constructs the store from the raw subject payload. Construction is
// O(total events) plus sorting, performs defensive defaults (missing maps and
// strings become empty, missing Years are derived from points), and does no
// I/O. Hierarchy order comes from the ordering tables, never from payload or
// map order; categories and subcategories absent from the payload are
// skipped.
func Build(content models.SubjectContent, ordering models.Ordering) *Store {
	raw := make(map[string]models.CategoryContent, len(content.Categories))
	for _, c := range content.Categories {
		raw[c.Name] = c
	}

	st := &Store{
		subjectID: content.SubjectID,
		ordering:  ordering,
		byName:    make(map[string]*category),
		anchors:   make(map[string]EventRef),
	}
	sourceSet := make(map[string]struct{})

	for _, tableCat := range ordering.Categories {
		rawCat, ok := raw[tableCat.Name]
		if !ok {
			continue
		}
		cat := &category{
			name:        tableCat.Name,
			description: rawCat.Description,
			groups:      make(map[string][]models.Event),
		}
		for _, subName := range tableCat.Subcategories {
			rawEvents, ok := rawCat.Subcategories[subName]
			if !ok || len(rawEvents) == 0 {
				continue
			}
			events := normalizeEvents(rawEvents)
			models.SortEvents(events)
			cat.order = append(cat.order, subName)
			cat.groups[subName] = events
			cat.eventCount += len(events)

			for _, ev := range events {
				anchor := slug.Make(ev.Title)
				if _, taken := st.anchors[anchor]; anchor != "" && !taken {
					st.anchors[anchor] = EventRef{Category: cat.name, Subcategory: subName, Event: ev}
				}
				for _, p := range ev.Points {
					for _, id := range p.SourceIDs {
						sourceSet[id] = struct{}{}
					}
				}
			}
		}
		if cat.eventCount == 0 {
			continue
		}
		st.categories = append(st.categories, cat)
		st.byName[cat.name] = cat
	}

	st.sourceIDs = make([]string, 0, len(sourceSet))
	for id := range sourceSet {
		st.sourceIDs = append(st.sourceIDs, id)
	}
	sort.Strings(st.sourceIDs)
	return st
}

// normalizeEvents copies events so later sorting never mutates the caller's
// payload, and backfills Years from points when the payload omitted them.
func normalizeEvents(in []models.Event) []models.Event {
	out := make([]models.Event, len(in))
	copy(out, in)
	for i := range out {
		points := make([]models.TimelinePoint, len(out[i].Points))
		copy(points, out[i].Points)
		models.SortPoints(points)
		out[i].Points = points

		if len(out[i].Years) == 0 {
			out[i].Years = deriveYears(points)
		}
	}
	return out
}

func deriveYears(points []models.TimelinePoint) []int {
	seen := make(map[int]struct{})
	var years []int
	for _, p := range points {
		d := models.ParseDate(p.Date)
		if !d.Valid() {
			continue
		}
		if _, dup := seen[d.Year]; dup {
			continue
		}
		seen[d.Year] = struct{}{}
		years = append(years, d.Year)
	}
	sort.Ints(years)
	return years
}

// SubjectID returns the subject this store was built for.
func (s *Store) SubjectID() string {
	return s.subjectID
}

// Ordering returns the table the store was built against.
func (s *Store) Ordering() models.Ordering {
	return s.ordering
}

// CategoryNames lists the categories present for this subject, in table order.
func (s *Store) CategoryNames() []string {
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.name
	}
	return names
}

// FirstCategory returns the default category, "" for an empty subject.
func (s *Store) FirstCategory() string {
	if len(s.categories) == 0 {
		return ""
	}
	return s.categories[0].name
}

// HasCategory reports whether the named category is present.
func (s *Store) HasCategory(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// CategoryDescription returns the category's description, "" when absent.
func (s *Store) CategoryDescription(name string) string {
	if c, ok := s.byName[name]; ok {
		return c.description
	}
	return ""
}

// Subcategories lists the subcategories present under the named category, in
// table order.
func (s *Store) Subcategories(name string) []string {
	if c, ok := s.byName[name]; ok {
		return c.order
	}
	return nil
}

// Events returns the pre-sorted events for (category, subcategory).
func (s *Store) Events(category, subcategory string) []models.Event {
	if c, ok := s.byName[category]; ok {
		return c.groups[subcategory]
	}
	return nil
}

// EventCount returns the number of events under the named category.
func (s *Store) EventCount(category string) int {
	if c, ok := s.byName[category]; ok {
		return c.eventCount
	}
	return 0
}

// ReferencedSourceIDs returns the deduplicated universe of source-document
// ids referenced anywhere in the hierarchy, in deterministic order. This is
// the loader's fixed total.
func (s *Store) ReferencedSourceIDs() []string {
	return s.sourceIDs
}

// FindEventByAnchor resolves an event-anchor slug to its location in the
// hierarchy. Collisions resolve to the first event in display order.
func (s *Store) FindEventByAnchor(anchor string) (EventRef, bool) {
	ref, ok := s.anchors[anchor]
	return ref, ok
}
