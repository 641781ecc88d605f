// Package models defines the curated timeline shapes: events, mixed-precision
// timeline points, and the two-level category hierarchy, plus the ordering
// tables that fix display order.
package models

// TimelinePoint is one dated entry within an event. Date is one of "YYYY",
// "YYYY-MM", "YYYY-MM-DD", or malformed; malformed dates are tolerated and
// sort after valid ones.
type TimelinePoint struct {
	Date        string   `json:"date"`
	Description string   `json:"description"`
	SourceIDs   []string `json:"source_ids,omitempty"`
}

// Event is one notable occurrence group. Summary may contain escaped
// punctuation; normalization is a display concern and never happens here.
type Event struct {
	Title   string          `json:"title"`
	Summary string          `json:"summary"`
	Years   []int           `json:"years,omitempty"`
	Points  []TimelinePoint `json:"timeline_points"`
}

// HasYear reports whether the event touches the given calendar year.
func (e Event) HasYear(year int) bool {
	for _, y := range e.Years {
		if y == year {
			return true
		}
	}
	return false
}

// CategoryContent is the raw per-category payload for one subject. The
// subcategory map's iteration order is meaningless; ordering tables decide
// display order.
type CategoryContent struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Subcategories map[string][]Event `json:"subcategories"`
}

// SubjectContent is the raw hierarchical payload for one subject, already
// schema-normalized upstream.
type SubjectContent struct {
	SubjectID  string            `json:"subject_id"`
	Categories []CategoryContent `json:"categories"`
}

// CategoryOrder fixes the display order of one main category and its
// subcategories.
type CategoryOrder struct {
	Name          string
	Description   string
	Subcategories []string
}

// Ordering is the authoritative display-order table for the hierarchy.
// Categories or subcategories absent from a subject's data are skipped,
// never synthesized.
type Ordering struct {
	Categories []CategoryOrder
}

// Subcategories returns the subcategory table for the named category, nil if
// the category is not in the table.
func (o Ordering) Subcategories(category string) []string {
	for _, c := range o.Categories {
		if c.Name == category {
			return c.Subcategories
		}
	}
	return nil
}

// DefaultOrdering returns the compiled-in ordering tables.
func DefaultOrdering() Ordering {
	return Ordering{Categories: []CategoryOrder{
		{
			Name:          "Career Milestones",
			Description:   "Debuts, breakthroughs, awards, and turning points.",
			Subcategories: []string{"Debuts", "Awards & Honors", "Business Ventures", "Retirements & Comebacks"},
		},
		{
			Name:          "Creative Works",
			Description:   "Released work across every medium.",
			Subcategories: []string{"Albums", "Films & Television", "Books", "Collaborations"},
		},
		{
			Name:          "Public Appearances",
			Description:   "Tours, interviews, and live moments.",
			Subcategories: []string{"Tours & Concerts", "Interviews", "Charity & Activism"},
		},
		{
			Name:          "Personal Life",
			Description:   "Relationships, family, and health.",
			Subcategories: []string{"Relationships", "Family", "Health"},
		},
		{
			Name:          "Incidents & Controversies",
			Description:   "Disputes, legal matters, and public fallout.",
			Subcategories: []string{"Legal & Scandal", "Feuds", "Public Statements"},
		},
	}}
}
