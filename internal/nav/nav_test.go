package nav

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle/internal/timeline/filter"
	"chronicle/internal/timeline/models"
	"chronicle/internal/timeline/store"
)

func buildStore() *store.Store {
	ordering := models.Ordering{Categories: []models.CategoryOrder{
		{Name: "Creative Works", Subcategories: []string{"Albums"}},
		{Name: "Incidents & Controversies", Subcategories: []string{"Legal & Scandal", "Feuds"}},
	}}
	content := models.SubjectContent{
		SubjectID: "subject-1",
		Categories: []models.CategoryContent{
			{
				Name: "Creative Works",
				Subcategories: map[string][]models.Event{
					"Albums": {{Title: "Debut Album", Points: []models.TimelinePoint{{Date: "2015"}}}},
				},
			},
			{
				Name: "Incidents & Controversies",
				Subcategories: map[string][]models.Event{
					"Legal & Scandal": {{Title: "Contract Dispute", Points: []models.TimelinePoint{{Date: "2019-04"}}}},
					"Feuds":           {{Title: "Award Show Feud", Points: []models.TimelinePoint{{Date: "2016-02-28"}}}},
				},
			},
		},
	}
	return store.Build(content, ordering)
}

func TestEncodeSlugTransform(t *testing.T) {
	values := Encode(filter.Facets{
		Category:    "Incidents & Controversies",
		Subcategory: "Legal & Scandal",
	})
	assert.Equal(t, "incidents-and-controversies", values.Get(ParamCategory))
	assert.Equal(t, "legal-and-scandal", values.Get(ParamSubcategory))
	assert.Equal(t, "category=incidents-and-controversies&subCategory=legal-and-scandal", values.Encode())
}

func TestEncodeOmitsDefaults(t *testing.T) {
	values := Encode(filter.Facets{Category: "Creative Works", Subcategory: filter.SubcategoryAll})
	assert.Equal(t, "category=creative-works", values.Encode())
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	st := buildStore()
	reachable := []filter.Facets{
		{Category: "Creative Works", Subcategory: filter.SubcategoryAll},
		{Category: "Creative Works", Subcategory: "Albums"},
		{Category: "Incidents & Controversies", Subcategory: filter.SubcategoryAll},
		{Category: "Incidents & Controversies", Subcategory: "Legal & Scandal"},
		{Category: "Incidents & Controversies", Subcategory: "Feuds", Year: 2016},
		{Category: "Creative Works", Subcategory: "Albums", Year: 2015, SearchText: "debut"},
	}
	for _, facets := range reachable {
		assert.Equal(t, facets, Decode(Encode(facets), st), "facets %+v", facets)
	}
}

func TestDecodeFallbacks(t *testing.T) {
	st := buildStore()

	t.Run("unknown category falls back to first", func(t *testing.T) {
		values := url.Values{ParamCategory: {"sports"}}
		facets := Decode(values, st)
		assert.Equal(t, "Creative Works", facets.Category)
		assert.Equal(t, filter.SubcategoryAll, facets.Subcategory)
	})

	t.Run("subcategory from another category falls back to All", func(t *testing.T) {
		values := url.Values{
			ParamCategory:    {"creative-works"},
			ParamSubcategory: {"legal-and-scandal"},
		}
		facets := Decode(values, st)
		assert.Equal(t, "Creative Works", facets.Category)
		assert.Equal(t, filter.SubcategoryAll, facets.Subcategory)
	})

	t.Run("unparseable year is dropped", func(t *testing.T) {
		values := url.Values{ParamYear: {"someday"}}
		assert.Zero(t, Decode(values, st).Year)
	})

	t.Run("empty location is the default view", func(t *testing.T) {
		facets := Decode(url.Values{}, st)
		assert.Equal(t, "Creative Works", facets.Category)
		assert.Equal(t, filter.SubcategoryAll, facets.Subcategory)
	})
}

func TestApplyFacetsChangedPreservesScroll(t *testing.T) {
	st := buildStore()
	state := ViewState{Facets: Decode(url.Values{}, st)}

	next, effects := Apply(st, state, FacetsChanged{
		Facets:       filter.Facets{Category: "Incidents & Controversies", Subcategory: filter.SubcategoryAll},
		ScrollOffset: 1280,
	})

	require.Len(t, effects, 2)
	replace, ok := effects[0].(ReplaceLocation)
	require.True(t, ok)
	assert.Equal(t, "incidents-and-controversies", replace.Location.Query.Get(ParamCategory))
	assert.Empty(t, replace.Location.Fragment)

	restore, ok := effects[1].(RestoreScroll)
	require.True(t, ok)
	assert.Equal(t, 1280, restore.Offset)

	// The restore repeats on the next render cycle, then stops.
	next, effects = Apply(st, next, RenderSettled{})
	require.Len(t, effects, 1)
	assert.Equal(t, RestoreScroll{Offset: 1280}, effects[0])

	_, effects = Apply(st, next, RenderSettled{})
	assert.Empty(t, effects)
}

func TestApplyDeepLink(t *testing.T) {
	st := buildStore()

	state, effects := Apply(st, ViewState{}, DeepLinkOpened{Anchor: "contract-dispute"})

	assert.Equal(t, "Incidents & Controversies", state.Facets.Category)
	assert.Equal(t, "Legal & Scandal", state.Facets.Subcategory)
	assert.Equal(t, []string{"contract-dispute"}, state.OpenAnchors)

	require.Len(t, effects, 1)
	replace := effects[0].(ReplaceLocation)
	assert.Equal(t, "contract-dispute", replace.Location.Fragment)

	// Scroll and highlight run only after layout settles.
	_, effects = Apply(st, state, RenderSettled{})
	require.Len(t, effects, 1)
	scroll := effects[0].(ScrollToEvent)
	assert.Equal(t, "contract-dispute", scroll.Anchor)
	assert.Equal(t, HighlightDuration, scroll.Highlight)
	assert.Equal(t, SettleDelay, scroll.Delay)
}

func TestApplyDeepLinkUnknownAnchor(t *testing.T) {
	st := buildStore()

	state, effects := Apply(st, ViewState{}, DeepLinkOpened{Anchor: "never-happened"})

	assert.Equal(t, "Creative Works", state.Facets.Category)
	assert.Equal(t, filter.SubcategoryAll, state.Facets.Subcategory)
	require.Len(t, effects, 1)
	_, isReplace := effects[0].(ReplaceLocation)
	assert.True(t, isReplace)

	_, effects = Apply(st, state, RenderSettled{})
	assert.Empty(t, effects, "no scroll effect for an unresolvable anchor")
}

func TestApplyLocationChanged(t *testing.T) {
	st := buildStore()

	t.Run("back navigation updates facets without rewriting location", func(t *testing.T) {
		loc := Location{Query: url.Values{ParamCategory: {"incidents-and-controversies"}}}
		state, effects := Apply(st, ViewState{}, LocationChanged{Location: loc})
		assert.Equal(t, "Incidents & Controversies", state.Facets.Category)
		assert.Empty(t, effects)
	})

	t.Run("external link with fragment behaves as a deep link", func(t *testing.T) {
		loc := Location{
			Query:    url.Values{ParamCategory: {"incidents-and-controversies"}},
			Fragment: "award-show-feud",
		}
		state, _ := Apply(st, ViewState{}, LocationChanged{Location: loc})
		assert.Equal(t, "Feuds", state.Facets.Subcategory)

		_, effects := Apply(st, state, RenderSettled{})
		require.Len(t, effects, 1)
		assert.Equal(t, "award-show-feud", effects[0].(ScrollToEvent).Anchor)
	})
}
