package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	artmodels "chronicle/internal/article/models"
	"chronicle/internal/timeline/models"
	"chronicle/internal/timeline/store"
)

type articleMap map[string]artmodels.Article

func (m articleMap) Article(id string) (artmodels.Article, bool) {
	a, ok := m[id]
	return a, ok
}

func buildStore() *store.Store {
	ordering := models.Ordering{Categories: []models.CategoryOrder{
		{Name: "Music", Subcategories: []string{"Albums", "Singles"}},
		{Name: "Film", Subcategories: []string{"Features"}},
	}}
	content := models.SubjectContent{
		SubjectID: "subject-1",
		Categories: []models.CategoryContent{
			{
				Name: "Music",
				Subcategories: map[string][]models.Event{
					"Albums": {
						{Title: "E1", Summary: "debut record", Points: []models.TimelinePoint{
							{Date: "2019-03", Description: "studio sessions", SourceIDs: []string{"a1"}},
						}},
						{Title: "E2", Summary: "sophomore record", Points: []models.TimelinePoint{
							{Date: "2020-08", SourceIDs: []string{"a2"}},
						}},
					},
					"Singles": {
						{Title: "Charity Single", Points: []models.TimelinePoint{{Date: "2020-01"}}},
					},
				},
			},
			{
				Name: "Film",
				Subcategories: map[string][]models.Event{
					"Features": {
						{Title: "E3", Summary: "screen debut", Points: []models.TimelinePoint{{Date: "2020-11-02"}}},
					},
				},
			},
		},
	}
	return store.Build(content, ordering)
}

func TestFilterAxesCombineWithAND(t *testing.T) {
	st := buildStore()

	view := Filter(st, Facets{Category: "Music", Year: 2020}, nil)
	require.Len(t, view.Groups, 2)
	assert.Equal(t, "Albums", view.Groups[0].Name)
	require.Len(t, view.Groups[0].Events, 1)
	assert.Equal(t, "E2", view.Groups[0].Events[0].Title)
	assert.Equal(t, "Singles", view.Groups[1].Name)

	view = Filter(st, Facets{Category: "Music", Subcategory: "Albums", Year: 2020}, nil)
	require.Len(t, view.Groups, 1)
	require.Len(t, view.Groups[0].Events, 1)
	assert.Equal(t, "E2", view.Groups[0].Events[0].Title)
	assert.Equal(t, 1, view.EventCount)
}

func TestFilterSubcategoryAll(t *testing.T) {
	st := buildStore()
	for _, sub := range []string{"", SubcategoryAll} {
		view := Filter(st, Facets{Category: "Music", Subcategory: sub}, nil)
		require.Len(t, view.Groups, 2, "subcategory %q", sub)
		assert.Equal(t, "Albums", view.Groups[0].Name)
		assert.Equal(t, "Singles", view.Groups[1].Name)
		assert.Equal(t, 3, view.EventCount)
	}
}

func TestFilterUnknownCategoryFallsBack(t *testing.T) {
	st := buildStore()
	view := Filter(st, Facets{Category: "Sports"}, nil)
	assert.Equal(t, "Music", view.Category)
}

func TestFilterSearchSurfaces(t *testing.T) {
	st := buildStore()

	t.Run("title", func(t *testing.T) {
		view := Filter(st, Facets{Category: "Music", SearchText: "e1"}, nil)
		require.Equal(t, 1, view.EventCount)
		assert.Equal(t, "E1", view.Groups[0].Events[0].Title)
	})

	t.Run("summary", func(t *testing.T) {
		view := Filter(st, Facets{Category: "Music", SearchText: "SOPHOMORE"}, nil)
		require.Equal(t, 1, view.EventCount)
		assert.Equal(t, "E2", view.Groups[0].Events[0].Title)
	})

	t.Run("point description and date string", func(t *testing.T) {
		view := Filter(st, Facets{Category: "Music", SearchText: "studio"}, nil)
		assert.Equal(t, 1, view.EventCount)

		view = Filter(st, Facets{Category: "Music", SearchText: "2019-03"}, nil)
		assert.Equal(t, 1, view.EventCount)
	})

	t.Run("year as text", func(t *testing.T) {
		view := Filter(st, Facets{Category: "Music", SearchText: "2020"}, nil)
		assert.Equal(t, 2, view.EventCount)
	})
}

func TestFilterSearchesLoadedArticlesOnly(t *testing.T) {
	st := buildStore()
	facets := Facets{Category: "Music", SearchText: "grammy"}

	// Nothing loaded: the article mention is invisible.
	view := Filter(st, facets, articleMap{})
	assert.Zero(t, view.EventCount)

	// Once a1 loads, the same search finds E1 through the article body.
	loaded := articleMap{"a1": {ID: "a1", Title: "Review", Body: "a Grammy contender"}}
	view = Filter(st, facets, loaded)
	require.Equal(t, 1, view.EventCount)
	assert.Equal(t, "E1", view.Groups[0].Events[0].Title)
}

func TestCountIndependentOfSelection(t *testing.T) {
	st := buildStore()

	// The active category must not change another category's count.
	fromMusic := CountForCategory(st, "Music", Facets{Category: "Music"}, nil)
	fromFilm := CountForCategory(st, "Music", Facets{Category: "Film"}, nil)
	assert.Equal(t, fromMusic, fromFilm)
	assert.Equal(t, 3, fromMusic)

	// An active year filter does change it.
	with2020 := CountForCategory(st, "Music", Facets{Category: "Film", Year: 2020}, nil)
	assert.Equal(t, 2, with2020)

	// Subcategory counts behave the same way.
	assert.Equal(t, 2, CountForSubcategory(st, "Music", "Albums", Facets{Category: "Film"}, nil))
	assert.Equal(t, 1, CountForSubcategory(st, "Music", "Albums", Facets{Year: 2020}, nil))
}

func TestIsDefault(t *testing.T) {
	st := buildStore()
	assert.True(t, Facets{}.IsDefault(st))
	assert.True(t, Facets{Category: "Music", Subcategory: SubcategoryAll}.IsDefault(st))
	assert.False(t, Facets{Category: "Film"}.IsDefault(st))
	assert.False(t, Facets{Year: 2020}.IsDefault(st))
}
