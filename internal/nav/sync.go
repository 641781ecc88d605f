package nav

import (
	"time"

	"chronicle/internal/timeline/filter"
	"chronicle/internal/timeline/store"
)

// HighlightDuration bounds the temporary visual highlight after a deep link
// lands on its event.
const HighlightDuration = 3 * time.Second

// SettleDelay is how long the rendering layer should wait after layout
// before running a deep-link scroll.
const SettleDelay = 100 * time.Millisecond

// ViewState is the complete navigation-relevant state of one subject view.
// It is passed in and returned explicitly; nothing here reads ambient
// browser or process state.
type ViewState struct {
	Facets filter.Facets
	// OpenAnchors lists the anchors of expanded events.
	OpenAnchors []string
	// ScrollOffset is the last snapshotted viewport offset.
	ScrollOffset int
	// pendingRestore is set while a facet change awaits its scroll
	// restoration; pendingAnchor while a deep link awaits layout settle.
	pendingRestore bool
	pendingAnchor  string
}

// Event is one navigation input.
type Event interface{ navEvent() }

// FacetsChanged is a user-driven facet change. ScrollOffset is the viewport
// offset snapshotted immediately before the change.
type FacetsChanged struct {
	Facets       filter.Facets
	ScrollOffset int
}

// DeepLinkOpened is an inbound link naming a specific event.
type DeepLinkOpened struct {
	Anchor string
}

// LocationChanged is an external navigation (back/forward) to a location
// this view did not just write.
type LocationChanged struct {
	Location Location
}

// RenderSettled signals that the view finished a render cycle after the
// previous event.
type RenderSettled struct{}

func (FacetsChanged) navEvent()   {}
func (DeepLinkOpened) navEvent()  {}
func (LocationChanged) navEvent() {}
func (RenderSettled) navEvent()   {}

// Effect is an instruction for the rendering layer.
type Effect interface{ navEffect() }

// ReplaceLocation updates the shareable location in place. Replace, never
// push: facet changes must not create history entries.
type ReplaceLocation struct {
	Location Location
}

// RestoreScroll re-applies a snapshotted viewport offset so pure facet
// changes never move the viewport.
type RestoreScroll struct {
	Offset int
}

// ScrollToEvent scrolls the named event into view after Delay and highlights
// it for Highlight. Emitted only for deep links.
type ScrollToEvent struct {
	Anchor    string
	Delay     time.Duration
	Highlight time.Duration
}

func (ReplaceLocation) navEffect() {}
func (RestoreScroll) navEffect()   {}
func (ScrollToEvent) navEffect()   {}

// Apply advances the navigation state machine. It is a pure function of
// (state, event) given the subject's store; the facet state and the emitted
// location always agree, since both come out of the same transition.
func Apply(st *store.Store, state ViewState, ev Event) (ViewState, []Effect) {
	switch e := ev.(type) {
	case FacetsChanged:
		state.ScrollOffset = e.ScrollOffset
		state.Facets = e.Facets
		state.pendingRestore = true
		return state, []Effect{
			ReplaceLocation{Location: Location{Query: Encode(e.Facets)}},
			RestoreScroll{Offset: e.ScrollOffset},
		}

	case DeepLinkOpened:
		ref, ok := st.FindEventByAnchor(e.Anchor)
		if !ok {
			// Unknown anchor degrades to the default view, no scroll.
			state.Facets = filter.Facets{
				Category:    st.FirstCategory(),
				Subcategory: filter.SubcategoryAll,
			}
			state.pendingAnchor = ""
			return state, []Effect{
				ReplaceLocation{Location: Location{Query: Encode(state.Facets)}},
			}
		}
		state.Facets = filter.Facets{Category: ref.Category, Subcategory: ref.Subcategory}
		state.OpenAnchors = appendAnchor(state.OpenAnchors, e.Anchor)
		state.pendingAnchor = e.Anchor
		return state, []Effect{
			ReplaceLocation{Location: Location{Query: Encode(state.Facets), Fragment: e.Anchor}},
		}

	case LocationChanged:
		// The location already moved externally; only the facet state
		// follows. Writing the location back here would fight the
		// history stack.
		state.Facets = Decode(e.Location.Query, st)
		if e.Location.Fragment != "" {
			return Apply(st, state, DeepLinkOpened{Anchor: e.Location.Fragment})
		}
		return state, nil

	case RenderSettled:
		var effects []Effect
		if state.pendingAnchor != "" {
			effects = append(effects, ScrollToEvent{
				Anchor:    state.pendingAnchor,
				Delay:     SettleDelay,
				Highlight: HighlightDuration,
			})
			state.pendingAnchor = ""
		}
		if state.pendingRestore {
			effects = append(effects, RestoreScroll{Offset: state.ScrollOffset})
			state.pendingRestore = false
		}
		return state, effects
	}
	return state, nil
}

func appendAnchor(anchors []string, anchor string) []string {
	for _, a := range anchors {
		if a == anchor {
			return anchors
		}
	}
	return append(anchors, anchor)
}
