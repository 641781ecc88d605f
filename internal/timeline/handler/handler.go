// Package handler exposes the timeline engine over HTTP. It stays thin:
// query params decode through the nav contract, services do the work, and
// responses are plain view-models.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"chronicle/internal/analytics"
	"chronicle/internal/nav"
	"chronicle/internal/platform/middleware"
	"chronicle/internal/session"
	"chronicle/internal/timeline/filter"
	"chronicle/internal/timeline/metrics"
	"chronicle/internal/timeline/service"
	"chronicle/internal/timeline/store"
	dErrors "chronicle/pkg/domain-errors"
	"chronicle/pkg/platform/httputil"
)

// Service is the timeline operations surface this handler needs.
type Service interface {
	Store(ctx context.Context, subjectID string) (*store.Store, error)
	View(ctx context.Context, subjectID string, facets filter.Facets, loaded filter.ArticleLookup) (filter.FilteredView, service.FacetCounts, error)
	ResolveDeepLink(ctx context.Context, subjectID, anchor string) (store.EventRef, bool, error)
}

// SessionLookup resolves a session id to its live session, so a view request
// can search against that session's loaded articles.
type SessionLookup interface {
	Get(id string) (*session.Session, bool)
}

// Handler serves the timeline read surface.
type Handler struct {
	timeline  Service
	sessions  SessionLookup
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher *analytics.Publisher
}

// New creates the timeline handler. sessions, metrics, and publisher may be
// nil; the handler degrades to loader-less filtering and no analytics.
func New(timeline Service, sessions SessionLookup, logger *slog.Logger, m *metrics.Metrics, publisher *analytics.Publisher) *Handler {
	return &Handler{
		timeline:  timeline,
		sessions:  sessions,
		logger:    logger,
		metrics:   m,
		publisher: publisher,
	}
}

// Register registers the timeline routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(router chi.Router) {
		router.Use(middleware.Recovery(h.logger))
		router.Use(middleware.RequestID)
		router.Use(middleware.Logger(h.logger))
		router.Use(middleware.Timeout(30 * time.Second))
		if h.metrics != nil {
			router.Use(middleware.Latency(h.metrics.RequestLatency))
		}
		router.Get("/subjects/{subjectID}/timeline", h.handleTimeline)
		router.Get("/subjects/{subjectID}/events/{anchor}", h.handleDeepLink)
	})
}

// TimelineResponse is the filtered view plus everything the picker and the
// progressive loader UI need.
type TimelineResponse struct {
	Facets   filter.Facets        `json:"facets"`
	View     filter.FilteredView  `json:"view"`
	Counts   service.FacetCounts  `json:"counts"`
	Location string               `json:"location"`
	Progress *loaderProgress      `json:"progress,omitempty"`
}

type loaderProgress struct {
	State       string `json:"state"`
	LoadedCount int    `json:"loaded_count"`
	TotalCount  int    `json:"total_count"`
	HasMore     bool   `json:"has_more"`
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID := chi.URLParam(r, "subjectID")

	st, err := h.timeline.Store(ctx, subjectID)
	if err != nil {
		h.writeServiceError(w, r, "load subject store", err)
		return
	}

	// The query string is the shareable location contract; decoding never
	// fails, it falls back to the default view.
	facets := nav.Decode(r.URL.Query(), st)

	var lookup filter.ArticleLookup
	var progress *loaderProgress
	if sessionID := r.URL.Query().Get("session"); sessionID != "" && h.sessions != nil {
		if sess, ok := h.sessions.Get(sessionID); ok && sess.SubjectID == subjectID {
			lookup = sess.Loader()
			snap := sess.Loader().Snapshot()
			progress = &loaderProgress{
				State:       string(snap.State),
				LoadedCount: snap.LoadedCount,
				TotalCount:  snap.TotalCount,
				HasMore:     snap.HasMore,
			}
		}
	}

	view, counts, err := h.timeline.View(ctx, subjectID, facets, lookup)
	if err != nil {
		h.writeServiceError(w, r, "compute view", err)
		return
	}

	if h.publisher != nil {
		h.publisher.Emit(analytics.Event{
			Type:        analytics.EventFacetsApplied,
			SubjectID:   subjectID,
			Category:    facets.Category,
			Subcategory: facets.Subcategory,
			Year:        facets.Year,
			SearchText:  facets.SearchText,
			DeviceClass: analytics.DeviceClass(r.UserAgent()),
		})
	}

	httputil.WriteJSON(w, http.StatusOK, TimelineResponse{
		Facets:   facets,
		View:     view,
		Counts:   counts,
		Location: nav.Encode(facets).Encode(),
		Progress: progress,
	})
}

// DeepLinkResponse resolves an event anchor into facet state plus the
// scroll-and-highlight instruction the rendering layer should run once
// layout settles.
type DeepLinkResponse struct {
	Resolved bool          `json:"resolved"`
	Facets   filter.Facets `json:"facets"`
	Location string        `json:"location"`
	Scroll   *scrollEffect `json:"scroll,omitempty"`
}

type scrollEffect struct {
	Anchor      string `json:"anchor"`
	DelayMs     int64  `json:"delay_ms"`
	HighlightMs int64  `json:"highlight_ms"`
}

func (h *Handler) handleDeepLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID := chi.URLParam(r, "subjectID")
	anchor := chi.URLParam(r, "anchor")

	st, err := h.timeline.Store(ctx, subjectID)
	if err != nil {
		h.writeServiceError(w, r, "load subject store", err)
		return
	}

	ref, ok, err := h.timeline.ResolveDeepLink(ctx, subjectID, anchor)
	if err != nil {
		h.writeServiceError(w, r, "resolve deep link", err)
		return
	}

	// An unknown anchor degrades to the default view rather than erroring;
	// a dead shared link still lands somewhere sensible.
	resp := DeepLinkResponse{Resolved: ok}
	if ok {
		resp.Facets = filter.Facets{Category: ref.Category, Subcategory: ref.Subcategory}
		resp.Scroll = &scrollEffect{
			Anchor:      anchor,
			DelayMs:     nav.SettleDelay.Milliseconds(),
			HighlightMs: nav.HighlightDuration.Milliseconds(),
		}
	} else {
		resp.Facets = filter.Facets{
			Category:    st.FirstCategory(),
			Subcategory: filter.SubcategoryAll,
		}
	}
	location := nav.Location{Query: nav.Encode(resp.Facets)}
	if ok {
		location.Fragment = anchor
	}
	resp.Location = location.Query.Encode()
	if location.Fragment != "" {
		resp.Location += "#" + location.Fragment
	}

	if h.publisher != nil {
		h.publisher.Emit(analytics.Event{
			Type:        analytics.EventDeepLink,
			SubjectID:   subjectID,
			Anchor:      anchor,
			DeviceClass: analytics.DeviceClass(r.UserAgent()),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	ctx := r.Context()
	if dErrors.Is(err, dErrors.CodeNotFound) {
		httputil.WriteError(w, err)
		return
	}
	h.logger.ErrorContext(ctx, "timeline request failed",
		"request_id", middleware.GetRequestID(ctx),
		"action", action,
		"error", err.Error(),
	)
	httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action))
}
