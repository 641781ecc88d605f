// Package handler exposes session lifecycle and progressive article loading
// over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"chronicle/internal/analytics"
	"chronicle/internal/article/loader"
	"chronicle/internal/article/metrics"
	artmodels "chronicle/internal/article/models"
	"chronicle/internal/platform/middleware"
	"chronicle/internal/session"
	"chronicle/internal/timeline/store"
	dErrors "chronicle/pkg/domain-errors"
	"chronicle/pkg/platform/httputil"
)

// StoreProvider hands out the immutable timeline store a new session binds to.
type StoreProvider interface {
	Store(ctx context.Context, subjectID string) (*store.Store, error)
}

// Sessions is the manager surface this handler drives.
type Sessions interface {
	Create(st *store.Store, initial []artmodels.Article) *session.Session
	Get(id string) (*session.Session, bool)
	Delete(id string)
}

// Handler serves session and article-loading routes.
type Handler struct {
	subjects  StoreProvider
	sessions  Sessions
	fetch     loader.Fetcher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher *analytics.Publisher
}

// New creates the session handler. fetch resolves the articles a page
// already rendered so the loader can skip them; metrics and publisher may
// be nil.
func New(subjects StoreProvider, sessions Sessions, fetch loader.Fetcher, logger *slog.Logger, m *metrics.Metrics, publisher *analytics.Publisher) *Handler {
	return &Handler{
		subjects:  subjects,
		sessions:  sessions,
		fetch:     fetch,
		logger:    logger,
		metrics:   m,
		publisher: publisher,
	}
}

// Register registers the session routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(router chi.Router) {
		router.Use(middleware.Recovery(h.logger))
		router.Use(middleware.RequestID)
		router.Use(middleware.Logger(h.logger))
		router.Use(middleware.Timeout(30 * time.Second))
		router.Use(middleware.ContentTypeJSON)

		router.Post("/sessions", h.handleCreate)
		router.Delete("/sessions/{sessionID}", h.handleDelete)
		router.Post("/sessions/{sessionID}/articles/load", h.handleLoadMore)
		router.Get("/sessions/{sessionID}/articles/progress", h.handleProgress)
		router.Post("/sessions/{sessionID}/search", h.handleSearch)
		router.Get("/sessions/{sessionID}/search", h.handleSettledSearch)
	})
}

// CreateSessionRequest opens a session for one subject view. InitialArticleIDs
// names articles the page already rendered; they seed the loader so the first
// batch does not refetch them.
type CreateSessionRequest struct {
	SubjectID         string   `json:"subject_id"`
	InitialArticleIDs []string `json:"initial_article_ids,omitempty"`
}

// SessionResponse is a session id plus the loader's starting snapshot.
type SessionResponse struct {
	SessionID string           `json:"session_id"`
	SubjectID string           `json:"subject_id"`
	Progress  ProgressResponse `json:"progress"`
}

// ProgressResponse is the loader snapshot on the wire. Retryable is set on
// failed batches: the backlog is intact and another load call may succeed.
type ProgressResponse struct {
	State       string `json:"state"`
	LoadedCount int    `json:"loaded_count"`
	TotalCount  int    `json:"total_count"`
	HasMore     bool   `json:"has_more"`
	LastError   string `json:"last_error,omitempty"`
	Retryable   bool   `json:"retryable,omitempty"`
}

func progressFrom(snap loader.Snapshot) ProgressResponse {
	return ProgressResponse{
		State:       string(snap.State),
		LoadedCount: snap.LoadedCount,
		TotalCount:  snap.TotalCount,
		HasMore:     snap.HasMore,
		LastError:   snap.LastError,
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.SubjectID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "subject_id is required"))
		return
	}

	st, err := h.subjects.Store(ctx, req.SubjectID)
	if err != nil {
		h.writeServiceError(w, r, "load subject store", err)
		return
	}

	// Seed fetch is best effort. If it fails the ids stay in the backlog
	// and the first LoadMore picks them up.
	var initial []artmodels.Article
	if len(req.InitialArticleIDs) > 0 {
		initial, err = h.fetch.FetchByIDs(ctx, req.InitialArticleIDs)
		if err != nil {
			h.logger.WarnContext(ctx, "seed fetch failed, deferring to backlog",
				"subject_id", req.SubjectID,
				"error", err.Error(),
			)
			initial = nil
		}
	}

	sess := h.sessions.Create(st, initial)

	if h.publisher != nil {
		h.publisher.Emit(analytics.Event{
			Type:        analytics.EventSubjectViewed,
			SubjectID:   req.SubjectID,
			SessionID:   sess.ID,
			DeviceClass: analytics.DeviceClass(r.UserAgent()),
		})
	}

	httputil.WriteJSON(w, http.StatusCreated, SessionResponse{
		SessionID: sess.ID,
		SubjectID: sess.SubjectID,
		Progress:  progressFrom(sess.Loader().Snapshot()),
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLoadMore(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "session not found"))
		return
	}

	start := time.Now()
	before := sess.Loader().Snapshot().LoadedCount
	snap, err := sess.LoadMore()
	if err != nil {
		switch {
		case dErrors.Is(err, dErrors.CodeConflict):
			// A batch is already in flight; the snapshot tells the
			// caller when to try again.
			httputil.WriteJSON(w, http.StatusConflict, progressFrom(snap))
		case dErrors.Is(err, dErrors.CodeUnavailable):
			if h.metrics != nil {
				h.metrics.BatchFailures.Inc()
			}
			progress := progressFrom(snap)
			progress.Retryable = true
			httputil.WriteJSON(w, http.StatusBadGateway, progress)
		default:
			h.writeServiceError(w, r, "load article batch", err)
		}
		return
	}

	if h.metrics != nil {
		h.metrics.BatchesLoaded.Inc()
		h.metrics.ArticlesLoaded.Add(float64(snap.LoadedCount - before))
		h.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}
	if h.publisher != nil {
		h.publisher.Emit(analytics.Event{
			Type:      analytics.EventBatchLoaded,
			SubjectID: sess.SubjectID,
			SessionID: sess.ID,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, progressFrom(snap))
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "session not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, progressFrom(sess.Loader().Snapshot()))
}

// SearchRequest carries one search keystroke.
type SearchRequest struct {
	Text string `json:"text"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "session not found"))
		return
	}
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	sess.SetSearchText(req.Text)
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleSettledSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "session not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"settled": sess.SettledSearch()})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	ctx := r.Context()
	if dErrors.Is(err, dErrors.CodeNotFound) {
		httputil.WriteError(w, err)
		return
	}
	h.logger.ErrorContext(ctx, "session request failed",
		"request_id", middleware.GetRequestID(ctx),
		"action", action,
		"error", err.Error(),
	)
	httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action))
}
