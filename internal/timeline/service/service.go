// Package service orchestrates the timeline engine: one immutable store per
// subject, filtered views, facet counts, and deep-link resolution.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chronicle/internal/timeline/filter"
	"chronicle/internal/timeline/metrics"
	"chronicle/internal/timeline/models"
	"chronicle/internal/timeline/store"
	dErrors "chronicle/pkg/domain-errors"
)

// SubjectContentStore is the external subject-content capability.
type SubjectContentStore interface {
	GetSubjectContent(ctx context.Context, subjectID string) (models.SubjectContent, error)
}

// Service owns the per-subject store cache. Stores are immutable, so the
// cache hands the same instance to every reader; a subject's store is built
// exactly once per process lifetime unless invalidated.
type Service struct {
	subjects SubjectContentStore
	ordering models.Ordering
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer

	mu     sync.RWMutex
	stores map[string]*store.Store
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) { s.tracer = tracer }
}

// New creates the timeline service.
func New(subjects SubjectContentStore, ordering models.Ordering, opts ...Option) (*Service, error) {
	if subjects == nil {
		return nil, fmt.Errorf("subject content store is required")
	}
	if len(ordering.Categories) == 0 {
		return nil, fmt.Errorf("category ordering table is required")
	}
	svc := &Service{
		subjects: subjects,
		ordering: ordering,
		logger:   slog.Default(),
		tracer:   otel.Tracer("chronicle/timeline"),
		stores:   make(map[string]*store.Store),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Store returns the subject's timeline store, building it on first use.
func (s *Service) Store(ctx context.Context, subjectID string) (*store.Store, error) {
	s.mu.RLock()
	cached, ok := s.stores[subjectID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	ctx, span := s.tracer.Start(ctx, "timeline.build_store",
		trace.WithAttributes(attribute.String("subject_id", subjectID)))
	defer span.End()

	content, err := s.subjects.GetSubjectContent(ctx, subjectID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subject content")
	}

	built := store.Build(content, s.ordering)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another reader may have built concurrently; keep the first store so
	// everyone shares one instance.
	if existing, ok := s.stores[subjectID]; ok {
		return existing, nil
	}
	s.stores[subjectID] = built
	if s.metrics != nil {
		s.metrics.StoresBuilt.Inc()
	}
	s.logger.InfoContext(ctx, "timeline store built",
		"subject_id", subjectID,
		"categories", len(built.CategoryNames()),
		"referenced_sources", len(built.ReferencedSourceIDs()),
	)
	return built, nil
}

// Invalidate drops a subject's cached store so the next read rebuilds it.
func (s *Service) Invalidate(subjectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stores, subjectID)
}

// CategoryCount is one entry of the category facet picker.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FacetCounts backs the filter picker. Counts ignore the active category and
// subcategory selection but honor the active year and search filters.
type FacetCounts struct {
	Categories    []CategoryCount `json:"categories"`
	Subcategories []CategoryCount `json:"subcategories"`
}

// View computes the filtered view plus facet counts for one selection.
func (s *Service) View(ctx context.Context, subjectID string, facets filter.Facets, loaded filter.ArticleLookup) (filter.FilteredView, FacetCounts, error) {
	st, err := s.Store(ctx, subjectID)
	if err != nil {
		return filter.FilteredView{}, FacetCounts{}, err
	}

	_, span := s.tracer.Start(ctx, "timeline.filter",
		trace.WithAttributes(
			attribute.String("subject_id", subjectID),
			attribute.String("category", facets.Category),
		))
	defer span.End()

	start := time.Now()
	view := filter.Filter(st, facets, loaded)
	counts := s.counts(st, view.Category, facets, loaded)
	if s.metrics != nil {
		s.metrics.FilterDuration.Observe(time.Since(start).Seconds())
	}
	return view, counts, nil
}

func (s *Service) counts(st *store.Store, activeCategory string, facets filter.Facets, loaded filter.ArticleLookup) FacetCounts {
	counts := FacetCounts{}
	for _, name := range st.CategoryNames() {
		counts.Categories = append(counts.Categories, CategoryCount{
			Name:  name,
			Count: filter.CountForCategory(st, name, facets, loaded),
		})
	}
	for _, sub := range st.Subcategories(activeCategory) {
		counts.Subcategories = append(counts.Subcategories, CategoryCount{
			Name:  sub,
			Count: filter.CountForSubcategory(st, activeCategory, sub, facets, loaded),
		})
	}
	return counts
}

// ResolveDeepLink finds the event behind an anchor slug. The miss case is a
// fallback, never an error: callers get ok=false and show the default view.
func (s *Service) ResolveDeepLink(ctx context.Context, subjectID, anchor string) (store.EventRef, bool, error) {
	st, err := s.Store(ctx, subjectID)
	if err != nil {
		return store.EventRef{}, false, err
	}
	ref, ok := st.FindEventByAnchor(anchor)
	if s.metrics != nil {
		if ok {
			s.metrics.DeepLinksResolved.Inc()
		} else {
			s.metrics.DeepLinkMisses.Inc()
		}
	}
	return ref, ok, nil
}
