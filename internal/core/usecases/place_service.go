package usecases

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/campusmap/internal/core/domain"
	"github.com/samirrijal/campusmap/internal/core/ports"
	"github.com/samirrijal/campusmap/internal/pkg/geospatial"
	"github.com/samirrijal/campusmap/internal/pkg/metrics"
)

var tracer = otel.Tracer("github.com/samirrijal/campusmap/internal/core/usecases")

// NearbyPlace is a place annotated with its distance from a query point.
type NearbyPlace struct {
	domain.Place
	Distance float64 `json:"distance_m"`
}

// PlaceService is the boundary the list/map client talks to. It serialises
// every call so the store only ever sees one read-modify-write at a time, and
// keeps the working copy the selection indexes into.
type PlaceService struct {
	mu         sync.Mutex
	store      *PlaceStore
	reconciler *Reconciler
	selection  *Selection
	view       domain.MapView
	publisher  ports.EventPublisher
	observers  []ports.PlaceObserver
}

// NewPlaceService creates a new PlaceService. publisher may be nil.
func NewPlaceService(store *PlaceStore, reconciler *Reconciler, view domain.MapView, publisher ports.EventPublisher, observers ...ports.PlaceObserver) *PlaceService {
	return &PlaceService{
		store:      store,
		reconciler: reconciler,
		selection:  NewSelection(),
		view:       view,
		publisher:  publisher,
		observers:  observers,
	}
}

// MapView returns how the client should frame the map.
func (s *PlaceService) MapView() domain.MapView {
	return s.view
}

// Launch reconciles the seed set and loads the working copy.
func (s *PlaceService) Launch(ctx context.Context) (*ReconcileResult, error) {
	ctx, span := tracer.Start(ctx, "PlaceService.Launch")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		return nil, s.fail(span, "reconcile", err)
	}
	metrics.Reconciliations.Inc()
	if result.FirstRun {
		metrics.FirstRunNotices.Inc()
	}
	s.selection.Replace(result.Places)
	metrics.PlacesStored.Set(float64(len(result.Places)))
	span.SetAttributes(
		attribute.Int("places.count", len(result.Places)),
		attribute.Bool("places.first_run", result.FirstRun),
	)
	return result, nil
}

// List reloads the store and returns the places matching query. The result
// becomes the list the selection indexes into.
func (s *PlaceService) List(ctx context.Context, query string) ([]domain.Place, error) {
	ctx, span := tracer.Start(ctx, "PlaceService.List")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	places, err := s.store.Load(ctx)
	if err != nil {
		return nil, s.fail(span, "list", err)
	}
	filtered := FilterByTitle(places, query)
	s.selection.Replace(filtered)
	metrics.PlaceOps.WithLabelValues("list", "ok").Inc()
	return filtered, nil
}

// Get returns a stored place by id.
func (s *PlaceService) Get(ctx context.Context, id int64) (*domain.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create parses dialog input and appends a new user place.
func (s *PlaceService) Create(ctx context.Context, in PlaceInput) (*domain.Place, error) {
	ctx, span := tracer.Start(ctx, "PlaceService.Create")
	defer span.End()

	p, err := ParsePlaceInput(in)
	if err != nil {
		return nil, s.fail(span, "create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.store.Add(ctx, p)
	if err != nil {
		return nil, s.fail(span, "create", err)
	}
	if err := s.reload(ctx); err != nil {
		return nil, s.fail(span, "create", err)
	}
	s.selection.SelectID(stored.ID)
	metrics.PlaceOps.WithLabelValues("create", "ok").Inc()
	s.publish(ctx, domain.PlaceCreated, &stored)
	return &stored, nil
}

// Import appends a fully formed place, e.g. from an API client that already
// holds coordinates as numbers. Ids in the reserved seed range are rejected;
// a zero id is generated by the store.
func (s *PlaceService) Import(ctx context.Context, p domain.Place) (*domain.Place, error) {
	ctx, span := tracer.Start(ctx, "PlaceService.Import")
	defer span.End()

	p.Title = strings.TrimSpace(p.Title)
	if p.IsSeed() {
		return nil, s.fail(span, "import", &domain.InvalidInputError{Field: "id", Reason: "id is reserved for built-in places"})
	}
	if p.Title == "" || !p.Point().Valid() {
		return nil, s.fail(span, "import", &domain.InvalidInputError{Reason: "title and valid coordinates are required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.store.Add(ctx, p)
	if err != nil {
		return nil, s.fail(span, "import", err)
	}
	if err := s.reload(ctx); err != nil {
		return nil, s.fail(span, "import", err)
	}
	span.SetAttributes(attribute.Int64("place.id", stored.ID))
	metrics.PlaceOps.WithLabelValues("import", "ok").Inc()
	s.publish(ctx, domain.PlaceCreated, &stored)
	return &stored, nil
}

// Edit replaces the title and coordinates of an existing place. Unlike the
// store, it reports domain.ErrNotFound for an unknown id.
func (s *PlaceService) Edit(ctx context.Context, id int64, in PlaceInput) (*domain.Place, error) {
	ctx, span := tracer.Start(ctx, "PlaceService.Edit")
	defer span.End()
	span.SetAttributes(attribute.Int64("place.id", id))

	p, err := ParsePlaceInput(in)
	if err != nil {
		return nil, s.fail(span, "edit", err)
	}
	p.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, s.fail(span, "edit", err)
	}
	if err := s.store.Update(ctx, p); err != nil {
		return nil, s.fail(span, "edit", err)
	}
	if err := s.reload(ctx); err != nil {
		return nil, s.fail(span, "edit", err)
	}
	s.selection.SelectID(id)
	metrics.PlaceOps.WithLabelValues("edit", "ok").Inc()
	for _, o := range s.observers {
		o.OnEdit(ctx, id)
	}
	s.publish(ctx, domain.PlaceEdited, &p)
	return &p, nil
}

// Remove deletes every place with id. It reports whether anything was removed.
func (s *PlaceService) Remove(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "PlaceService.Remove")
	defer span.End()
	span.SetAttributes(attribute.Int64("place.id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.store.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, s.fail(span, "remove", err)
	}
	if err := s.store.Delete(ctx, domain.Place{ID: id}); err != nil {
		return false, s.fail(span, "remove", err)
	}
	if err := s.reload(ctx); err != nil {
		return false, s.fail(span, "remove", err)
	}
	metrics.PlaceOps.WithLabelValues("remove", "ok").Inc()
	for _, o := range s.observers {
		o.OnDelete(ctx, id)
	}
	s.publish(ctx, domain.PlaceDeleted, nil, id)
	return true, nil
}

// Select highlights the row holding id in the current list.
func (s *PlaceService) Select(ctx context.Context, id int64) (*domain.Highlight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selection.SelectID(id); !ok {
		return nil, domain.ErrNotFound
	}
	return s.selected(ctx)
}

// SelectAt highlights the row whose coordinates equal lat/lon exactly, the way
// a marker tap resolves to a row.
func (s *PlaceService) SelectAt(ctx context.Context, lat, lon float64) (*domain.Highlight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selection.SelectPosition(lat, lon); !ok {
		return nil, domain.ErrNotFound
	}
	return s.selected(ctx)
}

// Selection returns the current highlight and row index.
func (s *PlaceService) Selection() (*domain.Highlight, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.selection.Highlight(s.view)
	if !ok {
		return nil, NoSelection
	}
	return &h, s.selection.Index()
}

// Nearby returns stored places within radiusMeters of lat/lon, nearest first.
func (s *PlaceService) Nearby(ctx context.Context, lat, lon, radiusMeters float64) ([]NearbyPlace, error) {
	s.mu.Lock()
	places, err := s.store.Load(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	box := geospatial.Around(lat, lon, radiusMeters)
	out := make([]NearbyPlace, 0)
	for _, p := range places {
		if !box.Contains(p.Latitude, p.Longitude) {
			continue
		}
		d := geospatial.Haversine(lat, lon, p.Latitude, p.Longitude)
		if d <= radiusMeters {
			out = append(out, NearbyPlace{Place: p, Distance: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out, nil
}

func (s *PlaceService) selected(ctx context.Context) (*domain.Highlight, error) {
	h, ok := s.selection.Highlight(s.view)
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, o := range s.observers {
		o.OnSelect(ctx, h.PlaceID)
	}
	s.publish(ctx, domain.PlaceSelected, nil, h.PlaceID)
	return &h, nil
}

func (s *PlaceService) reload(ctx context.Context) error {
	places, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	s.selection.Replace(places)
	metrics.PlacesStored.Set(float64(len(places)))
	return nil
}

func (s *PlaceService) publish(ctx context.Context, typ domain.PlaceEventType, p *domain.Place, id ...int64) {
	if s.publisher == nil {
		return
	}
	event := &domain.PlaceEvent{Type: typ, Place: p}
	if p != nil {
		event.PlaceID = p.ID
	} else if len(id) > 0 {
		event.PlaceID = id[0]
	}
	if err := s.publisher.PublishPlaceEvent(ctx, event); err != nil {
		slog.Warn("publish place event failed", "type", typ, "place_id", event.PlaceID, "error", err)
	}
}

func (s *PlaceService) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	result := "error"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		result = "invalid"
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrCorruptData):
		result = "corrupt"
	}
	metrics.PlaceOps.WithLabelValues(op, result).Inc()
	return err
}
