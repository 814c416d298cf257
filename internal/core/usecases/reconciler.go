package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/samirrijal/campusmap/internal/core/domain"
	"github.com/samirrijal/campusmap/internal/core/ports"
)

// DefaultInitializedKey is the slot holding the first-run flag.
const DefaultInitializedKey = "campus_initialized"

// ReconcileResult describes one reconciliation pass.
type ReconcileResult struct {
	Places   []domain.Place `json:"places"`
	FirstRun bool           `json:"first_run"`
	Notice   *domain.Notice `json:"notice,omitempty"`
	// Dropped counts stored records in the reserved range that were replaced.
	Dropped int `json:"dropped"`
}

// Reconciler keeps the seed set at the front of the store on every launch
// while preserving user-created places.
type Reconciler struct {
	slots    ports.SlotStore
	places   *PlaceStore
	seeds    domain.SeedSet
	notifier ports.Notifier
	flagKey  string
}

// NewReconciler creates a Reconciler. notifier may be nil.
func NewReconciler(slots ports.SlotStore, places *PlaceStore, seeds domain.SeedSet, notifier ports.Notifier, flagKey string) *Reconciler {
	if flagKey == "" {
		flagKey = DefaultInitializedKey
	}
	return &Reconciler{
		slots:    slots,
		places:   places,
		seeds:    seeds,
		notifier: notifier,
		flagKey:  flagKey,
	}
}

// Seeds returns the seed set this reconciler writes.
func (r *Reconciler) Seeds() domain.SeedSet {
	return r.seeds
}

// Reconcile rewrites the store as seed set followed by every stored record
// outside the reserved id range. Edits to seed records never survive it.
func (r *Reconciler) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	initialized, err := r.initialized(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := r.places.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load places: %w", err)
	}

	merged := make([]domain.Place, 0, len(r.seeds.Places)+len(stored))
	merged = append(merged, r.seeds.Places...)
	dropped := 0
	for _, p := range stored {
		if p.IsSeed() {
			dropped++
			continue
		}
		merged = append(merged, p)
	}

	if err := r.places.Save(ctx, merged); err != nil {
		return nil, fmt.Errorf("save places: %w", err)
	}

	result := &ReconcileResult{Places: merged, Dropped: dropped}
	if initialized {
		return result, nil
	}

	if err := r.slots.Set(ctx, r.flagKey, []byte(strconv.FormatBool(true))); err != nil {
		return nil, fmt.Errorf("write %s: %w", r.flagKey, err)
	}
	result.FirstRun = true
	result.Notice = &domain.Notice{
		Message: fmt.Sprintf("%d locations loaded", len(r.seeds.Places)),
		Count:   len(r.seeds.Places),
	}
	if r.notifier != nil {
		if err := r.notifier.Notify(ctx, *result.Notice); err != nil {
			slog.Warn("first-run notice not delivered", "error", err)
		}
	}
	return result, nil
}

func (r *Reconciler) initialized(ctx context.Context) (bool, error) {
	data, err := r.slots.Get(ctx, r.flagKey)
	if errors.Is(err, domain.ErrSlotEmpty) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", r.flagKey, err)
	}
	v, err := strconv.ParseBool(string(data))
	if err != nil {
		return false, &domain.CorruptDataError{Key: r.flagKey, Err: err}
	}
	return v, nil
}
