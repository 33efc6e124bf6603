package ambulance

import (
	"context"
	"fmt"

	"github.com/bbernstein/ambulance-finder/internal/cache"
	"github.com/bbernstein/ambulance-finder/internal/geo"
	"github.com/bbernstein/ambulance-finder/internal/models"
	"github.com/bbernstein/ambulance-finder/internal/store"
	"github.com/rs/zerolog/log"
)

type FinderFactory interface {
	NewFinder(fleetStore store.Store, snapshotCache *cache.SnapshotCache) (*Finder, error)
}

type DefaultFinderFactory struct{}

func (f *DefaultFinderFactory) NewFinder(fleetStore store.Store, snapshotCache *cache.SnapshotCache) (*Finder, error) {
	return NewFinder(fleetStore, snapshotCache)
}

// Finder loads the fleet from a store and picks the nearest available ambulance
type Finder struct {
	store store.Store
	cache *cache.SnapshotCache
}

var _ models.AmbulanceFinder = (*Finder)(nil)

// NewFinder creates a finder. A nil cache is replaced by one configured from
// the environment.
func NewFinder(fleetStore store.Store, snapshotCache *cache.SnapshotCache) (*Finder, error) {
	if fleetStore == nil {
		return nil, fmt.Errorf("ambulance store is required")
	}

	if snapshotCache == nil {
		var err error
		snapshotCache, err = cache.NewSnapshotCache(nil, nil)
		if err != nil {
			return nil, fmt.Errorf("creating snapshot cache: %w", err)
		}
	}

	return &Finder{
		store: fleetStore,
		cache: snapshotCache,
	}, nil
}

// FindNearest validates the query before touching the store.
func (f *Finder) FindNearest(ctx context.Context, query geo.Coordinate) (models.Result, error) {
	if err := query.Validate(); err != nil {
		return models.Result{}, err
	}

	ambulances, err := f.cache.Fetch(ctx, f.store.Name(), f.loadFleet)
	if err != nil {
		return models.Result{}, err
	}

	result, err := SelectNearest(query, ambulances)
	if err != nil {
		return models.Result{}, err
	}

	if result.Found {
		log.Debug().
			Str("ambulance_id", result.Match.ID).
			Float64("distance_km", result.Match.DistanceKm).
			Stringer("query", query).
			Msg("Found nearest ambulance")
	} else {
		log.Debug().
			Str("reason", string(result.Reason)).
			Int("candidates", len(ambulances)).
			Stringer("query", query).
			Msg("No ambulance matched")
	}

	return result, nil
}

func (f *Finder) loadFleet(ctx context.Context) ([]models.Ambulance, error) {
	records, err := f.store.FetchAmbulances(ctx)
	if err != nil {
		return nil, NewStoreError(f.store.Name(), err.Error(), err)
	}
	return store.ParseRecords(records), nil
}
