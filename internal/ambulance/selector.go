package ambulance

import (
	"github.com/bbernstein/ambulance-finder/internal/geo"
	"github.com/bbernstein/ambulance-finder/internal/models"
)

// SelectNearest returns the available ambulance closest to query. Ties keep
// the candidate that appears first. Finding nothing is reported through the
// Result, the only error is an invalid query.
func SelectNearest(query geo.Coordinate, candidates []models.Ambulance) (models.Result, error) {
	if err := query.Validate(); err != nil {
		return models.Result{}, err
	}

	if len(candidates) == 0 {
		return models.NewNoMatch(models.ReasonNoCandidates), nil
	}

	best := -1
	minDistance := 0.0
	for i := range candidates {
		if !candidates[i].Status.IsAvailable() {
			continue
		}

		distance := geo.Distance(query, candidates[i].Location)
		if best == -1 || distance < minDistance {
			best = i
			minDistance = distance
		}
	}

	if best == -1 {
		return models.NewNoMatch(models.ReasonNoAvailableCandidates), nil
	}

	nearest := candidates[best]
	return models.NewMatch(models.Match{
		ID:         nearest.ID,
		Contact:    nearest.Contact,
		Location:   nearest.Location,
		DistanceKm: minDistance,
	}), nil
}
