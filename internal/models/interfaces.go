package models

import (
	"context"

	"github.com/bbernstein/ambulance-finder/internal/geo"
)

type AmbulanceFinder interface {
	FindNearest(ctx context.Context, query geo.Coordinate) (Result, error)
}
