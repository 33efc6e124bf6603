package models

import "github.com/bbernstein/ambulance-finder/internal/geo"

type NoMatchReason string

const (
	ReasonNoCandidates          NoMatchReason = "no candidates"
	ReasonNoAvailableCandidates NoMatchReason = "no available candidates"
)

type Match struct {
	ID         string         `json:"uuid"`
	Contact    string         `json:"phone"`
	Location   geo.Coordinate `json:"location"`
	DistanceKm float64        `json:"distance_km"`
}

// Result is either a Match (Found) or a NoMatch carrying its Reason.
type Result struct {
	Found  bool
	Match  Match
	Reason NoMatchReason
}

func NewMatch(m Match) Result {
	return Result{Found: true, Match: m}
}

func NewNoMatch(reason NoMatchReason) Result {
	return Result{Reason: reason}
}
