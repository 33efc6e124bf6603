package models

import "github.com/bbernstein/ambulance-finder/internal/geo"

type Status string

const (
	StatusAvailable    Status = "Available"
	StatusUnavailable  Status = "Unavailable"
	StatusDispatched   Status = "Dispatched"
	StatusOutOfService Status = "OutOfService"
)

func (s Status) IsAvailable() bool {
	return s == StatusAvailable
}

// Ambulance is a read-only snapshot of one vehicle in the fleet
type Ambulance struct {
	ID       string         `json:"uuid" dynamodbav:"uuid"`
	Contact  string         `json:"phone" dynamodbav:"phone"`
	Location geo.Coordinate `json:"location" dynamodbav:"location"`
	Status   Status         `json:"status" dynamodbav:"status"`
}
