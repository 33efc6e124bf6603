package geo

import (
	"fmt"
	"math"
)

// Coordinate is a point on the earth in decimal degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude" yaml:"latitude" dynamodbav:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude" dynamodbav:"longitude"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Latitude: lat, Longitude: lon}
}

// Validate rejects non-finite or out of range values
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) {
		return InvalidCoordinatesError{Field: "latitude", Value: c.Latitude, Reason: "must be a finite number"}
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return InvalidCoordinatesError{Field: "longitude", Value: c.Longitude, Reason: "must be a finite number"}
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return InvalidCoordinatesError{Field: "latitude", Value: c.Latitude, Reason: "must be between -90 and 90"}
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return InvalidCoordinatesError{Field: "longitude", Value: c.Longitude, Reason: "must be between -180 and 180"}
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.Latitude, c.Longitude)
}

type InvalidCoordinatesError struct {
	Field  string
	Value  float64
	Reason string
	// Got names the JSON type received when the field was not a number at
	// all. Value is meaningless in that case.
	Got string
}

// NotANumberError reports a coordinate field that held a non-numeric value
func NotANumberError(field, got string) InvalidCoordinatesError {
	return InvalidCoordinatesError{Field: field, Reason: "must be a number", Got: got}
}

func (e InvalidCoordinatesError) Error() string {
	if e.Got != "" {
		return fmt.Sprintf("Invalid coordinates: %s %s, got %s", e.Field, e.Reason, e.Got)
	}
	return fmt.Sprintf("Invalid coordinates: %s %v %s", e.Field, e.Value, e.Reason)
}
