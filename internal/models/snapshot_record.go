package models

import "fmt"

// FleetSnapshotRecord is a cached fleet snapshot as stored in DynamoDB
type FleetSnapshotRecord struct {
	SnapshotKey string      `dynamodbav:"snapshotKey"`
	Ambulances  []Ambulance `dynamodbav:"ambulances"`
	LastUpdated int64       `dynamodbav:"lastUpdated"`
	TTL         int64       `dynamodbav:"ttl"`
}

// Validate checks if a FleetSnapshotRecord's fields are valid
func (r *FleetSnapshotRecord) Validate() error {
	if r.SnapshotKey == "" {
		return fmt.Errorf("snapshot key is required")
	}

	if r.TTL <= r.LastUpdated {
		return fmt.Errorf("ttl %d must be after lastUpdated %d", r.TTL, r.LastUpdated)
	}

	for i, ambulance := range r.Ambulances {
		if ambulance.ID == "" {
			return fmt.Errorf("ambulance at index %d has no id", i)
		}
		if err := ambulance.Location.Validate(); err != nil {
			return fmt.Errorf("invalid ambulance at index %d: %w", i, err)
		}
	}

	return nil
}
