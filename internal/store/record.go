package store

import (
	"encoding/json"

	"github.com/bbernstein/ambulance-finder/internal/geo"
	"github.com/bbernstein/ambulance-finder/internal/models"
	"github.com/rs/zerolog/log"
)

// RawRecord is an ambulance row as the data store returns it. Every field
// may be missing.
type RawRecord struct {
	UUID        *string      `json:"uuid" yaml:"uuid" dynamodbav:"uuid"`
	PhoneNumber *string      `json:"phoneNumber" yaml:"phoneNumber" dynamodbav:"phoneNumber"`
	Location    *RawLocation `json:"location" yaml:"location" dynamodbav:"location"`
	Status      *string      `json:"status" yaml:"status" dynamodbav:"status"`
}

type RawLocation struct {
	Latitude  *float64 `json:"latitude" yaml:"latitude" dynamodbav:"latitude"`
	Longitude *float64 `json:"longitude" yaml:"longitude" dynamodbav:"longitude"`
}

// ParseRecords converts raw rows to ambulances. Rows without an id or a
// valid location are skipped and logged.
func ParseRecords(records []RawRecord) []models.Ambulance {
	ambulances := make([]models.Ambulance, 0, len(records))
	for i, r := range records {
		ambulance, reason := parseRecord(r)
		if reason != "" {
			event := log.Warn().Int("index", i).Str("reason", reason)
			if r.UUID != nil {
				event = event.Str("ambulance_id", *r.UUID)
			}
			event.Msg("Skipping malformed ambulance record")
			continue
		}
		ambulances = append(ambulances, ambulance)
	}

	if skipped := len(records) - len(ambulances); skipped > 0 {
		log.Debug().Int("skipped", skipped).Int("parsed", len(ambulances)).Msg("Parsed ambulance records")
	}
	return ambulances
}

func parseRecord(r RawRecord) (models.Ambulance, string) {
	if r.UUID == nil || *r.UUID == "" {
		return models.Ambulance{}, "missing uuid"
	}
	if r.Location == nil {
		return models.Ambulance{}, "missing location"
	}
	if r.Location.Latitude == nil || r.Location.Longitude == nil {
		return models.Ambulance{}, "missing latitude or longitude"
	}

	location := geo.NewCoordinate(*r.Location.Latitude, *r.Location.Longitude)
	if err := location.Validate(); err != nil {
		return models.Ambulance{}, err.Error()
	}

	status := models.StatusUnavailable
	if r.Status != nil && *r.Status != "" {
		status = models.Status(*r.Status)
	}

	var contact string
	if r.PhoneNumber != nil {
		contact = *r.PhoneNumber
	}

	return models.Ambulance{
		ID:       *r.UUID,
		Contact:  contact,
		Location: location,
		Status:   status,
	}, ""
}

func stringPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

// decodeJSONRecords decodes each row on its own. A row with a wrongly typed
// field is logged and dropped instead of failing the whole fetch.
func decodeJSONRecords(rows []json.RawMessage) []RawRecord {
	records := make([]RawRecord, 0, len(rows))
	for i, row := range rows {
		var record RawRecord
		if err := json.Unmarshal(row, &record); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Skipping undecodable ambulance row")
			continue
		}
		records = append(records, record)
	}
	return records
}
