package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// PostgresStore reads the ambulance table straight from Postgres. The
// location column holds a JSON object with latitude and longitude.
type PostgresStore struct {
	db    *sql.DB
	goqu  *goqu.Database
	table string
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgresStore connects to dsn and verifies the connection
func OpenPostgresStore(dsn, table string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	log.Debug().Str("table", table).Msg("Connected to Postgres")
	return NewPostgresStore(db, table), nil
}

func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	return &PostgresStore{
		db:    db,
		goqu:  goqu.New("postgres", db),
		table: table,
	}
}

func (s *PostgresStore) Name() string {
	return BackendPostgres
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) FetchAmbulances(ctx context.Context) ([]RawRecord, error) {
	query, args, err := s.goqu.From(s.table).
		Select("uuid", "phoneNumber", "location", "status").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ambulances: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Error closing rows")
		}
	}()

	var records []RawRecord
	for rows.Next() {
		var id, phone, status sql.NullString
		var location []byte
		if err := rows.Scan(&id, &phone, &location, &status); err != nil {
			return nil, fmt.Errorf("scanning ambulance row: %w", err)
		}

		record := RawRecord{
			UUID:        nullStringPtr(id),
			PhoneNumber: nullStringPtr(phone),
			Status:      nullStringPtr(status),
		}
		if len(location) > 0 {
			var loc RawLocation
			if err := json.Unmarshal(location, &loc); err != nil {
				// leave Location nil so the record is skipped during parsing
				log.Warn().Err(err).Str("ambulance_id", id.String).Msg("Undecodable location column")
			} else {
				record.Location = &loc
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ambulance rows: %w", err)
	}

	log.Debug().Str("table", s.table).Int("record_count", len(records)).Msg("Fetched ambulances from postgres")
	return records, nil
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return stringPtr(s.String)
}
