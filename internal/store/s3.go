package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store reads a fleet snapshot JSON document from S3
type S3Store struct {
	client     S3Client
	bucketName string
	key        string
}

var _ Store = (*S3Store)(nil)

func NewS3Store(client S3Client, bucketName, key string) (*S3Store, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("empty bucket name")
	}
	if key == "" {
		key = "ambulances.json"
	}
	return &S3Store{
		client:     client,
		bucketName: bucketName,
		key:        key,
	}, nil
}

func (s *S3Store) Name() string {
	return BackendS3
}

func (s *S3Store) FetchAmbulances(ctx context.Context) ([]RawRecord, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting s3://%s/%s: %w", s.bucketName, s.key, err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	// {"lastUpdated": <unix seconds>, "ambulances": [...]}
	var snapshot struct {
		Ambulances  []json.RawMessage `json:"ambulances"`
		LastUpdated int64             `json:"lastUpdated"`
	}
	if err := json.NewDecoder(result.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decoding fleet snapshot: %w", err)
	}
	records := decodeJSONRecords(snapshot.Ambulances)

	log.Debug().
		Str("bucket", s.bucketName).
		Str("key", s.key).
		Int64("last_updated", snapshot.LastUpdated).
		Int("record_count", len(records)).
		Msg("Fetched fleet snapshot from S3")
	return records, nil
}
