package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bbernstein/ambulance-finder/internal/models"
	"github.com/rs/zerolog/log"
)

// DynamoDBClient is the subset of the DynamoDB API used for snapshots
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoSnapshotStore shares fleet snapshots through a DynamoDB table keyed
// by snapshotKey with TTL enabled on the ttl attribute.
type DynamoSnapshotStore struct {
	client DynamoDBClient
	table  string
	clock  clock
}

var _ SharedSnapshotStore = (*DynamoSnapshotStore)(nil)

func NewDynamoSnapshotStore(client DynamoDBClient, table string) *DynamoSnapshotStore {
	return &DynamoSnapshotStore{
		client: client,
		table:  table,
		clock:  systemClock{},
	}
}

func (s *DynamoSnapshotStore) GetSnapshot(ctx context.Context, key string) ([]models.Ambulance, bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"snapshotKey": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("getting snapshot from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, false, nil
	}

	var record models.FleetSnapshotRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, false, fmt.Errorf("unmarshaling snapshot record: %w", err)
	}

	// DynamoDB removes expired items lazily
	if s.clock.Now().Unix() >= record.TTL {
		log.Debug().Str("key", key).Msg("DynamoDB snapshot expired")
		return nil, false, nil
	}

	return record.Ambulances, true, nil
}

func (s *DynamoSnapshotStore) SaveSnapshot(ctx context.Context, key string, ambulances []models.Ambulance, ttl time.Duration) error {
	now := s.clock.Now()
	record := models.FleetSnapshotRecord{
		SnapshotKey: key,
		Ambulances:  ambulances,
		LastUpdated: now.Unix(),
		TTL:         now.Add(ttl).Unix(),
	}
	if ttl < time.Second {
		record.TTL = record.LastUpdated + 1
	}

	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot record: %w", err)
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling snapshot record: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("putting snapshot in DynamoDB: %w", err)
	}

	log.Debug().
		Str("key", key).
		Int("ambulance_count", len(ambulances)).
		Msg("Saved snapshot to DynamoDB")

	return nil
}
