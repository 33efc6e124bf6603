package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog/log"
)

// DynamoDBClient is the subset of the DynamoDB API used by DynamoStore
type DynamoDBClient interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoStore scans an ambulance table in DynamoDB
type DynamoStore struct {
	client DynamoDBClient
	table  string
}

var _ Store = (*DynamoStore)(nil)

func NewDynamoStore(client DynamoDBClient, table string) *DynamoStore {
	return &DynamoStore{
		client: client,
		table:  table,
	}
}

func (s *DynamoStore) Name() string {
	return BackendDynamoDB
}

func (s *DynamoStore) FetchAmbulances(ctx context.Context) ([]RawRecord, error) {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(s.table),
		ProjectionExpression: aws.String("#uuid, phoneNumber, #location, #status"),
		ExpressionAttributeNames: map[string]string{
			"#uuid":     "uuid",
			"#location": "location",
			"#status":   "status",
		},
	}

	var records []RawRecord
	pages := 0
	for {
		output, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", s.table, err)
		}
		pages++

		for i, item := range output.Items {
			var record RawRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				log.Warn().Err(err).Int("page", pages).Int("index", i).Msg("Skipping undecodable ambulance item")
				continue
			}
			records = append(records, record)
		}

		if len(output.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}

	log.Debug().
		Str("table", s.table).
		Int("pages", pages).
		Int("record_count", len(records)).
		Msg("Fetched ambulances from DynamoDB")
	return records, nil
}
