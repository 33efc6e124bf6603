package store

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// loadAWSConfig loads the default AWS configuration. When endpoint is set
// (local development) static dummy credentials are used so no real account
// is needed.
func loadAWSConfig(ctx context.Context, endpoint string) (aws.Config, error) {
	if endpoint == "" {
		return config.LoadDefaultConfig(ctx)
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "local"
	}
	return config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithClientLogMode(aws.LogRetries),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("local", "local", "")),
	)
}

// NewDynamoClient creates a new DynamoDB client based on environment
func NewDynamoClient(ctx context.Context) (*dynamodb.Client, error) {
	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	cfg, err := loadAWSConfig(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	if endpoint == "" {
		return dynamodb.NewFromConfig(cfg), nil
	}

	log.Debug().Str("endpoint", endpoint).Msg("Using local DynamoDB endpoint")
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	}), nil
}

// NewS3Client creates a new S3 client, honouring S3_ENDPOINT for local
// object stores
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	endpoint := os.Getenv("S3_ENDPOINT")
	cfg, err := loadAWSConfig(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	if endpoint == "" {
		return s3.NewFromConfig(cfg), nil
	}

	log.Debug().Str("endpoint", endpoint).Msg("Using local S3 endpoint")
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}), nil
}
