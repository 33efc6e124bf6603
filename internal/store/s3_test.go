package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Verify mockS3Client implements S3Client interface
var _ S3Client = (*mockS3Client)(nil)

type mockS3Client struct {
	getObjectFunc func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (m *mockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.getObjectFunc != nil {
		return m.getObjectFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(`{}`))}, nil
}

func TestNewS3Store(t *testing.T) {
	_, err := NewS3Store(&mockS3Client{}, "", "ambulances.json")
	assert.Error(t, err)

	s, err := NewS3Store(&mockS3Client{}, "fleet-bucket", "")
	require.NoError(t, err)
	assert.Equal(t, "ambulances.json", s.key)
	assert.Equal(t, BackendS3, s.Name())
}

func TestS3StoreFetchAmbulances(t *testing.T) {
	client := &mockS3Client{
		getObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "fleet-bucket", *params.Bucket)
			assert.Equal(t, "fleet/today.json", *params.Key)
			body := `{"lastUpdated":1700000000,"ambulances":[
				{"uuid":"a-1","phoneNumber":"+15550001","location":{"latitude":51.5,"longitude":-0.12},"status":"Available"},
				{"uuid":"a-2","status":"Dispatched"}
			]}`
			return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(body)))}, nil
		},
	}

	s, err := NewS3Store(client, "fleet-bucket", "fleet/today.json")
	require.NoError(t, err)

	records, err := s.FetchAmbulances(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a-1", *records[0].UUID)
	assert.Equal(t, 51.5, *records[0].Location.Latitude)
	assert.Equal(t, "Dispatched", *records[1].Status)
	assert.Nil(t, records[1].Location)
}

func TestS3StoreSkipsUndecodableEntries(t *testing.T) {
	client := &mockS3Client{
		getObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			body := `{"ambulances":[
				{"uuid":"a-1","location":{"latitude":"51.5","longitude":-0.12},"status":"Available"},
				{"uuid":"a-2","location":{"latitude":51.6,"longitude":-0.12},"status":"Available"}
			]}`
			return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
		},
	}

	s, err := NewS3Store(client, "fleet-bucket", "")
	require.NoError(t, err)

	records, err := s.FetchAmbulances(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a-2", *records[0].UUID)
}

func TestS3StoreErrors(t *testing.T) {
	tests := []struct {
		name    string
		getFunc func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
		wantErr string
	}{
		{
			name: "missing object",
			getFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
				return nil, errors.New("NoSuchKey")
			},
			wantErr: "NoSuchKey",
		},
		{
			name: "invalid document",
			getFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
				return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("not json"))}, nil
			},
			wantErr: "decoding fleet snapshot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewS3Store(&mockS3Client{getObjectFunc: tt.getFunc}, "fleet-bucket", "ambulances.json")
			require.NoError(t, err)

			_, err = s.FetchAmbulances(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
