package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bbernstein/ambulance-finder/pkg/http/client"
	"github.com/rs/zerolog/log"
)

const ambulanceColumns = "phoneNumber,location,status,uuid"

// SupabaseStore reads the ambulance table through the Supabase REST API
type SupabaseStore struct {
	httpClient client.Interface
	table      string
}

var _ Store = (*SupabaseStore)(nil)

func NewSupabaseStore(projectURL, apiKey, table string, timeout time.Duration, maxRetries int) (*SupabaseStore, error) {
	if projectURL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("supabase key is required")
	}

	httpClient := client.New(client.Options{
		BaseURL:    strings.TrimRight(projectURL, "/"),
		Timeout:    timeout,
		MaxRetries: maxRetries,
		Headers: map[string]string{
			"apikey":        apiKey,
			"Authorization": "Bearer " + apiKey,
			"Accept":        "application/json",
		},
	})
	return NewSupabaseStoreWithClient(httpClient, table), nil
}

func NewSupabaseStoreWithClient(httpClient client.Interface, table string) *SupabaseStore {
	return &SupabaseStore{
		httpClient: httpClient,
		table:      table,
	}
}

func (s *SupabaseStore) Name() string {
	return BackendSupabase
}

func (s *SupabaseStore) FetchAmbulances(ctx context.Context) ([]RawRecord, error) {
	path := fmt.Sprintf("/rest/v1/%s?select=%s", url.PathEscape(s.table), ambulanceColumns)

	resp, err := s.httpClient.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching ambulances: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("no response from supabase")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("supabase returned status %d: %s", resp.StatusCode, supabaseErrorMessage(resp.Body))
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(resp.Body, &rows); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	records := decodeJSONRecords(rows)

	log.Debug().Str("table", s.table).Int("record_count", len(records)).Msg("Fetched ambulances from supabase")
	return records, nil
}

// supabaseErrorMessage extracts the PostgREST error message when present
func supabaseErrorMessage(body []byte) string {
	var apiErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Error != "" {
			return apiErr.Error
		}
	}
	return strings.TrimSpace(string(body))
}
