package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewFileStore(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)

	_, err = NewFileStore("fleet.csv")
	assert.Error(t, err)

	s, err := NewFileStore("fleet.YAML")
	require.NoError(t, err)
	assert.Equal(t, BackendFile, s.Name())
}

func TestFileStoreDocuments(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml snapshot",
			file: "fleet.yaml",
			content: `
ambulances:
  - uuid: a-1
    phoneNumber: "+15550001"
    status: Available
    location:
      latitude: 47.6
      longitude: -122.3
  - uuid: a-2
    status: Unavailable
`,
		},
		{
			name: "yaml list",
			file: "fleet.yml",
			content: `
- uuid: a-1
  phoneNumber: "+15550001"
  status: Available
  location: {latitude: 47.6, longitude: -122.3}
- uuid: a-2
  status: Unavailable
`,
		},
		{
			name: "json snapshot",
			file: "fleet.json",
			content: `{"ambulances":[
				{"uuid":"a-1","phoneNumber":"+15550001","status":"Available","location":{"latitude":47.6,"longitude":-122.3}},
				{"uuid":"a-2","status":"Unavailable","location":null}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewFileStore(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			records, err := s.FetchAmbulances(context.Background())
			require.NoError(t, err)
			require.Len(t, records, 2)

			assert.Equal(t, "a-1", *records[0].UUID)
			assert.Equal(t, "+15550001", *records[0].PhoneNumber)
			require.NotNil(t, records[0].Location)
			assert.Equal(t, 47.6, *records[0].Location.Latitude)
			assert.Equal(t, -122.3, *records[0].Location.Longitude)
			assert.Equal(t, "Unavailable", *records[1].Status)
			assert.Nil(t, records[1].Location)
		})
	}
}

func TestFileStoreSkipsUndecodableEntries(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml list",
			file: "fleet.yaml",
			content: `
- uuid: a-1
  status: Available
  location: {latitude: abc, longitude: -122.3}
- uuid: a-2
  status: Available
  location: {latitude: 47.7, longitude: -122.3}
`,
		},
		{
			name: "json snapshot",
			file: "fleet.json",
			content: `{"ambulances":[
				{"uuid":"a-1","status":"Available","location":{"latitude":"47.7","longitude":-122.3}},
				{"uuid":"a-2","status":"Available","location":{"latitude":47.7,"longitude":-122.3}}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewFileStore(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			records, err := s.FetchAmbulances(context.Background())
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "a-2", *records[0].UUID)
		})
	}
}

func TestFileStoreRejectsScalarDocument(t *testing.T) {
	s, err := NewFileStore(writeFile(t, "fleet.yaml", "just a string\n"))
	require.NoError(t, err)

	_, err = s.FetchAmbulances(context.Background())
	assert.Error(t, err)
}

func TestFileStoreEmptyDocument(t *testing.T) {
	s, err := NewFileStore(writeFile(t, "fleet.yaml", ""))
	require.NoError(t, err)

	records, err := s.FetchAmbulances(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStoreMissingFile(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	_, err = s.FetchAmbulances(context.Background())
	assert.Error(t, err)
}

func TestFileStoreCanceledContext(t *testing.T) {
	s, err := NewFileStore(writeFile(t, "fleet.yaml", "[]"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.FetchAmbulances(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileStoreSpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"UUID", "Phone", "Latitude", "Longitude", "Status"},
		{"a-1", "+15550001", "47,6", "-122.3", "Available"},
		{"a-2", "", "not a number", "-74.0", "Available"},
		{},
		{"a-3", "+15550003", "40.7", "-74.0", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	s, err := NewFileStore(path)
	require.NoError(t, err)

	records, err := s.FetchAmbulances(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "a-1", *records[0].UUID)
	assert.Equal(t, "+15550001", *records[0].PhoneNumber)
	assert.Equal(t, 47.6, *records[0].Location.Latitude)
	assert.Equal(t, "Available", *records[0].Status)

	assert.Nil(t, records[1].PhoneNumber)
	assert.Nil(t, records[1].Location.Latitude)

	assert.Nil(t, records[2].Status)

	parsed := ParseRecords(records)
	require.Len(t, parsed, 2)
	assert.Equal(t, "a-1", parsed[0].ID)
	assert.Equal(t, "a-3", parsed[1].ID)
}

func TestFileStoreSpreadsheetMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"uuid", "status"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = s.FetchAmbulances(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")
}

func TestFileStoreSpreadsheetShortHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"id", "lat", "lon", "status"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"a-1", "47.6", "-122.3", "Available"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	s, err := NewFileStore(path)
	require.NoError(t, err)

	records, err := s.FetchAmbulances(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a-1", *records[0].UUID)
	assert.Equal(t, 47.6, *records[0].Location.Latitude)
	assert.Equal(t, -122.3, *records[0].Location.Longitude)
}
