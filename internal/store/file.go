package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// FileStore reads a fleet roster from a local file. YAML and JSON documents
// hold either a fleet snapshot ({ambulances: [...]}) or a bare list of
// records; spreadsheets have a header row naming the columns.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("fleet file path is required")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", ".xlsx":
	default:
		return nil, fmt.Errorf("unsupported fleet file type: %s", path)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Name() string {
	return BackendFile
}

func (s *FileStore) FetchAmbulances(ctx context.Context) ([]RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []RawRecord
	var err error
	if strings.ToLower(filepath.Ext(s.path)) == ".xlsx" {
		records, err = readSpreadsheet(s.path)
	} else {
		records, err = readDocument(s.path)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().Str("path", s.path).Int("record_count", len(records)).Msg("Read fleet roster")
	return records, nil
}

func readDocument(path string) ([]RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fleet file: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing fleet file: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	if root.ShortTag() == "!!null" {
		return nil, nil
	}
	if root.Kind == yaml.SequenceNode {
		return decodeRecordNodes(root), nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decoding fleet snapshot: expected a list or a mapping")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "ambulances" {
			continue
		}
		list := root.Content[i+1]
		if list.ShortTag() == "!!null" {
			return nil, nil
		}
		if list.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("decoding fleet snapshot: ambulances must be a list")
		}
		return decodeRecordNodes(list), nil
	}
	return nil, nil
}

// decodeRecordNodes decodes each list entry on its own, skipping entries
// that fail.
func decodeRecordNodes(list *yaml.Node) []RawRecord {
	records := make([]RawRecord, 0, len(list.Content))
	for i, item := range list.Content {
		var record RawRecord
		if err := item.Decode(&record); err != nil {
			log.Warn().Err(err).Int("index", i).Int("line", item.Line).Msg("Skipping undecodable ambulance entry")
			continue
		}
		records = append(records, record)
	}
	return records
}

// Accepted spreadsheet header names, lower-cased.
var (
	uuidColumns      = []string{"uuid", "id"}
	latitudeColumns  = []string{"latitude", "lat"}
	longitudeColumns = []string{"longitude", "lon"}
)

func hasAnyColumn(columns map[string]int, names []string) bool {
	for _, name := range names {
		if _, ok := columns[name]; ok {
			return true
		}
	}
	return false
}

func readSpreadsheet(path string) ([]RawRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing spreadsheet")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make(map[string]int)
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range [][]string{uuidColumns, latitudeColumns, longitudeColumns} {
		if !hasAnyColumn(columns, required) {
			return nil, fmt.Errorf("spreadsheet is missing column %q", required[0])
		}
	}

	cell := func(row []string, names ...string) *string {
		for _, name := range names {
			if idx, ok := columns[name]; ok && idx < len(row) {
				if value := strings.TrimSpace(row[idx]); value != "" {
					return stringPtr(value)
				}
			}
		}
		return nil
	}

	records := make([]RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		records = append(records, RawRecord{
			UUID:        cell(row, uuidColumns...),
			PhoneNumber: cell(row, "phonenumber", "phone"),
			Status:      cell(row, "status"),
			Location: &RawLocation{
				Latitude:  parseCoord(cell(row, latitudeColumns...)),
				Longitude: parseCoord(cell(row, longitudeColumns...)),
			},
		})
	}
	return records, nil
}

// parseCoord accepts both decimal points and decimal commas
func parseCoord(value *string) *float64 {
	if value == nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(*value, ",", "."), 64)
	if err != nil {
		return nil
	}
	return floatPtr(f)
}
