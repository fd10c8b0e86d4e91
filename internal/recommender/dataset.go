package recommender

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Required columns of the IFS reference dataset.
const (
	columnDistrict    = "District"
	columnZone        = "Agro_Climatic_Zone"
	columnModel       = "IFS_Model"
	columnDescription = "Description"
)

// Record is one row of the IFS reference dataset. Records are created at load
// time and never mutated.
type Record struct {
	District         string
	AgroClimaticZone string
	ModelName        string
	Description      string
}

// LoadCSV reads the IFS reference dataset from a CSV file on disk.
func LoadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open IFS dataset: %w", err)
	}
	defer f.Close()

	records, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ParseCSV parses the IFS reference dataset. The header must contain the four
// required columns; a missing column is a fatal error naming what is missing.
func ParseCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		// Tolerate a UTF-8 BOM on the first column.
		name = strings.TrimPrefix(strings.TrimSpace(name), "\uFEFF")
		colIdx[name] = i
	}

	var missing []string
	for _, required := range []string{columnDistrict, columnZone, columnModel, columnDescription} {
		if _, ok := colIdx[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("dataset is missing required columns: %s (found: %s)",
			strings.Join(missing, ", "), strings.Join(header, ", "))
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}
		records = append(records, Record{
			District:         field(row, colIdx[columnDistrict]),
			AgroClimaticZone: field(row, colIdx[columnZone]),
			ModelName:        field(row, colIdx[columnModel]),
			Description:      field(row, colIdx[columnDescription]),
		})
	}
	return records, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
