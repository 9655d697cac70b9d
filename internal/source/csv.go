package source

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/vk/flowsheet/internal/config"
	"github.com/vk/flowsheet/internal/tabular"
)

// loadCSV reads a CSV file into a single dataset. The first record is the
// header. Records may be ragged; short rows read as nulls.
func loadCSV(src *config.Source) (*tabular.Dataset, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return tabular.NewDataset(src.Name, "", nil, nil), nil
	}
	columns, rows := headerRows(records[0], records[1:])
	return tabular.NewDataset(src.Name, "", columns, rows), nil
}
