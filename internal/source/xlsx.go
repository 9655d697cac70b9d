package source

import (
	"fmt"

	"github.com/vk/flowsheet/internal/config"
	"github.com/vk/flowsheet/internal/tabular"
	"github.com/xuri/excelize/v2"
)

// loadWorkbook opens an xlsx file and returns one dataset per sheet, or
// just the configured sheet when the source names one. The first row of
// each sheet is its header.
func loadWorkbook(src *config.Source) ([]*tabular.Dataset, error) {
	f, err := excelize.OpenFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if src.Sheet != "" {
		sheets = []string{src.Sheet}
	}

	var out []*tabular.Dataset
	for _, sheet := range sheets {
		records, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		if len(records) == 0 {
			out = append(out, tabular.NewDataset(src.Name, sheet, nil, nil))
			continue
		}
		columns, rows := headerRows(records[0], records[1:])
		out = append(out, tabular.NewDataset(src.Name, sheet, columns, rows))
	}
	return out, nil
}
