// Package source loads the declared tabular inputs into a catalog: xlsx
// workbooks, CSV files, and remote JSON arrays.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/flowsheet/internal/config"
	"github.com/vk/flowsheet/internal/ctxlog"
	"github.com/vk/flowsheet/internal/tabular"
	"github.com/zclconf/go-cty/cty"
)

// LoadCatalog loads every declared source in order. Load order matters
// downstream: bare column references resolve against the first source.
func LoadCatalog(ctx context.Context, sources []*config.Source) (*tabular.Catalog, error) {
	log := ctxlog.FromContext(ctx)
	catalog := tabular.NewCatalog()
	for _, src := range sources {
		datasets, err := load(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", src.Name, err)
		}
		for _, d := range datasets {
			log.Debug("Loaded source.", "name", d.Name, "sheet", d.Sheet, "rows", len(d.Rows), "columns", len(d.Columns))
			catalog.Add(d)
		}
	}
	return catalog, nil
}

func load(ctx context.Context, src *config.Source) ([]*tabular.Dataset, error) {
	if src.URL != "" {
		d, err := loadRemoteJSON(ctx, src)
		if err != nil {
			return nil, err
		}
		return []*tabular.Dataset{d}, nil
	}
	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".xlsx", ".xlsm":
		return loadWorkbook(src)
	case ".csv":
		d, err := loadCSV(src)
		if err != nil {
			return nil, err
		}
		return []*tabular.Dataset{d}, nil
	}
	return nil, fmt.Errorf("unsupported source format %q", filepath.Ext(src.Path))
}

// headerRows converts a header row plus data rows of strings into datasets'
// row form. Short rows leave trailing cells absent, which reads as null.
func headerRows(header []string, data [][]string) ([]string, []tabular.Row) {
	columns := make([]string, len(header))
	copy(columns, header)
	rows := make([]tabular.Row, 0, len(data))
	for _, rec := range data {
		r := make(tabular.Row, len(columns))
		for i, c := range columns {
			if i < len(rec) {
				r[c] = cellValue(rec[i])
			}
		}
		rows = append(rows, r)
	}
	return columns, rows
}

// cellValue keeps file cells textual. Numeric interpretation is deferred to
// the value coercions so a cell is never mangled before a formula reads it.
func cellValue(s string) cty.Value {
	return cty.StringVal(s)
}
