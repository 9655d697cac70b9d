// Package tabular holds the dataset model and the column reference resolver
// that maps logical column names onto loaded sources.
package tabular

import (
	"github.com/zclconf/go-cty/cty"
)

// Row maps column names to cell values. A missing key reads as cty.NilVal
// and is treated as null by the value coercions.
type Row map[string]cty.Value

// Clone returns a shallow copy of the row. Cell values are immutable, so a
// key-level copy is enough for executors that add columns.
func (r Row) Clone() Row {
	out := make(Row, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is one named tabular source: an ordered column list plus rows.
// Column order is display-significant only; lookup is always by name.
type Dataset struct {
	Name    string // source name, typically the file name
	Sheet   string // sheet within the source, empty for flat sources
	Columns []string
	Rows    []Row
}

// NewDataset builds a dataset and widens the declared columns with any row
// keys the caller missed, preserving the invariant that every row's key set
// is a subset of the column set.
func NewDataset(name, sheet string, columns []string, rows []Row) *Dataset {
	d := &Dataset{Name: name, Sheet: sheet, Columns: columns, Rows: rows}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				d.Columns = append(d.Columns, k)
			}
		}
	}
	return d
}

// HasColumn reports whether the dataset declares the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the named column's cells in row order. Absent cells come
// back as cty.NilVal.
func (d *Dataset) Column(name string) []cty.Value {
	out := make([]cty.Value, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r[name]
	}
	return out
}

// Catalog is the ordered set of loaded sources. Order matters: bare column
// references resolve against the first source that declares the column.
type Catalog struct {
	sources []*Dataset
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Add appends a source in load order.
func (c *Catalog) Add(d *Dataset) {
	c.sources = append(c.sources, d)
}

// Sources returns the loaded sources in load order.
func (c *Catalog) Sources() []*Dataset {
	return c.sources
}

// Sheet returns the dataset for the given source name and sheet. An empty
// sheet name matches the first sheet of the source.
func (c *Catalog) Sheet(name, sheet string) (*Dataset, bool) {
	for _, d := range c.sources {
		if d.Name != name {
			continue
		}
		if sheet == "" || d.Sheet == sheet {
			return d, true
		}
	}
	return nil, false
}

// SheetNamed returns the first dataset whose sheet matches, across all
// sources. Used by sheet-selection steps that carry only a sheet name.
func (c *Catalog) SheetNamed(sheet string) (*Dataset, bool) {
	for _, d := range c.sources {
		if d.Sheet == sheet {
			return d, true
		}
	}
	return nil, false
}

// First returns the first loaded source, or nil when the catalog is empty.
func (c *Catalog) First() *Dataset {
	if len(c.sources) == 0 {
		return nil
	}
	return c.sources[0]
}
