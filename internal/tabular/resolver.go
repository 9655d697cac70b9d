package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// ErrColumnNotFound is the kind wrapped by every failed resolution.
var ErrColumnNotFound = errors.New("column not found")

// NotFoundError reports a reference the resolver could not locate in any
// loaded source.
type NotFoundError struct {
	File   string
	Column string
}

func (e *NotFoundError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("column %q not found in source %q", e.Column, e.File)
	}
	return fmt.Sprintf("column %q not found in any loaded source", e.Column)
}

func (e *NotFoundError) Unwrap() error { return ErrColumnNotFound }

// Ref points at a column, optionally qualified by its source file. An empty
// File is a bare reference.
type Ref struct {
	File   string
	Column string
}

// ParseRef parses a textual column reference. "file!column" qualifies the
// source, anything else is a bare column name.
func ParseRef(s string) Ref {
	if i := strings.Index(s, "!"); i >= 0 {
		return Ref{File: s[:i], Column: s[i+1:]}
	}
	return Ref{Column: s}
}

// ResolvedColumn is the concrete source and column a Ref landed on.
type ResolvedColumn struct {
	Source *Dataset
	Column string
}

// Resolver maps column references onto a catalog of loaded sources.
type Resolver struct {
	catalog *Catalog
}

// NewResolver returns a resolver over the given catalog.
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve locates ref within the loaded sources. A qualified reference must
// match its file and column exactly. A bare reference falls back to the
// first loaded source declaring the column; when several sources share a
// column name only the first is used. That fallback is a known limitation
// kept for compatibility, not a policy worth imitating.
func (r *Resolver) Resolve(ref Ref) (ResolvedColumn, error) {
	if ref.File != "" {
		for _, d := range r.catalog.Sources() {
			if d.Name == ref.File && d.HasColumn(ref.Column) {
				return ResolvedColumn{Source: d, Column: ref.Column}, nil
			}
		}
		return ResolvedColumn{}, &NotFoundError{File: ref.File, Column: ref.Column}
	}
	for _, d := range r.catalog.Sources() {
		if d.HasColumn(ref.Column) {
			return ResolvedColumn{Source: d, Column: ref.Column}, nil
		}
	}
	return ResolvedColumn{}, &NotFoundError{Column: ref.Column}
}
