// Package source implements the query capability the aggregator consumes:
// fetch the rows of one logical source and project them, through ordered
// field-alias lists, into flat string rows.
//
// Three interchangeable backends exist: a PostgREST client (rest.go), a
// direct Postgres client (postgres.go), and a subprocess runner emitting
// tab-separated rows (cli.go). Tests substitute the in-memory Mock.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Row is an ordered sequence of string fields, one per Spec field.
type Row []string

// Field describes one logical column. Aliases are tried in order against
// each record; the first key present (and non-null) wins, otherwise Default
// is used.
type Field struct {
	Aliases []string
	Default string
}

// Spec describes how to fetch and project one logical source. Specs are
// static configuration data owned by the aggregator.
type Spec struct {
	// Name is the logical source and table name.
	Name string
	// Select is the column projection expression ("*" to fetch everything,
	// required when alias lists reach across unknown schemas).
	Select string
	// Order is a PostgREST-style order expression, e.g. "timestamp.desc".
	Order string
	// Limit caps the number of rows fetched.
	Limit int
	// Fields define the projection into Row, in order.
	Fields []Field
}

// Querier fetches and projects the rows of one source.
type Querier interface {
	Query(ctx context.Context, spec Spec) ([]Row, error)
}

// Sentinel errors shared by the backends.
var (
	ErrServerError = errors.New("source server error")
	ErrDecode      = errors.New("source response decode failed")
)

// projectRecord applies the spec's alias lists to one decoded JSON record.
func projectRecord(record map[string]any, fields []Field) Row {
	row := make(Row, len(fields))

	for i, f := range fields {
		row[i] = f.Default

		for _, key := range f.Aliases {
			v, ok := record[key]
			if !ok || v == nil {
				continue
			}

			row[i] = stringifyValue(v, f.Default)

			break
		}
	}

	return row
}

// stringifyValue renders a decoded JSON value as a flat field.
func stringifyValue(v any, fallback string) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}

		return "false"
	default:
		// Nested objects and arrays have no flat representation.
		return fallback
	}
}

// decodeRecord parses a single JSON object, preserving number literals.
func decodeRecord(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var record map[string]any
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return record, nil
}

// decodeRecords parses a JSON array of objects, preserving number literals.
func decodeRecords(data []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return records, nil
}
