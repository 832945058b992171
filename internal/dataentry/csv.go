// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// utf8BOM is written by spreadsheet exports and must not leak into header names.
const utf8BOM = "\ufeff"

/*
ParseCSV reads rows from a CSV document whose header names field keys.

Unknown or repeated headers fail the whole import, as does a record with
more cells than the header. Empty cells keep the field's empty
default. Cell errors report the 1-based line and the header.
*/
func ParseCSV(reader io.Reader) ([]Row, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("dataentry: csv: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("dataentry: csv: %w", err)
	}

	fields := make([]Field, len(header))
	seen := make(map[Field]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		field, err := ParseField(name)
		if err != nil {
			return nil, fmt.Errorf("dataentry: csv: header %d: %w", i+1, err)
		}
		if first, dup := seen[field]; dup {
			return nil, fmt.Errorf("dataentry: csv: header %d: %s repeats header %d", i+1, field, first)
		}
		seen[field] = i + 1
		fields[i] = field
	}

	var rows []Row
	line := 1
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataentry: csv: %w", err)
		}
		line++

		if len(record) > len(fields) {
			return nil, fmt.Errorf("dataentry: csv: line %d: %d cells for %d headers", line, len(record), len(fields))
		}

		row := EmptyRow()
		for i, cell := range record {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if err := row.Set(fields[i], cell); err != nil {
				return nil, fmt.Errorf("dataentry: csv: line %d, %s: %w", line, fields[i], err)
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// WriteCSV writes every field of every row with a header of field keys.
func WriteCSV(writer io.Writer, rows []Row) error {
	csvWriter := csv.NewWriter(writer)

	header := make([]string, len(orderedFields))
	for i, field := range orderedFields {
		header[i] = string(field)
	}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("dataentry: csv: %w", err)
	}

	for _, row := range rows {
		record := make([]string, len(orderedFields))
		for i, field := range orderedFields {
			record[i] = formatCell(row.Value(field))
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("dataentry: csv: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func formatCell(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case *float64:
		if typed == nil {
			return ""
		}
		return strconv.FormatFloat(*typed, 'f', -1, 64)
	case *bool:
		if typed == nil {
			return ""
		}
		return strconv.FormatBool(*typed)
	case []LinkedFile:
		paths := make([]string, len(typed))
		for i, file := range typed {
			paths[i] = file.Path
		}
		return strings.Join(paths, linkedFileSeparator)
	default:
		return ""
	}
}
