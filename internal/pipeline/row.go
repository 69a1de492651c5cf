// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package pipeline holds the row and batch model shared by readers and the
// extraction stages.
package pipeline

import (
	"maps"
	"strconv"

	"github.com/cardinalhq/songlake/internal/pipeline/wkk"
)

// Row represents a single data row as a map of RowKey to any value.
type Row map[wkk.RowKey]any

// CopyRow creates a deep copy of a row.
func CopyRow(in Row) Row {
	out := make(Row, len(in))
	maps.Copy(out, in)
	return out
}

// GetString retrieves a string value from the Row.
// Numeric values are formatted; this matters for fields like userId that
// appear as JSON numbers in some records and strings in others.
func (r Row) GetString(key wkk.RowKey) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; integral values print without a
		// fractional part.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

// GetInt64 retrieves an int64 value from the Row.
// Returns the value and true if found and convertible, or 0 and false otherwise.
func (r Row) GetInt64(key wkk.RowKey) (int64, bool) {
	switch v := r[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return n, true
		}
	}
	return 0, false
}

// GetFloat64 retrieves a float64 value from the Row.
// Returns the value and true if found and convertible, or 0 and false otherwise.
func (r Row) GetFloat64(key wkk.RowKey) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// GetNullableFloat64 retrieves a float64 value, distinguishing JSON null and
// absent fields from real values. Latitude and longitude come through here.
func (r Row) GetNullableFloat64(key wkk.RowKey) *float64 {
	if v, ok := r[key].(float64); ok {
		return &v
	}
	return nil
}
