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

package filereader

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/songlake/internal/pipeline"
	"github.com/cardinalhq/songlake/internal/pipeline/wkk"
)

// readAllRows reads every row from a reader, copying them out of the
// reader-owned batches.
func readAllRows(t *testing.T, reader Reader) []pipeline.Row {
	t.Helper()
	var rows []pipeline.Row
	for {
		batch, err := reader.Next(context.Background())
		if batch != nil {
			for i := 0; i < batch.Len(); i++ {
				rows = append(rows, pipeline.CopyRow(batch.Get(i)))
			}
			pipeline.ReturnBatch(batch)
		}
		if errors.Is(err, io.EOF) {
			return rows
		}
		require.NoError(t, err)
	}
}

func TestJSONLinesReader(t *testing.T) {
	data := `{"line": 1, "value": "first"}
{"line": 2, "value": "second"}
{"line": 3, "value": "third"}`

	reader, err := NewJSONLinesReader(io.NopCloser(bytes.NewReader([]byte(data))), 2)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	rows := readAllRows(t, reader)
	require.Len(t, rows, 3)
	assert.Equal(t, "first", rows[0].GetString(wkk.NewRowKey("value")))
	assert.Equal(t, "third", rows[2].GetString(wkk.NewRowKey("value")))
	assert.Equal(t, int64(3), reader.TotalRowsReturned())
	assert.Equal(t, int64(0), reader.SkippedRows())
}

func TestJSONLinesReaderSkipsMalformed(t *testing.T) {
	data := `{"line": 1}
not json at all
{"line": 2}
{"broken":
{"line": 3}`

	reader, err := NewJSONLinesReader(io.NopCloser(bytes.NewReader([]byte(data))), 100)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	rows := readAllRows(t, reader)
	assert.Len(t, rows, 3, "malformed lines are skipped, not fatal")
	assert.Equal(t, int64(2), reader.SkippedRows())
}

func TestJSONLinesReaderSkipsEmptyLines(t *testing.T) {
	data := "{\"line\": 1}\n\n\n{\"line\": 2}\n"

	reader, err := NewJSONLinesReader(io.NopCloser(bytes.NewReader([]byte(data))), 100)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	rows := readAllRows(t, reader)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(0), reader.SkippedRows())
}

func TestJSONLinesReaderEmptyInput(t *testing.T) {
	reader, err := NewJSONLinesReader(io.NopCloser(bytes.NewReader(nil)), 100)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	batch, err := reader.Next(context.Background())
	assert.Nil(t, batch)
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONGzLinesReader(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(`{"line": 1}` + "\n" + `{"line": 2}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	reader, err := NewJSONGzLinesReader(io.NopCloser(bytes.NewReader(buf.Bytes())), 100)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	rows := readAllRows(t, reader)
	assert.Len(t, rows, 2)
}

func TestJSONGzLinesReaderBadStream(t *testing.T) {
	_, err := NewJSONGzLinesReader(io.NopCloser(bytes.NewReader([]byte("not gzip"))), 100)
	assert.Error(t, err)
}
