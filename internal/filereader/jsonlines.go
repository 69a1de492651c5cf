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
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cardinalhq/songlake/internal/pipeline"
	"github.com/cardinalhq/songlake/internal/pipeline/wkk"
)

// MaxLineSizeBytes is the largest single JSON record we will accept.
const MaxLineSizeBytes = 16 * 1024 * 1024

// JSONLinesReader reads rows from a newline-delimited JSON stream.
//
// Lines that fail to parse are skipped and counted rather than failing the
// read; a bad record in one source file must not abort the run.
type JSONLinesReader struct {
	scanner   *bufio.Scanner
	rowIndex  int
	closed    bool
	totalRows int64
	skipped   int64
	closer    io.Closer
	batchSize int
}

// NewJSONLinesReader creates a new JSONLinesReader for the given io.ReadCloser.
// The reader takes ownership of the closer and will close it when Close is called.
func NewJSONLinesReader(reader io.ReadCloser, batchSize int) (*JSONLinesReader, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSizeBytes)

	if batchSize <= 0 {
		batchSize = 1000
	}

	return &JSONLinesReader{
		scanner:   scanner,
		closer:    reader,
		batchSize: batchSize,
	}, nil
}

// NewJSONGzLinesReader wraps the stream in a gzip reader before scanning.
// Close tears down both the gzip layer and the underlying closer.
func NewJSONGzLinesReader(reader io.ReadCloser, batchSize int) (*JSONLinesReader, error) {
	gz, err := gzip.NewReader(reader)
	if err != nil {
		_ = reader.Close()
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	r, err := NewJSONLinesReader(&gzipReadCloser{gz: gz, under: reader}, batchSize)
	if err != nil {
		return nil, err
	}
	return r, nil
}

type gzipReadCloser struct {
	gz    *gzip.Reader
	under io.Closer
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	underErr := g.under.Close()
	if gzErr != nil {
		return gzErr
	}
	return underErr
}

func (r *JSONLinesReader) Next(ctx context.Context) (*Batch, error) {
	if r.closed {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := pipeline.GetBatch()

	for batch.Len() < r.batchSize {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				pipeline.ReturnBatch(batch)
				return nil, fmt.Errorf("scanner error reading at line %d: %w", r.rowIndex+1, err)
			}
			break
		}

		line := strings.TrimSpace(r.scanner.Text())
		r.rowIndex++

		if line == "" {
			continue
		}

		var jsonRow map[string]any
		if err := json.Unmarshal([]byte(line), &jsonRow); err != nil {
			r.skipped++
			continue
		}

		batchRow := batch.AddRow()
		for k, v := range jsonRow {
			batchRow[wkk.NewRowKey(k)] = v
		}
	}

	if batch.Len() == 0 {
		pipeline.ReturnBatch(batch)
		r.closed = true
		return nil, io.EOF
	}

	r.totalRows += int64(batch.Len())
	return batch, nil
}

// Close closes the reader and the underlying io.ReadCloser.
func (r *JSONLinesReader) Close() error {
	if r.closed && r.closer == nil {
		return nil
	}
	r.closed = true

	var err error
	if r.closer != nil {
		err = r.closer.Close()
		r.closer = nil
	}
	r.scanner = nil
	return err
}

// TotalRowsReturned returns the total number of rows that have been
// successfully returned via Next().
func (r *JSONLinesReader) TotalRowsReturned() int64 {
	return r.totalRows
}

// SkippedRows returns the number of lines dropped because they did not parse.
func (r *JSONLinesReader) SkippedRows() int64 {
	return r.skipped
}
