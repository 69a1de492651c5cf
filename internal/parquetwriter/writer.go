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

// Package parquetwriter writes star-schema tables as partitioned Parquet
// part files. Rows are routed to one part file per partition; part files are
// staged in a temp dir and published by the caller, which gives whole-run
// replace semantics instead of append-and-accumulate.
package parquetwriter

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/oklog/ulid/v2"
	"github.com/parquet-go/parquet-go"
)

// ErrWriterClosed is returned by Write after Close or Abort.
var ErrWriterClosed = errors.New("parquetwriter: writer is already closed")

// Result contains metadata about a single output part file.
type Result struct {
	// Key is the object key for the part file relative to the output root,
	// e.g. "songs/songs.parquet/year=2000/artist_id=AR1/part-01J....parquet".
	Key string

	// FileName is the absolute path of the staged local file.
	FileName string

	// Partition is the rendered partition path ("" for unpartitioned tables).
	Partition string

	// RecordCount is the number of rows written to this file.
	RecordCount int64

	// FileSize is the size of the Parquet file in bytes.
	FileSize int64
}

// TableWriter writes one table's rows, grouped by partition. The type
// parameter's parquet struct tags define the authoritative column order and
// types for downstream schema-on-read consumers.
type TableWriter[T any] struct {
	table       string
	tmpdir      string
	partitionFn func(T) Partition
	parts       map[string]*partFile[T]
	closed      bool
}

type partFile[T any] struct {
	f         *os.File
	w         *parquet.GenericWriter[T]
	partition string
	count     int64
}

// NewTableWriter creates a writer for the named table. partitionFn maps each
// row to its partition; pass nil for unpartitioned tables.
func NewTableWriter[T any](table, tmpdir string, partitionFn func(T) Partition) *TableWriter[T] {
	if partitionFn == nil {
		partitionFn = func(T) Partition { return nil }
	}
	return &TableWriter[T]{
		table:       table,
		tmpdir:      tmpdir,
		partitionFn: partitionFn,
		parts:       make(map[string]*partFile[T]),
	}
}

// Write routes each row to its partition's part file.
func (w *TableWriter[T]) Write(rows ...T) error {
	if w.closed {
		return ErrWriterClosed
	}
	for _, row := range rows {
		p := w.partitionFn(row).Path()
		pf, ok := w.parts[p]
		if !ok {
			var err error
			pf, err = w.newPartFile(p)
			if err != nil {
				return err
			}
			w.parts[p] = pf
		}
		if _, err := pf.w.Write([]T{row}); err != nil {
			return fmt.Errorf("write %s row to partition %q: %w", w.table, p, err)
		}
		pf.count++
	}
	return nil
}

func (w *TableWriter[T]) newPartFile(partition string) (*partFile[T], error) {
	f, err := os.CreateTemp(w.tmpdir, w.table+"-*.parquet")
	if err != nil {
		return nil, fmt.Errorf("create part file for %s: %w", w.table, err)
	}
	return &partFile[T]{
		f:         f,
		w:         parquet.NewGenericWriter[T](f, WriterOptions(w.tmpdir)...),
		partition: partition,
	}, nil
}

// Close finalizes all part files and returns their metadata. After Close the
// writer cannot be used for further writes.
func (w *TableWriter[T]) Close() ([]Result, error) {
	if w.closed {
		return nil, ErrWriterClosed
	}
	w.closed = true

	results := make([]Result, 0, len(w.parts))
	for _, pf := range w.parts {
		if err := pf.w.Close(); err != nil {
			w.abortParts()
			return nil, fmt.Errorf("close parquet writer for %s: %w", w.table, err)
		}
		info, err := pf.f.Stat()
		if err != nil {
			w.abortParts()
			return nil, fmt.Errorf("stat part file for %s: %w", w.table, err)
		}
		if err := pf.f.Close(); err != nil {
			w.abortParts()
			return nil, fmt.Errorf("close part file for %s: %w", w.table, err)
		}
		results = append(results, Result{
			Key:         w.partKey(pf.partition),
			FileName:    pf.f.Name(),
			Partition:   pf.partition,
			RecordCount: pf.count,
			FileSize:    info.Size(),
		})
	}
	return results, nil
}

func (w *TableWriter[T]) partKey(partition string) string {
	// Layout mirrors the conventional <table>/<table>.parquet/<partition>/
	// directory tree expected by schema-on-read consumers.
	name := "part-" + ulid.Make().String() + ".parquet"
	return path.Join(w.table, w.table+".parquet", partition, name)
}

// Abort discards all staged part files. Safe to call multiple times.
func (w *TableWriter[T]) Abort() {
	w.closed = true
	w.abortParts()
}

func (w *TableWriter[T]) abortParts() {
	for p, pf := range w.parts {
		_ = pf.f.Close()
		_ = os.Remove(pf.f.Name())
		delete(w.parts, p)
	}
}
