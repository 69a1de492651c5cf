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

// Package filereader provides readers that turn raw record files into row
// batches. Callers construct readers directly and compose them as needed.
package filereader

import (
	"context"

	"github.com/cardinalhq/songlake/internal/pipeline"
)

// Batch is re-exported so consumers don't need to import pipeline directly
// for the common read loop.
type Batch = pipeline.Batch

// Reader is the core interface for reading rows from a record source.
type Reader interface {
	// Next returns the next batch of rows. The returned batch is owned by
	// the reader; copy rows that must outlive the next call.
	// Returns io.EOF when there are no more rows.
	Next(ctx context.Context) (*Batch, error)

	// Close releases any resources held by the reader.
	Close() error
}

// SkipCounter is implemented by readers that tolerate malformed records by
// dropping them. The count is reported once at the end of a source scan.
type SkipCounter interface {
	SkippedRows() int64
}
