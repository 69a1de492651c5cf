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

package pipeline

import (
	"sync"
)

// Batch is owned by the Reader that returns it.
// Consumers must not hold references after the next Next() call.
// If you must retain, copy the rows you need with CopyRow.
//
// The Batch reuses underlying Row maps for memory efficiency. Access rows
// only through the provided methods.
type Batch struct {
	rows     []Row
	validLen int
}

var batchPool = sync.Pool{
	New: func() any {
		return &Batch{}
	},
}

// GetBatch returns a reusable batch from the global pool.
// The batch is clean and ready to use.
func GetBatch() *Batch {
	b := batchPool.Get().(*Batch)
	for i := range b.rows {
		clear(b.rows[i])
	}
	b.validLen = 0
	return b
}

// ReturnBatch returns a batch to the global pool for reuse.
// The batch must not be used after calling this function.
func ReturnBatch(b *Batch) {
	if b != nil {
		b.validLen = 0
		batchPool.Put(b)
	}
}

// Len returns the number of valid rows in the batch.
func (b *Batch) Len() int {
	return b.validLen
}

// Get returns the row at the given index. The returned Row must not be
// retained beyond the lifetime of this batch, as it may be reused.
func (b *Batch) Get(index int) Row {
	if index < 0 || index >= b.validLen {
		return nil
	}
	return b.rows[index]
}

// AddRow returns a clean Row appended to the batch, reusing a pooled map
// when one is available.
func (b *Batch) AddRow() Row {
	if b.validLen < len(b.rows) {
		row := b.rows[b.validLen]
		clear(row)
		b.validLen++
		return row
	}
	row := make(Row)
	b.rows = append(b.rows, row)
	b.validLen++
	return row
}
