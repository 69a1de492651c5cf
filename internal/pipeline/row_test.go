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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardinalhq/songlake/internal/pipeline/wkk"
)

func TestRowGetString(t *testing.T) {
	row := Row{
		wkk.NewRowKey("s"):    "hello",
		wkk.NewRowKey("n"):    float64(42),
		wkk.NewRowKey("f"):    float64(1.5),
		wkk.NewRowKey("null"): nil,
	}

	assert.Equal(t, "hello", row.GetString(wkk.NewRowKey("s")))
	assert.Equal(t, "42", row.GetString(wkk.NewRowKey("n")), "integral JSON numbers format without a fraction")
	assert.Equal(t, "1.5", row.GetString(wkk.NewRowKey("f")))
	assert.Equal(t, "", row.GetString(wkk.NewRowKey("null")))
	assert.Equal(t, "", row.GetString(wkk.NewRowKey("absent")))
}

func TestRowGetInt64(t *testing.T) {
	row := Row{
		wkk.NewRowKey("f"): float64(1541121934796),
		wkk.NewRowKey("s"): "17",
		wkk.NewRowKey("x"): "not a number",
	}

	v, ok := row.GetInt64(wkk.NewRowKey("f"))
	assert.True(t, ok)
	assert.Equal(t, int64(1541121934796), v)

	v, ok = row.GetInt64(wkk.NewRowKey("s"))
	assert.True(t, ok)
	assert.Equal(t, int64(17), v)

	_, ok = row.GetInt64(wkk.NewRowKey("x"))
	assert.False(t, ok)

	_, ok = row.GetInt64(wkk.NewRowKey("absent"))
	assert.False(t, ok)
}

func TestRowGetNullableFloat64(t *testing.T) {
	row := Row{
		wkk.NewRowKey("lat"):  float64(35.14968),
		wkk.NewRowKey("null"): nil,
	}

	lat := row.GetNullableFloat64(wkk.NewRowKey("lat"))
	if assert.NotNil(t, lat) {
		assert.Equal(t, 35.14968, *lat)
	}
	assert.Nil(t, row.GetNullableFloat64(wkk.NewRowKey("null")), "JSON null stays null")
	assert.Nil(t, row.GetNullableFloat64(wkk.NewRowKey("absent")))
}

func TestBatchAddAndGet(t *testing.T) {
	batch := GetBatch()
	defer ReturnBatch(batch)

	assert.Equal(t, 0, batch.Len())

	row := batch.AddRow()
	row[wkk.NewRowKey("k")] = "v"
	assert.Equal(t, 1, batch.Len())
	assert.Equal(t, "v", batch.Get(0).GetString(wkk.NewRowKey("k")))
	assert.Nil(t, batch.Get(1))
	assert.Nil(t, batch.Get(-1))
}

func TestBatchReuseClearsRows(t *testing.T) {
	batch := GetBatch()
	row := batch.AddRow()
	row[wkk.NewRowKey("k")] = "v"
	ReturnBatch(batch)

	again := GetBatch()
	defer ReturnBatch(again)
	fresh := again.AddRow()
	assert.Empty(t, fresh, "pooled rows come back clean")
}
