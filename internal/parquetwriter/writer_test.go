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

package parquetwriter

import (
	"strconv"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	ID    string   `parquet:"id"`
	Year  int32    `parquet:"year"`
	Score *float64 `parquet:"score,optional"`
}

func yearPartition(r testRow) Partition {
	return Partition{{Name: "year", Value: strconv.FormatInt(int64(r.Year), 10)}}
}

func TestTableWriterPartitionsRows(t *testing.T) {
	score := 1.5
	rows := []testRow{
		{ID: "a", Year: 2018, Score: &score},
		{ID: "b", Year: 2018},
		{ID: "c", Year: 2019},
	}

	tw := NewTableWriter[testRow]("things", t.TempDir(), yearPartition)
	require.NoError(t, tw.Write(rows...))

	results, err := tw.Close()
	require.NoError(t, err)
	require.Len(t, results, 2, "one part file per partition")

	byPartition := make(map[string]Result, len(results))
	for _, res := range results {
		byPartition[res.Partition] = res
		assert.True(t, strings.HasPrefix(res.Key, "things/things.parquet/"), "key %s", res.Key)
		assert.Contains(t, res.Key, res.Partition+"/part-")
		assert.Greater(t, res.FileSize, int64(0))
	}

	require.Contains(t, byPartition, "year=2018")
	require.Contains(t, byPartition, "year=2019")
	assert.Equal(t, int64(2), byPartition["year=2018"].RecordCount)
	assert.Equal(t, int64(1), byPartition["year=2019"].RecordCount)

	got, err := parquet.ReadFile[testRow](byPartition["year=2019"].FileName)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
	assert.Nil(t, got[0].Score)
}

func TestTableWriterUnpartitioned(t *testing.T) {
	tw := NewTableWriter[testRow]("things", t.TempDir(), nil)
	require.NoError(t, tw.Write(testRow{ID: "a", Year: 2018}))

	results, err := tw.Close()
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "", results[0].Partition)
	assert.True(t, strings.HasPrefix(results[0].Key, "things/things.parquet/part-"), "key %s", results[0].Key)
}

func TestTableWriterClosedWriterRejectsWrites(t *testing.T) {
	tw := NewTableWriter[testRow]("things", t.TempDir(), nil)
	_, err := tw.Close()
	require.NoError(t, err)

	assert.ErrorIs(t, tw.Write(testRow{ID: "a"}), ErrWriterClosed)
	_, err = tw.Close()
	assert.ErrorIs(t, err, ErrWriterClosed)
}

func TestTableWriterAbort(t *testing.T) {
	tw := NewTableWriter[testRow]("things", t.TempDir(), yearPartition)
	require.NoError(t, tw.Write(testRow{ID: "a", Year: 2018}))

	tw.Abort()
	tw.Abort() // safe to call twice

	assert.ErrorIs(t, tw.Write(testRow{ID: "b"}), ErrWriterClosed)
}
