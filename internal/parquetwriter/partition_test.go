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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionPath(t *testing.T) {
	p := Partition{
		{Name: "year", Value: "2018"},
		{Name: "month", Value: "11"},
	}
	assert.Equal(t, "year=2018/month=11", p.Path())
}

func TestPartitionPathEmpty(t *testing.T) {
	assert.Equal(t, "", Partition{}.Path())
	assert.Equal(t, "", Partition(nil).Path())
}

func TestPartitionPathEscapesValues(t *testing.T) {
	p := Partition{{Name: "artist_id", Value: "AR/1 %"}}
	assert.Equal(t, "artist_id=AR%2F1%20%25", p.Path())
}
