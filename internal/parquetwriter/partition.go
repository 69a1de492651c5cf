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
	"net/url"
	"strings"
)

// Column is one partition column name/value pair.
type Column struct {
	Name  string
	Value string
}

// Partition is the ordered list of partition columns identifying one output
// directory. An empty Partition means the table is unpartitioned.
type Partition []Column

// Path renders the partition as directory segments, e.g. "year=2018/month=11".
// Mapping a partition to a path is a pure function of the column values;
// values are escaped so they cannot introduce extra path segments.
func (p Partition) Path() string {
	if len(p) == 0 {
		return ""
	}
	segs := make([]string, 0, len(p))
	for _, c := range p {
		segs = append(segs, c.Name+"="+url.PathEscape(c.Value))
	}
	return strings.Join(segs, "/")
}
