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

package etl

import (
	"sort"
	"time"
)

// decomposeTimestamp derives the calendar parts of an epoch-milliseconds
// timestamp in UTC. Weekday is 0=Sunday through 6=Saturday; Week is the ISO
// 8601 week number.
func decomposeTimestamp(millis int64) TimeRow {
	t := time.UnixMilli(millis).UTC()
	_, isoWeek := t.ISOWeek()
	return TimeRow{
		StartTime: millis,
		Hour:      int32(t.Hour()),
		Day:       int32(t.Day()),
		Week:      int32(isoWeek),
		Month:     int32(t.Month()),
		Year:      int32(t.Year()),
		Weekday:   int32(t.Weekday()),
	}
}

// extractTime builds the time dimension from the distinct timestamps of the
// qualifying log events. Non-qualifying events never contribute rows here;
// the caller passes only filtered events.
func extractTime(events []logEvent) []TimeRow {
	seen := make(map[int64]struct{}, len(events))
	rows := make([]TimeRow, 0, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.TS]; ok {
			continue
		}
		seen[ev.TS] = struct{}{}
		rows = append(rows, decomposeTimestamp(ev.TS))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StartTime < rows[j].StartTime })
	return rows
}
