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
)

// extractUsers reduces qualifying log events to one row per user, keeping
// the attributes from the event with the greatest timestamp. Mutable fields
// like subscription level therefore reflect the latest observed state.
// Equal timestamps are broken by input ordinal, so the reduction is fully
// deterministic for a given input order. Events without a userId are not
// attributable to a user and contribute no row.
func extractUsers(events []logEvent) []UserRow {
	latest := make(map[string]logEvent, len(events))
	for _, ev := range events {
		if ev.UserID == "" {
			continue
		}
		best, ok := latest[ev.UserID]
		if !ok || ev.TS > best.TS || (ev.TS == best.TS && ev.ordinal > best.ordinal) {
			latest[ev.UserID] = ev
		}
	}

	rows := make([]UserRow, 0, len(latest))
	for _, ev := range latest {
		rows = append(rows, UserRow{
			UserID:    ev.UserID,
			FirstName: ev.FirstName,
			LastName:  ev.LastName,
			Gender:    ev.Gender,
			Level:     ev.Level,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	return rows
}
