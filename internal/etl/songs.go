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

// extractSongs projects song-metadata records into the songs dimension,
// one row per distinct song_id. The first occurrence in stable input order
// wins; attribute values of later duplicates are not merged or reconciled.
func extractSongs(records []songRecord) []SongRow {
	seen := make(map[string]struct{}, len(records))
	rows := make([]SongRow, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.SongID]; ok {
			continue
		}
		seen[rec.SongID] = struct{}{}
		rows = append(rows, SongRow{
			SongID:   rec.SongID,
			Title:    rec.Title,
			ArtistID: rec.ArtistID,
			Year:     rec.Year,
			Duration: rec.Duration,
		})
	}
	return rows
}

// extractArtists projects song-metadata records into the artists dimension,
// one row per distinct artist_id, first occurrence wins.
func extractArtists(records []songRecord) []ArtistRow {
	seen := make(map[string]struct{}, len(records))
	rows := make([]ArtistRow, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.ArtistID]; ok {
			continue
		}
		seen[rec.ArtistID] = struct{}{}
		rows = append(rows, ArtistRow{
			ArtistID:  rec.ArtistID,
			Name:      rec.ArtistName,
			Location:  rec.ArtistLocation,
			Latitude:  rec.ArtistLatitude,
			Longitude: rec.ArtistLongitude,
		})
	}
	return rows
}
