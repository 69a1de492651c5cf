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
	"github.com/cardinalhq/songlake/internal/idgen"
)

// matchKey identifies a song for the fact join: exact equality on title,
// artist name, and duration. No fuzzy matching.
type matchKey struct {
	title    string
	artist   string
	duration float64
}

type matchVal struct {
	songID    string
	artistID  string
	ambiguous bool
}

// songIndex resolves log events to song and artist ids.
type songIndex map[matchKey]matchVal

// buildSongIndex indexes song-metadata records for the fact join. Two
// distinct songs sharing a key make that key ambiguous; ambiguous keys
// resolve to no match, because a guess would attribute plays to the wrong
// song.
func buildSongIndex(records []songRecord) songIndex {
	idx := make(songIndex, len(records))
	for _, rec := range records {
		key := matchKey{title: rec.Title, artist: rec.ArtistName, duration: rec.Duration}
		if existing, ok := idx[key]; ok {
			if existing.songID != rec.SongID {
				existing.ambiguous = true
				idx[key] = existing
			}
			continue
		}
		idx[key] = matchVal{songID: rec.SongID, artistID: rec.ArtistID}
	}
	return idx
}

// lookup returns the song and artist ids for an event, or nils when the
// event has no confident match. JoinUnresolved is an expected steady-state
// condition, not an error.
func (idx songIndex) lookup(ev logEvent) (songID, artistID *string) {
	val, ok := idx[matchKey{title: ev.Song, artist: ev.Artist, duration: ev.Length}]
	if !ok || val.ambiguous {
		return nil, nil
	}
	return &val.songID, &val.artistID
}

// buildSongplays assembles the fact table: one row per qualifying log event,
// joined against the song index. Events whose lookup fails keep null foreign
// keys; no event is dropped. The surrogate songplay_id is unique within the
// run and carries no other meaning.
func buildSongplays(events []logEvent, idx songIndex, gen *idgen.SonyFlakeGenerator) []SongplayRow {
	rows := make([]SongplayRow, 0, len(events))
	for _, ev := range events {
		songID, artistID := idx.lookup(ev)
		ts := decomposeTimestamp(ev.TS)
		rows = append(rows, SongplayRow{
			SongplayID: gen.NextID(),
			StartTime:  ev.TS,
			UserID:     ev.UserID,
			Level:      ev.Level,
			SongID:     songID,
			ArtistID:   artistID,
			SessionID:  ev.SessionID,
			Location:   ev.Location,
			UserAgent:  ev.UserAgent,
			Year:       ts.Year,
			Month:      ts.Month,
		})
	}
	return rows
}
