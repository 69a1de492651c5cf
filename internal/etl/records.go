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
	"github.com/cardinalhq/songlake/internal/pipeline"
	"github.com/cardinalhq/songlake/internal/pipeline/wkk"
)

// PageNextSong is the page value marking a concrete song-play action.
// Only these log events qualify for the fact table and the user and time
// dimensions derived from it.
const PageNextSong = "NextSong"

// songRecord is the projection of one song-metadata JSON record.
type songRecord struct {
	SongID          string
	Title           string
	ArtistID        string
	ArtistName      string
	ArtistLocation  string
	ArtistLatitude  *float64
	ArtistLongitude *float64
	Year            int32
	Duration        float64
}

// songRecordFromRow projects a raw row into a songRecord. Returns false for
// rows missing their identity fields; such rows are counted as malformed.
func songRecordFromRow(row pipeline.Row) (songRecord, bool) {
	rec := songRecord{
		SongID:          row.GetString(wkk.RowKeySongID),
		Title:           row.GetString(wkk.RowKeyTitle),
		ArtistID:        row.GetString(wkk.RowKeyArtistID),
		ArtistName:      row.GetString(wkk.RowKeyArtistName),
		ArtistLocation:  row.GetString(wkk.RowKeyArtistLocation),
		ArtistLatitude:  row.GetNullableFloat64(wkk.RowKeyArtistLatitude),
		ArtistLongitude: row.GetNullableFloat64(wkk.RowKeyArtistLongitude),
	}
	if rec.SongID == "" || rec.ArtistID == "" {
		return songRecord{}, false
	}
	if year, ok := row.GetInt64(wkk.RowKeyYear); ok {
		rec.Year = int32(year)
	}
	if dur, ok := row.GetFloat64(wkk.RowKeyDuration); ok {
		rec.Duration = dur
	}
	return rec, true
}

// logEvent is the projection of one activity-log JSON record that qualifies
// for the fact table (page == PageNextSong).
type logEvent struct {
	TS        int64
	UserID    string
	FirstName string
	LastName  string
	Gender    string
	Level     string
	Song      string
	Artist    string
	Length    float64
	SessionID int64
	Location  string
	UserAgent string

	// ordinal is the event's position in stable input order, used as the
	// tie-break when two events for one user share a timestamp.
	ordinal int64
}

// logEventKind classifies a raw log row.
type logEventKind int

const (
	logEventQualifying logEventKind = iota
	logEventOtherPage
	logEventMalformed
)

// logEventFromRow projects a raw row into a logEvent. Rows for pages other
// than PageNextSong are excluded up front; qualifying rows without a usable
// timestamp are malformed.
func logEventFromRow(row pipeline.Row) (logEvent, logEventKind) {
	if row.GetString(wkk.RowKeyPage) != PageNextSong {
		return logEvent{}, logEventOtherPage
	}
	ts, ok := row.GetInt64(wkk.RowKeyTS)
	if !ok || ts <= 0 {
		return logEvent{}, logEventMalformed
	}
	ev := logEvent{
		TS:        ts,
		UserID:    row.GetString(wkk.RowKeyUserID),
		FirstName: row.GetString(wkk.RowKeyFirstName),
		LastName:  row.GetString(wkk.RowKeyLastName),
		Gender:    row.GetString(wkk.RowKeyGender),
		Level:     row.GetString(wkk.RowKeyLevel),
		Song:      row.GetString(wkk.RowKeySong),
		Artist:    row.GetString(wkk.RowKeyArtist),
		Location:  row.GetString(wkk.RowKeyLocation),
		UserAgent: row.GetString(wkk.RowKeyUserAgent),
	}
	if length, ok := row.GetFloat64(wkk.RowKeyLength); ok {
		ev.Length = length
	}
	if sid, ok := row.GetInt64(wkk.RowKeySessionID); ok {
		ev.SessionID = sid
	}
	return ev, logEventQualifying
}
