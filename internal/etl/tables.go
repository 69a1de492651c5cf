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

// Package etl maps raw song-metadata and activity-log records into the
// five-table star schema and writes it out as partitioned Parquet.
package etl

import (
	"strconv"

	"github.com/cardinalhq/songlake/internal/parquetwriter"
)

// The parquet tags on these types are the output contract: column order and
// types must stay exactly as declared for schema-on-read consumers.

// SongRow is one row of the songs dimension.
type SongRow struct {
	SongID   string  `parquet:"song_id"`
	Title    string  `parquet:"title"`
	ArtistID string  `parquet:"artist_id"`
	Year     int32   `parquet:"year"`
	Duration float64 `parquet:"duration"`
}

// ArtistRow is one row of the artists dimension. Latitude and longitude are
// null when the source record carries no coordinates; nulls are preserved,
// never coerced to a sentinel.
type ArtistRow struct {
	ArtistID  string   `parquet:"artist_id"`
	Name      string   `parquet:"name"`
	Location  string   `parquet:"location"`
	Latitude  *float64 `parquet:"latitude,optional"`
	Longitude *float64 `parquet:"longitude,optional"`
}

// UserRow is one row of the users dimension, reflecting the user's state at
// their chronologically latest qualifying event.
type UserRow struct {
	UserID    string `parquet:"user_id"`
	FirstName string `parquet:"first_name"`
	LastName  string `parquet:"last_name"`
	Gender    string `parquet:"gender"`
	Level     string `parquet:"level"`
}

// TimeRow is one row of the time dimension. StartTime is epoch milliseconds.
// Week is the ISO 8601 week number. Weekday is 0=Sunday through 6=Saturday
// (the week starts on Sunday).
type TimeRow struct {
	StartTime int64 `parquet:"start_time,timestamp(millisecond)"`
	Hour      int32 `parquet:"hour"`
	Day       int32 `parquet:"day"`
	Week      int32 `parquet:"week"`
	Month     int32 `parquet:"month"`
	Year      int32 `parquet:"year"`
	Weekday   int32 `parquet:"weekday"`
}

// SongplayRow is one row of the songplays fact table. SongID and ArtistID
// are soft foreign keys: null when no confident song match exists. Year and
// Month duplicate the time dimension's decomposition so the writer can
// partition without a join at read time.
type SongplayRow struct {
	SongplayID int64   `parquet:"songplay_id"`
	StartTime  int64   `parquet:"start_time,timestamp(millisecond)"`
	UserID     string  `parquet:"user_id"`
	Level      string  `parquet:"level"`
	SongID     *string `parquet:"song_id,optional"`
	ArtistID   *string `parquet:"artist_id,optional"`
	SessionID  int64   `parquet:"session_id"`
	Location   string  `parquet:"location"`
	UserAgent  string  `parquet:"user_agent"`
	Year       int32   `parquet:"year"`
	Month      int32   `parquet:"month"`
}

// SongPartition partitions songs by year then artist.
func SongPartition(r SongRow) parquetwriter.Partition {
	return parquetwriter.Partition{
		{Name: "year", Value: strconv.FormatInt(int64(r.Year), 10)},
		{Name: "artist_id", Value: r.ArtistID},
	}
}

// TimePartition partitions the time dimension by year then month.
func TimePartition(r TimeRow) parquetwriter.Partition {
	return parquetwriter.Partition{
		{Name: "year", Value: strconv.FormatInt(int64(r.Year), 10)},
		{Name: "month", Value: strconv.FormatInt(int64(r.Month), 10)},
	}
}

// SongplayPartition partitions the fact table by year then month.
func SongplayPartition(r SongplayRow) parquetwriter.Partition {
	return parquetwriter.Partition{
		{Name: "year", Value: strconv.FormatInt(int64(r.Year), 10)},
		{Name: "month", Value: strconv.FormatInt(int64(r.Month), 10)},
	}
}
