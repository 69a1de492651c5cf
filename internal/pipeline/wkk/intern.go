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

// Package wkk provides well-known interned row keys. Interning keeps a single
// canonical handle per field name so row maps across millions of records share
// key storage instead of duplicating strings.
package wkk

import (
	"unique"
)

type rowkey string

type RowKey = unique.Handle[rowkey]

func NewRowKey(s string) RowKey {
	return unique.Make(rowkey(s))
}

func RowKeyValue(rk RowKey) string {
	return string(rk.Value())
}

// Pre-allocated keys for the fields of the two source record shapes.
var (
	// Song metadata records
	RowKeySongID          = NewRowKey("song_id")
	RowKeyTitle           = NewRowKey("title")
	RowKeyArtistID        = NewRowKey("artist_id")
	RowKeyArtistName      = NewRowKey("artist_name")
	RowKeyArtistLocation  = NewRowKey("artist_location")
	RowKeyArtistLatitude  = NewRowKey("artist_latitude")
	RowKeyArtistLongitude = NewRowKey("artist_longitude")
	RowKeyYear            = NewRowKey("year")
	RowKeyDuration        = NewRowKey("duration")
	RowKeyNumSongs        = NewRowKey("num_songs")

	// Activity log records
	RowKeyArtist        = NewRowKey("artist")
	RowKeyAuth          = NewRowKey("auth")
	RowKeyFirstName     = NewRowKey("firstName")
	RowKeyGender        = NewRowKey("gender")
	RowKeyItemInSession = NewRowKey("itemInSession")
	RowKeyLastName      = NewRowKey("lastName")
	RowKeyLength        = NewRowKey("length")
	RowKeyLevel         = NewRowKey("level")
	RowKeyLocation      = NewRowKey("location")
	RowKeyMethod        = NewRowKey("method")
	RowKeyPage          = NewRowKey("page")
	RowKeyRegistration  = NewRowKey("registration")
	RowKeySessionID     = NewRowKey("sessionId")
	RowKeySong          = NewRowKey("song")
	RowKeyStatus        = NewRowKey("status")
	RowKeyTS            = NewRowKey("ts")
	RowKeyUserAgent     = NewRowKey("userAgent")
	RowKeyUserID        = NewRowKey("userId")
)
