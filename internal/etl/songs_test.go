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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSongsDedup(t *testing.T) {
	records := []songRecord{
		{SongID: "S1", Title: "Song A", ArtistID: "AR1", Year: 2000, Duration: 200.5},
		{SongID: "S2", Title: "Song B", ArtistID: "AR1", Year: 2005, Duration: 180.0},
		{SongID: "S1", Title: "Song A (reissue)", ArtistID: "AR1", Year: 2010, Duration: 200.5},
	}

	rows := extractSongs(records)
	require.Len(t, rows, 2, "one row per distinct song_id")

	// First occurrence wins; duplicate attributes are not merged.
	assert.Equal(t, "Song A", rows[0].Title)
	assert.Equal(t, int32(2000), rows[0].Year)
	assert.Equal(t, "S2", rows[1].SongID)
}

func TestExtractArtistsDedup(t *testing.T) {
	lat, lon := 35.14968, -90.04892
	records := []songRecord{
		{SongID: "S1", ArtistID: "AR1", ArtistName: "Artist A", ArtistLocation: "Memphis, TN", ArtistLatitude: &lat, ArtistLongitude: &lon},
		{SongID: "S2", ArtistID: "AR1", ArtistName: "Artist A Revised"},
		{SongID: "S3", ArtistID: "AR2", ArtistName: "Artist B"},
	}

	rows := extractArtists(records)
	require.Len(t, rows, 2)

	assert.Equal(t, "AR1", rows[0].ArtistID)
	assert.Equal(t, "Artist A", rows[0].Name)
	require.NotNil(t, rows[0].Latitude)
	assert.Equal(t, 35.14968, *rows[0].Latitude)

	assert.Equal(t, "AR2", rows[1].ArtistID)
	assert.Nil(t, rows[1].Latitude)
	assert.Nil(t, rows[1].Longitude)
}

func TestExtractSongsEmpty(t *testing.T) {
	assert.Empty(t, extractSongs(nil))
	assert.Empty(t, extractArtists(nil))
}
