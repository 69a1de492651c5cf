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

	"github.com/cardinalhq/songlake/internal/pipeline"
	"github.com/cardinalhq/songlake/internal/pipeline/wkk"
)

func TestSongRecordFromRow(t *testing.T) {
	row := pipeline.Row{
		wkk.RowKeySongID:         "SOAAAA12A8C130000",
		wkk.RowKeyTitle:          "Song A",
		wkk.RowKeyArtistID:       "ARAAAA1187B98E000",
		wkk.RowKeyArtistName:     "Artist A",
		wkk.RowKeyArtistLocation: "Memphis, TN",
		wkk.RowKeyYear:           float64(2000), // JSON numbers decode as float64
		wkk.RowKeyDuration:       200.5,
		wkk.RowKeyNumSongs:       float64(1),
	}

	rec, ok := songRecordFromRow(row)
	require.True(t, ok)
	assert.Equal(t, "SOAAAA12A8C130000", rec.SongID)
	assert.Equal(t, "ARAAAA1187B98E000", rec.ArtistID)
	assert.Equal(t, int32(2000), rec.Year)
	assert.Equal(t, 200.5, rec.Duration)
	assert.Nil(t, rec.ArtistLatitude)
}

func TestSongRecordFromRowMissingKey(t *testing.T) {
	_, ok := songRecordFromRow(pipeline.Row{wkk.RowKeyTitle: "No IDs"})
	assert.False(t, ok)
}

func TestLogEventFromRowFiltersPage(t *testing.T) {
	row := pipeline.Row{
		wkk.RowKeyPage: "Home",
		wkk.RowKeyTS:   float64(1541121934796),
	}

	_, kind := logEventFromRow(row)
	assert.Equal(t, logEventOtherPage, kind)
}

func TestLogEventFromRowMalformedTS(t *testing.T) {
	row := pipeline.Row{
		wkk.RowKeyPage: PageNextSong,
	}

	_, kind := logEventFromRow(row)
	assert.Equal(t, logEventMalformed, kind)
}

func TestLogEventFromRowQualifying(t *testing.T) {
	row := pipeline.Row{
		wkk.RowKeyPage:      PageNextSong,
		wkk.RowKeyTS:        float64(1541121934796),
		wkk.RowKeyUserID:    float64(42), // userId appears as a JSON number in some records
		wkk.RowKeyLevel:     "free",
		wkk.RowKeySong:      "Song A",
		wkk.RowKeyArtist:    "Artist A",
		wkk.RowKeyLength:    200.5,
		wkk.RowKeySessionID: float64(1),
		wkk.RowKeyLocation:  "LA",
		wkk.RowKeyUserAgent: "UA",
	}

	ev, kind := logEventFromRow(row)
	require.Equal(t, logEventQualifying, kind)
	assert.Equal(t, int64(1541121934796), ev.TS)
	assert.Equal(t, "42", ev.UserID)
	assert.Equal(t, "Song A", ev.Song)
	assert.Equal(t, 200.5, ev.Length)
	assert.Equal(t, int64(1), ev.SessionID)
}
