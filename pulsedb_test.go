package pulsedb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDate() time.Time {
	return time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
}

func TestEndToEnd_AppendCloseReadIterate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ACME.pdb")
	dayStart := testDate().UnixMilli()

	a, err := OpenAppend(path, "ACME", testDate(), WithDepth(2), WithChunkSize(300))
	require.NoError(t, err)

	require.NoError(t, a.Append(MarketData{
		Timestamp: dayStart + 1000,
		Bid:       []Quote{{Price: 100, Volume: 10}, {Price: 99.5, Volume: 5}},
		Ask:       []Quote{{Price: 101, Volume: 10}, {Price: 101.5, Volume: 5}},
	}))
	require.NoError(t, a.Append(Trade{Timestamp: dayStart + 2000, Price: 100.5, Volume: 3}))
	require.NoError(t, a.Close())

	r, err := OpenRead(path)
	require.NoError(t, err)

	info := r.Info()
	assert.Equal(t, "ACME", info.Stock)
	assert.Equal(t, 2, info.Depth)
	assert.Equal(t, 300, info.ChunkSize)
	assert.Equal(t, []int{0}, info.Presence.Occupied)

	_, _, _, lastClose, valid := r.Candle()
	assert.True(t, valid)
	assert.InDelta(t, 100.5, lastClose, 0.01)

	events, err := r.Iterator().Events()
	require.NoError(t, err)
	require.Len(t, events, 2)
	_, isMD := events[0].(MarketData)
	assert.True(t, isMD)
}

func TestEndToEnd_RangeAndPredicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ACME.pdb")
	dayStart := testDate().UnixMilli()

	a, err := OpenAppend(path, "ACME", testDate(), WithChunkSize(300))
	require.NoError(t, err)
	require.NoError(t, a.Append(Trade{Timestamp: dayStart + 1000, Price: 10, Volume: 1}))
	require.NoError(t, a.Append(Trade{Timestamp: dayStart + 301000, Price: 20, Volume: 1}))
	require.NoError(t, a.Append(Trade{Timestamp: dayStart + 602000, Price: 30, Volume: 1}))
	require.NoError(t, a.Close())

	r, err := OpenRead(path)
	require.NoError(t, err)

	it := r.Iterator()
	it.SetRange(dayStart+301000, dayStart+301000)
	events, err := it.Events()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, Trade{Timestamp: dayStart + 301000, Price: 20, Volume: 1}, events[0])

	it2 := r.Iterator()
	it2.WithPredicate(func(e Event) bool {
		tr, ok := e.(Trade)
		return ok && tr.Price > 15
	})
	filtered, err := it2.Events()
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestEvents_OneShotConvenience(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ACME.pdb")
	dayStart := testDate().UnixMilli()

	a, err := OpenAppend(path, "ACME", testDate(), WithChunkSize(300))
	require.NoError(t, err)
	require.NoError(t, a.Append(Trade{Timestamp: dayStart + 1000, Price: 10, Volume: 1}))
	require.NoError(t, a.Close())

	events, err := Events(path)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestIsNoFile(t *testing.T) {
	_, err := OpenRead(filepath.Join(t.TempDir(), "missing.pdb"))
	require.Error(t, err)
	assert.True(t, IsNoFile(err))
}

func TestOpenReadTolerant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ACME.pdb")
	a, err := OpenAppend(path, "ACME", testDate(), WithChunkSize(300))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	r, err := OpenReadTolerant(path)
	require.NoError(t, err)
	assert.Equal(t, "ACME", r.Info().Stock)
}
