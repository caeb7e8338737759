package reader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pulsedb/pulsedb/appender"
	"github.com/pulsedb/pulsedb/errs"
	"github.com/pulsedb/pulsedb/event"
	"github.com/pulsedb/pulsedb/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDate() time.Time {
	return time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
}

func buildFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ACME.pdb")
	a, err := appender.Open(path, "ACME", testDate(), appender.WithChunkSize(300), appender.WithDepth(1))
	require.NoError(t, err)

	dayStart := testDate().UnixMilli()
	require.NoError(t, a.Append(event.MarketData{
		Timestamp: dayStart + 1000,
		Bid:       event.Quotes{{Price: 100, Volume: 1}},
		Ask:       event.Quotes{{Price: 101, Volume: 1}},
	}))
	require.NoError(t, a.Append(event.Trade{Timestamp: dayStart + 301000, Price: 100.5, Volume: 5}))
	require.NoError(t, a.Close())

	return path
}

func TestOpen_NonexistentFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdb"), Options{})
	assert.ErrorIs(t, err, errs.ErrNoFile)
}

func TestOpen_NonRegularFile(t *testing.T) {
	_, err := Open(t.TempDir(), Options{})
	assert.ErrorIs(t, err, errs.ErrNoFile)
}

func TestOpen_ParsesHeaderCandleChunkMap(t *testing.T) {
	path := buildFile(t)

	r, err := Open(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, "ACME", r.Header.Stock)
	assert.Equal(t, format.CurrentVersion, r.Header.Version)
	assert.Len(t, r.Entries, 2)
	assert.True(t, r.Candle.Valid)
}

func TestReader_Presence(t *testing.T) {
	path := buildFile(t)

	r, err := Open(path, Options{})
	require.NoError(t, err)

	p := r.Presence()
	assert.Equal(t, 288, p.NumberOfChunks)
	assert.Equal(t, []int{0, 1}, p.Occupied)
}

func TestMigrate_ToleratesVersionMismatch(t *testing.T) {
	path := buildFile(t)

	// Corrupt the version field directly to simulate an old file.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data2 := []byte(string(data))
	data2[len("#!/usr/bin/env pulsedb\nversion: ")] = '9'
	require.NoError(t, os.WriteFile(path, data2, 0o644))

	_, err = Open(path, Options{})
	assert.ErrorIs(t, err, errs.ErrNeedMigration)

	r, err := Migrate(path)
	require.NoError(t, err)
	assert.Equal(t, "ACME", r.Header.Stock)
}
