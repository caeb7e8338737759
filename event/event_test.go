package event

import (
	"math"
	"testing"

	"github.com/pulsedb/pulsedb/errs"
	"github.com/stretchr/testify/assert"
)

func TestQuotes_Normalize_Pad(t *testing.T) {
	q := Quotes{{Price: 1, Volume: 1}}
	out := q.Normalize(3)
	assert.Len(t, out, 3)
	assert.Equal(t, q[0], out[0])
	assert.Equal(t, Quote{}, out[1])
	assert.Equal(t, Quote{}, out[2])
}

func TestQuotes_Normalize_Truncate(t *testing.T) {
	q := Quotes{{Price: 1}, {Price: 2}, {Price: 3}}
	out := q.Normalize(2)
	assert.Len(t, out, 2)
	assert.Equal(t, q[:2], out)
}

func TestQuotes_Normalize_ZeroDepth(t *testing.T) {
	q := Quotes{{Price: 1}}
	out := q.Normalize(0)
	assert.Empty(t, out)
}

func TestQuotes_Normalize_ExactMatch(t *testing.T) {
	q := Quotes{{Price: 1}, {Price: 2}}
	out := q.Normalize(2)
	assert.Equal(t, q, out)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "MarketData", KindMarketData.String())
	assert.Equal(t, "Trade", KindTrade.String())
	assert.Equal(t, "Unknown", Kind(0xFF).String())
}

func TestValidate_MarketData_OK(t *testing.T) {
	md := MarketData{
		Timestamp: 1000,
		Bid:       Quotes{{Price: 1, Volume: 1}},
		Ask:       Quotes{{Price: 2, Volume: 2}},
	}
	assert.NoError(t, Validate(md))
}

func TestValidate_MarketData_BadTimestamp(t *testing.T) {
	md := MarketData{Timestamp: 0}
	err := Validate(md)
	assert.ErrorIs(t, err, errs.ErrBadTimestamp)
}

func TestValidate_MarketData_BadBid(t *testing.T) {
	md := MarketData{
		Timestamp: 1000,
		Bid:       Quotes{{Price: -1}},
	}
	err := Validate(md)
	assert.ErrorIs(t, err, errs.ErrBadBid)
}

func TestValidate_MarketData_BadAsk(t *testing.T) {
	md := MarketData{
		Timestamp: 1000,
		Bid:       Quotes{{Price: 1}},
		Ask:       Quotes{{Price: math.NaN()}},
	}
	err := Validate(md)
	assert.ErrorIs(t, err, errs.ErrBadAsk)
}

func TestValidate_Trade_OK(t *testing.T) {
	tr := Trade{Timestamp: 1000, Price: 1, Volume: 1}
	assert.NoError(t, Validate(tr))
}

func TestValidate_Trade_BadTimestamp(t *testing.T) {
	tr := Trade{Timestamp: -1}
	err := Validate(tr)
	assert.ErrorIs(t, err, errs.ErrBadTimestamp)
}

func TestValidate_Trade_BadPrice(t *testing.T) {
	tr := Trade{Timestamp: 1000, Price: math.Inf(1)}
	err := Validate(tr)
	assert.ErrorIs(t, err, errs.ErrBadPrice)
}

func TestValidate_InvalidEventType(t *testing.T) {
	err := Validate(nil)
	assert.ErrorIs(t, err, errs.ErrInvalidEvent)
}

func TestScaleUnscalePrice_RoundTrip(t *testing.T) {
	const scale = 100
	scaled := ScalePrice(123.45, scale)
	assert.Equal(t, int64(12345), scaled)
	assert.InDelta(t, 123.45, UnscalePrice(scaled, scale), 0.0001)
}

func TestScalePrice_Rounds(t *testing.T) {
	assert.Equal(t, int64(123), ScalePrice(1.225, 100))
}
