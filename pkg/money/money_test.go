package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDecimalRoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   string
		want Cents
	}{
		{"0.4", 0},
		{"0.5", 1},
		{"1.5", 2},
		{"2.5", 3},
		{"-0.5", -1},
		{"-2.5", -3},
		{"1234.49999", 1234},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			assert.Equal(t, c.want, FromDecimal(decimal.RequireFromString(c.in)))
		})
	}
}

func TestFromDollars(t *testing.T) {
	c, err := FromDollars("1234.56")
	require.NoError(t, err)
	assert.Equal(t, Cents(123456), c)

	c, err = FromDollars("0.005")
	require.NoError(t, err)
	assert.Equal(t, Cents(1), c)

	_, err = FromDollars("abc")
	assert.Error(t, err)
}

func TestCentsArithmetic(t *testing.T) {
	c := Cents(100000)
	assert.Equal(t, Cents(6500), c.MulDecimal(decimal.RequireFromString("0.065")))
	assert.Equal(t, Cents(33333), c.DivInt(3))
	assert.Equal(t, Cents(5), Cents(-5).Abs())
	assert.Equal(t, "1000.00", c.String())
	assert.Equal(t, "-0.05", Cents(-5).String())
	assert.Equal(t, Cents(3), Min(3, 7))
	assert.Equal(t, Cents(7), Max(3, 7))
	assert.Equal(t, Cents(10), Sum(1, 2, 3, 4))
}

func TestRateConversions(t *testing.T) {
	r := NewRate(6)
	assert.True(t, r.Fraction().Equal(decimal.RequireFromString("0.06")))
	assert.True(t, r.PeriodRate(12).Equal(decimal.RequireFromString("0.005")))
	assert.Equal(t, "6.00%", r.Percent(2))

	parsed, err := ParseRate("6.5")
	require.NoError(t, err)
	assert.Equal(t, "6.5", parsed.String())

	_, err = ParseRate("six")
	assert.Error(t, err)
}

func TestRateJSON(t *testing.T) {
	type holder struct {
		Rate     Rate  `json:"rate"`
		Optional *Rate `json:"optional,omitempty"`
	}
	b, err := json.Marshal(holder{Rate: NewRate(6.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rate":6.5}`, string(b))

	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"rate":4.25,"optional":"3"}`), &h))
	assert.Equal(t, "4.25", h.Rate.String())
	require.NotNil(t, h.Optional)
	assert.Equal(t, "3", h.Optional.String())
}
