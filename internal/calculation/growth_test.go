package calculation

import (
	"testing"

	"github.com/rpgo/finplan/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowBalance_RoundsEveryPeriod(t *testing.T) {
	values, err := GrowBalance(100000, money.RatePtr(12), 12, 12)
	require.NoError(t, err)

	expected := []money.Cents{100000, 101000, 102010, 103030, 104060, 105101, 106152, 107214, 108286, 109369, 110463, 111568, 112684}
	assert.Equal(t, expected, values)
}

func TestGrowBalance_NullRateHoldsFlat(t *testing.T) {
	values, err := GrowBalance(250000, nil, 5, 1)
	require.NoError(t, err)
	for _, v := range values {
		assert.Equal(t, money.Cents(250000), v)
	}
}

func TestGrowBalance_NegativeRate(t *testing.T) {
	values, err := GrowBalance(1000000, money.RatePtr(-5), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []money.Cents{1000000, 950000, 902500, 857375}, values)
}

func TestGrowBalance_ZeroPeriods(t *testing.T) {
	values, err := GrowBalance(42, money.RatePtr(5), 0, 12)
	require.NoError(t, err)
	assert.Equal(t, []money.Cents{42}, values)
}

func TestGrowBalance_InvalidInput(t *testing.T) {
	_, err := GrowBalance(100, money.RatePtr(5), -1, 12)
	assert.Error(t, err)

	_, err = GrowBalance(100, money.RatePtr(5), 12, 0)
	assert.Error(t, err)
}

func TestGrowthStep(t *testing.T) {
	assert.Equal(t, money.Cents(107000), GrowthStep(100000, money.RatePtr(7), 1))
	assert.Equal(t, money.Cents(100000), GrowthStep(100000, nil, 12))
	assert.Equal(t, money.Cents(100000), GrowthStep(100000, money.RatePtr(0), 12))
}
