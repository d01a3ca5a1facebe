package engine

import (
	"testing"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTiers = []domain.Tier{
	{MinAmountCents: 10000, BonusCents: 500},
	{MinAmountCents: 25000, BonusCents: 1500},
	{MinAmountCents: 50000, BonusCents: 4000},
}

func TestResolveTierBelowFirstMinimum(t *testing.T) {
	assert.Nil(t, ResolveTier(9999, testTiers))
	assert.Nil(t, ResolveTier(0, testTiers))
}

func TestResolveTierBoundaryIsInclusive(t *testing.T) {
	result := ResolveTier(10000, testTiers)

	require.NotNil(t, result)
	assert.Equal(t, 1, result.Steps)
	assert.Equal(t, int64(500), result.BonusCents)
}

func TestResolveTierPicksHighestQualifying(t *testing.T) {
	result := ResolveTier(30000, testTiers)

	require.NotNil(t, result)
	assert.Equal(t, 2, result.Steps)
	assert.Equal(t, int64(1500), result.BonusCents)

	result = ResolveTier(1000000, testTiers)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.Steps)
	assert.Equal(t, int64(4000), result.BonusCents)
}

func TestResolveTierOrderIndependent(t *testing.T) {
	shuffled := []domain.Tier{
		{MinAmountCents: 50000, BonusCents: 4000},
		{MinAmountCents: 10000, BonusCents: 500},
		{MinAmountCents: 25000, BonusCents: 1500},
	}

	result := ResolveTier(30000, shuffled)

	require.NotNil(t, result)
	assert.Equal(t, 2, result.Steps)
	assert.Equal(t, int64(1500), result.BonusCents)
}

func TestResolveTierDuplicateMinimumLargerBonusWins(t *testing.T) {
	tiers := []domain.Tier{
		{MinAmountCents: 10000, BonusCents: 700},
		{MinAmountCents: 10000, BonusCents: 500},
	}

	result := ResolveTier(10000, tiers)

	require.NotNil(t, result)
	assert.Equal(t, int64(700), result.BonusCents)
}

func TestResolveTierEmptyConfig(t *testing.T) {
	assert.Nil(t, ResolveTier(10000, nil))
}
