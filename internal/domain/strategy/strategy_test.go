package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForName_KnownProfiles(t *testing.T) {
	for _, name := range []string{"conservative", "aggressive", "balanced"} {
		s, err := ForName(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name)
	}
}

func TestForName_EmptyDefaultsToBalanced(t *testing.T) {
	s, err := ForName("")
	require.NoError(t, err)
	assert.Equal(t, Balanced, s)
}

func TestForName_Unknown(t *testing.T) {
	_, err := ForName("yolo")
	assert.Error(t, err)
}

func TestProfiles_RiskOrdering(t *testing.T) {
	// aggressive paga más por matchup/trend; conservative castiga más el desacuerdo
	assert.Greater(t, Aggressive.Matchup, Balanced.Matchup)
	assert.Greater(t, Balanced.Matchup, Conservative.Matchup)
	assert.Greater(t, Aggressive.Trend, Conservative.Trend)
	assert.Greater(t, Conservative.Stability, Aggressive.Stability)
}
