package hpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashActionDependsOnNonceAndVault(t *testing.T) {
	action := orderAction{
		Type: "order",
		Orders: []orderWire{{
			Asset: 0, IsBuy: true, LimitPx: "60000", SizePx: "0.01",
			OrderType: orderTypeWire{Limit: &limit{Tif: tifTypeGTC}},
		}},
		Grouping: string(groupingNa),
	}

	h1, err := hashAction(action, "", 1)
	require.NoError(t, err)
	h2, err := hashAction(action, "", 1)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	h3, err := hashAction(action, "", 2)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)

	h4, err := hashAction(action, "0x0000000000000000000000000000000000000001", 1)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h4)

	_, err = hashAction(action, "0xzz", 1)
	assert.Error(t, err)
}

func TestAgentDigestDependsOnSource(t *testing.T) {
	conn := make([]byte, 32)
	a, err := agentDigest("a", conn)
	require.NoError(t, err)
	b, err := agentDigest("b", conn)
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestNonceIsMonotonic(t *testing.T) {
	prev := getNonce()
	for i := 0; i < 100; i++ {
		n := getNonce()
		assert.Greater(t, n, prev)
		prev = n
	}
}
