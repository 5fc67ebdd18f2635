package bookings

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReference_Shape(t *testing.T) {
	g, err := NewRefGenerator("test-salt")
	require.NoError(t, err)

	ref := g.NewReference(42, time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(ref, "PB-"))
	// 6-char minimum plus prefix
	assert.GreaterOrEqual(t, len(ref), len("PB-")+6)
	assert.Equal(t, strings.ToUpper(ref), ref)
}

func TestNewReference_DeterministicForSameInputs(t *testing.T) {
	g, err := NewRefGenerator("test-salt")
	require.NoError(t, err)

	at := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, g.NewReference(42, at), g.NewReference(42, at))
}

func TestNewReference_VariesWithUserAndInstant(t *testing.T) {
	g, err := NewRefGenerator("test-salt")
	require.NoError(t, err)

	at := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)
	assert.NotEqual(t, g.NewReference(42, at), g.NewReference(43, at))
	assert.NotEqual(t, g.NewReference(42, at), g.NewReference(42, at.Add(time.Millisecond)))
}

func TestNewReference_DifferentSaltsDiffer(t *testing.T) {
	a, err := NewRefGenerator("salt-a")
	require.NoError(t, err)
	b, err := NewRefGenerator("salt-b")
	require.NoError(t, err)

	at := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)
	assert.NotEqual(t, a.NewReference(42, at), b.NewReference(42, at))
}
