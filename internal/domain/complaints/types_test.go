package complaints

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardOnly(t *testing.T) {
	assert.True(t, CanTransition(StatusOpen, StatusInProgress))
	assert.True(t, CanTransition(StatusOpen, StatusResolved))
	assert.True(t, CanTransition(StatusInProgress, StatusResolved))
}

func TestCanTransition_NoBackwardOrRepeat(t *testing.T) {
	assert.False(t, CanTransition(StatusInProgress, StatusOpen))
	assert.False(t, CanTransition(StatusResolved, StatusInProgress))
	assert.False(t, CanTransition(StatusResolved, StatusOpen))
	assert.False(t, CanTransition(StatusOpen, StatusOpen))
	assert.False(t, CanTransition(StatusResolved, StatusResolved))
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("escalated", StatusResolved))
	assert.False(t, CanTransition(StatusOpen, "escalated"))
}
