package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlotNumberValidatesRange(t *testing.T) {
	for _, n := range []int{1, 4, 8} {
		slot, err := NewSlotNumber(n)
		require.NoError(t, err)
		assert.Equal(t, n, slot.Value())
	}
	for _, n := range []int{0, -1, 9, 255} {
		_, err := NewSlotNumber(n)
		assert.Error(t, err, "slot %d should be rejected", n)
	}
}

func TestSlotNumberFromIndexIsZeroBased(t *testing.T) {
	slot, err := SlotNumberFromIndex(0)
	require.NoError(t, err)
	assert.Equal(t, 1, slot.Value())
	assert.Equal(t, 0, slot.Index())

	slot, err = SlotNumberFromIndex(7)
	require.NoError(t, err)
	assert.Equal(t, 8, slot.Value())
	assert.Equal(t, 7, slot.Index())

	_, err = SlotNumberFromIndex(8)
	assert.Error(t, err)
}

func TestSlotNumberString(t *testing.T) {
	slot, err := NewSlotNumber(3)
	require.NoError(t, err)
	assert.Equal(t, "3", slot.String())
}
