package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIniRoundTrip(t *testing.T) {
	slot, err := NewSlotNumber(5)
	require.NoError(t, err)
	original := ProgramIni{
		Version:     "1.2.3",
		Name:        "clawbot",
		Slot:        slot,
		Icon:        "USER902x.bmp",
		Description: "competition template",
		Date:        "2026-07-30",
	}

	encoded := encodeIni(original)
	decoded, err := decodeIni(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestEncodeIniStoresSlotZeroBased(t *testing.T) {
	slot, err := NewSlotNumber(1)
	require.NoError(t, err)
	encoded := string(encodeIni(ProgramIni{Slot: slot}))
	assert.Contains(t, encoded, "slot=0\n")
}

func TestDecodeIniRejectsMissingSlot(t *testing.T) {
	_, err := decodeIni([]byte("[program]\nname=foo\n"))
	assert.Error(t, err)
}

func TestDecodeIniRejectsOutOfRangeSlot(t *testing.T) {
	_, err := decodeIni([]byte("[program]\nslot=8\n"))
	assert.Error(t, err, "slot=8 is index 8, out of the 0..=7 range")
}

func TestDecodeIniToleratesUnknownLines(t *testing.T) {
	decoded, err := decodeIni([]byte("; a comment\n[program]\nslot=0\nfuture_field=xyz\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, decoded.Slot.Value())
}
