// Package program implements the program-slot vocabulary supplemented from
// original_source/src/program/{mod,slot_number}.rs (SPEC_FULL.md §11): a
// program occupies one of 8 numbered slots, materialized on-device as a
// paired slot_N.ini metadata file and slot_N.bin payload file.
package program

import "fmt"

// NumSlots is the number of program slots a V5 brain exposes.
const NumSlots = 8

// SlotNumber is a validated 1..=8 program slot identifier.
type SlotNumber struct {
	value uint8
}

// NewSlotNumber validates n is within 1..=8.
func NewSlotNumber(n int) (SlotNumber, error) {
	if n < 1 || n > NumSlots {
		return SlotNumber{}, fmt.Errorf("slot number %d is out of range [1, %d]", n, NumSlots)
	}
	return SlotNumber{value: uint8(n)}, nil
}

// SlotNumberFromIndex builds a SlotNumber from a 0-based index (the form
// the .ini file stores on the wire).
func SlotNumberFromIndex(index int) (SlotNumber, error) {
	return NewSlotNumber(index + 1)
}

// Value returns the 1-based slot number.
func (s SlotNumber) Value() int { return int(s.value) }

// Index returns the 0-based index this slot number corresponds to on the
// wire.
func (s SlotNumber) Index() int { return int(s.value) - 1 }

func (s SlotNumber) String() string { return fmt.Sprintf("%d", s.value) }
