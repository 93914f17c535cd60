package wire

import (
	"fmt"
	"io"
)

// ShortVersion is the 4-field device/firmware version tuple (base-spec §3
// "Version"), compared lexicographically by field declaration order:
// major, then minor, then patch, then build-major.
type ShortVersion struct {
	Major, Minor, Patch, BuildMajor uint8
}

// LongVersion extends ShortVersion with a fifth field, build-minor.
type LongVersion struct {
	ShortVersion
	BuildMinor uint8
}

func (v ShortVersion) String() string {
	return fmt.Sprintf("%d.%d.%d-%d", v.Major, v.Minor, v.Patch, v.BuildMajor)
}

func (v LongVersion) String() string {
	return fmt.Sprintf("%s.%d", v.ShortVersion, v.BuildMinor)
}

// Compare returns -1, 0, or 1 comparing two ShortVersions lexicographically.
func (v ShortVersion) Compare(other ShortVersion) int {
	for _, pair := range [][2]uint8{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
		{v.BuildMajor, other.BuildMajor},
	} {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether v is strictly less than other.
func (v ShortVersion) Less(other ShortVersion) bool { return v.Compare(other) < 0 }

// AtLeast reports whether v is greater than or equal to other.
func (v ShortVersion) AtLeast(other ShortVersion) bool { return v.Compare(other) >= 0 }

// Compare compares a LongVersion lexicographically, falling through to
// BuildMinor only once the shared ShortVersion prefix ties.
func (v LongVersion) Compare(other LongVersion) int {
	if c := v.ShortVersion.Compare(other.ShortVersion); c != 0 {
		return c
	}
	if v.BuildMinor != other.BuildMinor {
		if v.BuildMinor < other.BuildMinor {
			return -1
		}
		return 1
	}
	return 0
}

// AtLeast reports whether v is greater than or equal to other.
func (v LongVersion) AtLeast(other LongVersion) bool { return v.Compare(other) >= 0 }

// CompareShort compares a ShortVersion against a LongVersion by comparing
// against the Long value's ShortVersion prefix only (base-spec §3 "A Short
// compares against a Long by prefix", and §8 invariant 6).
func (v ShortVersion) CompareShort(other LongVersion) int {
	return v.Compare(other.ShortVersion)
}

// AtLeastLong reports whether v (a ShortVersion) is >= other's ShortVersion prefix.
func (v ShortVersion) AtLeastLong(other LongVersion) bool {
	return v.CompareShort(other) >= 0
}

// Encode writes the 4-field short version in declared order.
func (v ShortVersion) Encode(w io.Writer) error {
	for _, b := range []uint8{v.Major, v.Minor, v.Patch, v.BuildMajor} {
		if err := WriteU8(w, b); err != nil {
			return err
		}
	}
	return nil
}

// DecodeShortVersion reads a 4-byte ShortVersion.
func DecodeShortVersion(r io.Reader) (ShortVersion, error) {
	major, err := ReadU8(r, "version major")
	if err != nil {
		return ShortVersion{}, err
	}
	minor, err := ReadU8(r, "version minor")
	if err != nil {
		return ShortVersion{}, err
	}
	patch, err := ReadU8(r, "version patch")
	if err != nil {
		return ShortVersion{}, err
	}
	buildMajor, err := ReadU8(r, "version build-major")
	if err != nil {
		return ShortVersion{}, err
	}
	return ShortVersion{Major: major, Minor: minor, Patch: patch, BuildMajor: buildMajor}, nil
}

// Encode writes the 5-byte long version (short fields then build-minor).
func (v LongVersion) Encode(w io.Writer) error {
	if err := v.ShortVersion.Encode(w); err != nil {
		return err
	}
	return WriteU8(w, v.BuildMinor)
}

// DecodeLongVersion reads a 5-byte LongVersion.
func DecodeLongVersion(r io.Reader) (LongVersion, error) {
	short, err := DecodeShortVersion(r)
	if err != nil {
		return LongVersion{}, err
	}
	buildMinor, err := ReadU8(r, "version build-minor")
	if err != nil {
		return LongVersion{}, err
	}
	return LongVersion{ShortVersion: short, BuildMinor: buildMinor}, nil
}
