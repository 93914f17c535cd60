package wire

import (
	"bytes"
	"fmt"
	"io"
)

// FixedString is an inline byte buffer of fixed capacity N, NUL-terminated
// within its bounds (base-spec §3 "Fixed-width strings"). Logical length is
// the index of the first zero byte, or N if there is none; equality and
// hashing (via the logical []byte it yields) are over that logical prefix
// only, never the trailing padding.
type FixedString struct {
	n    int
	data []byte // always len n
}

// NewFixedString builds a capacity-n FixedString from s, zero-padding to n.
// It fails if s is longer than n or contains an embedded zero byte, matching
// original_source/lib/src/device/filesystem/fixed_string/impl_from_str.rs.
func NewFixedString(n int, s string) (FixedString, error) {
	if len(s) > n {
		return FixedString{}, fmt.Errorf("fixed string of capacity %d: %q is too long", n, s)
	}
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return FixedString{}, fmt.Errorf("fixed string of capacity %d: %q contains an embedded NUL", n, s)
	}
	buf := make([]byte, n)
	copy(buf, s)
	return FixedString{n: n, data: buf}, nil
}

// String returns the logical (non-padded) contents.
func (f FixedString) String() string {
	return string(f.data[:f.logicalLen()])
}

func (f FixedString) logicalLen() int {
	if idx := bytes.IndexByte(f.data, 0); idx >= 0 {
		return idx
	}
	return f.n
}

// Equal compares two FixedStrings of the same capacity by logical prefix,
// ignoring trailing zero padding (base-spec §8 invariant 2).
func (f FixedString) Equal(other FixedString) bool {
	return f.String() == other.String()
}

// Encode writes the full N-byte buffer: logical contents then zero padding.
func (f FixedString) Encode(w io.Writer, entity string) error {
	if f.data == nil {
		return fmt.Errorf("encoding %s: zero-value FixedString has no capacity", entity)
	}
	return WriteRaw(w, f.data)
}

// DecodeFixedString reads n bytes from r and returns the resulting
// FixedString; the logical prefix is computed lazily by String/Equal.
func DecodeFixedString(r io.Reader, n int, entity string) (FixedString, error) {
	buf := make([]byte, n)
	if err := ReadRaw(r, buf, entity); err != nil {
		return FixedString{}, err
	}
	return FixedString{n: n, data: buf}, nil
}

// FileTypeWidth and FileNameWidth are the two capacities this protocol uses
// (base-spec §3).
const (
	FileTypeWidth = 4
	FileNameWidth = 24
)
