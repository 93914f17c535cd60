package wire

import (
	"io"
	"time"
)

// epoch is 2000-01-01 00:00 in the local zone, the reference point the wire
// timestamp counts seconds from (base-spec §3 "Timestamp"). Computed fresh
// rather than as a package-level time.Time so it always reflects the
// process's current local zone (matching chrono::Local at the time
// original_source/src/device/filesystem/timestamp.rs runs).
func epoch() time.Time {
	now := time.Now()
	return time.Date(2000, time.January, 1, 0, 0, 0, 0, now.Location())
}

// EncodeTimestamp computes the wire representation of t: whole seconds
// since epoch(), failing with ErrOverflow if that does not fit in a u32
// (mirrors original_source's TimeStamp::as_repr).
func EncodeTimestamp(t time.Time) (uint32, error) {
	delta := t.Sub(epoch())
	seconds := int64(delta.Seconds())
	if seconds < 0 || seconds > 0xFFFFFFFF {
		return 0, overflow("timestamp", seconds)
	}
	return uint32(seconds), nil
}

// DecodeTimestamp reconstructs a local time.Time from its wire
// representation (mirrors original_source's TimeStamp::from_repr).
func DecodeTimestamp(repr uint32) time.Time {
	return epoch().Add(time.Duration(repr) * time.Second)
}

// WriteTimestamp writes t as a 32-bit little-endian seconds-since-epoch value.
func WriteTimestamp(w io.Writer, t time.Time) error {
	repr, err := EncodeTimestamp(t)
	if err != nil {
		return err
	}
	return WriteU32LE(w, repr)
}

// ReadTimestamp reads a 32-bit little-endian seconds-since-epoch value and
// decodes it to a local time.Time.
func ReadTimestamp(r io.Reader, entity string) (time.Time, error) {
	repr, err := ReadU32LE(r, entity)
	if err != nil {
		return time.Time{}, err
	}
	return DecodeTimestamp(repr), nil
}
