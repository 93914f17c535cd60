// Package wire implements the small set of primitive codecs the protocol
// carries: fixed-width little-endian scalars, fixed-length inline strings,
// a local-time timestamp, short/long version tuples, and the tagged
// Product union. Every aggregate payload type elsewhere in this module is
// built out of these.
package wire

import (
	"encoding/binary"
	"io"
)

// WriteU8 writes a single byte.
func WriteU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// ReadU8 reads a single byte.
func ReadU8(r io.Reader, entity string) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, shortRead(entity)
	}
	return b[0], nil
}

// WriteU16LE writes a 16-bit little-endian scalar.
func WriteU16LE(w io.Writer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// ReadU16LE reads a 16-bit little-endian scalar.
func ReadU16LE(r io.Reader, entity string) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, shortRead(entity)
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// WriteU32LE writes a 32-bit little-endian scalar.
func WriteU32LE(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// ReadU32LE reads a 32-bit little-endian scalar.
func ReadU32LE(r io.Reader, entity string) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, shortRead(entity)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// WriteI16LE writes a 16-bit signed little-endian scalar (used only by the
// number-of-files response, which the device reports as a signed count).
func WriteI16LE(w io.Writer, v int16) error {
	return WriteU16LE(w, uint16(v))
}

// ReadI16LE reads a 16-bit signed little-endian scalar.
func ReadI16LE(r io.Reader, entity string) (int16, error) {
	u, err := ReadU16LE(r, entity)
	return int16(u), err
}

// WritePad writes n reserved zero bytes.
func WritePad(w io.Writer, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := w.Write(make([]byte, n))
	return err
}

// ReadPad discards n reserved bytes, failing if short.
func ReadPad(r io.Reader, n int, entity string) error {
	if n <= 0 {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return shortRead(entity)
	}
	return nil
}

// WriteRaw writes data unchanged.
func WriteRaw(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	return err
}

// ReadRaw reads exactly len(buf) bytes into buf.
func ReadRaw(r io.Reader, buf []byte, entity string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		return shortRead(entity)
	}
	return nil
}
