package protocol

import (
	"errors"
	"fmt"
)

// ProtocolErrorKind discriminates the protocol-level fault categories from
// base-spec §7: wrong echoed/literal data, bad length, out-of-range, a
// Nack, or an invalid CRC.
type ProtocolErrorKind int

const (
	KindWrongData ProtocolErrorKind = iota
	KindBadLength
	KindOutOfRange
	KindNack
	KindInvalidCRC
)

// ProtocolError is the single error type every framing and dispatch
// operation in this package can return. Its Kind selects which fields are
// meaningful, mirroring original_source/lib/src/device/error.rs's
// ProtocolError enum rather than one struct per kind.
type ProtocolError struct {
	Kind ProtocolErrorKind

	// Entity names what was being decoded or validated, for WrongData,
	// BadLength, and OutOfRange.
	Entity string
	// Expected/Received are the WrongData pair.
	Expected []byte
	Received []byte
	// ReceivedLength is BadLength's actual length.
	ReceivedLength int
	// Min/Max/Actual are OutOfRange's bounds.
	Min, Max, Actual int
	// Response is the Nack byte, for KindNack.
	Response ResponseByte
}

func (e *ProtocolError) Error() string {
	switch e.Kind {
	case KindWrongData:
		return fmt.Sprintf("%s: expected %x, received %x", e.Entity, e.Expected, e.Received)
	case KindBadLength:
		return fmt.Sprintf("%s: unexpected length %d", e.Entity, e.ReceivedLength)
	case KindOutOfRange:
		return fmt.Sprintf("%s: %d is out of range [%d, %d]", e.Entity, e.Actual, e.Min, e.Max)
	case KindNack:
		return fmt.Sprintf("device nack: %s", e.Response)
	case KindInvalidCRC:
		return "invalid CRC"
	default:
		return "protocol error"
	}
}

// NackResponse returns (response, true) if err is a Nack carrying that
// response byte, for convenient errors.As-based switching by callers.
func NackResponse(err error) (ResponseByte, bool) {
	var pe *ProtocolError
	if !errors.As(err, &pe) || pe.Kind != KindNack {
		return 0, false
	}
	return pe.Response, true
}

// WrongData builds a KindWrongData error.
func WrongData(entity string, expected, received []byte) error {
	return &ProtocolError{Kind: KindWrongData, Entity: entity, Expected: expected, Received: received}
}

// BadLength builds a KindBadLength error.
func BadLength(entity string, receivedLength int) error {
	return &ProtocolError{Kind: KindBadLength, Entity: entity, ReceivedLength: receivedLength}
}

// OutOfRange builds a KindOutOfRange error.
func OutOfRange(entity string, min, max, actual int) error {
	return &ProtocolError{Kind: KindOutOfRange, Entity: entity, Min: min, Max: max, Actual: actual}
}

// Nack builds a KindNack error.
func Nack(response ResponseByte) error {
	return &ProtocolError{Kind: KindNack, Response: response}
}

// InvalidCRC is the single KindInvalidCRC sentinel error value.
var InvalidCRC error = &ProtocolError{Kind: KindInvalidCRC}
