package protocol

import (
	"bytes"
	"io"

	"github.com/V5Reveng/cli/pkg/crcio"
	"github.com/V5Reveng/cli/pkg/wire"
)

// CommandID identifies a simple or extended command.
type CommandID uint8

// extCommandMarker is the inner-command marker byte that distinguishes an
// extended frame from a simple one (base-spec §3, §4.3).
const extCommandMarker CommandID = 0x56

var (
	requestHeader  = []byte{0xC9, 0x36, 0xB8, 0x47}
	responseHeader = []byte{0xAA, 0x55}
)

// Conn is the framing layer's view of the transport: a CRC-aware duplex
// channel, exactly what *crcio.Wrapper provides. Kept as an interface so
// tests can substitute an in-memory loopback without a real serial port.
type Conn interface {
	io.Reader
	io.Writer
	ArmTX()
	ArmRX()
	EmitTXCRC() error
	VerifyRXCRC() (bool, error)
}

var _ Conn = (*crcio.Wrapper)(nil)

// SendSimpleCommand writes a simple-command request: the literal header
// followed by the single command byte (base-spec §4.3).
func SendSimpleCommand(conn Conn, id CommandID) error {
	if err := wire.WriteRaw(conn, requestHeader); err != nil {
		return err
	}
	return wire.WriteU8(conn, uint8(id))
}

// RecvSimplePayload reads a simple-command response and returns its raw
// payload bytes, validating the response header and echoed command id.
func RecvSimplePayload(conn Conn, id CommandID) ([]byte, error) {
	if err := expectBytes(conn, responseHeader, "response header"); err != nil {
		return nil, err
	}
	if err := expectByte(conn, uint8(id), "echoed command"); err != nil {
		return nil, err
	}
	length, err := wire.ReadU8(conn, "simple payload length")
	if err != nil {
		return nil, err
	}
	payload := make([]byte, length)
	if err := wire.ReadRaw(conn, payload, "simple payload"); err != nil {
		return nil, err
	}
	return payload, nil
}

// SendExtendedCommand writes an extended-command request: header, marker,
// command id, varint payload length, payload, and a trailing 2-byte TX CRC
// covering everything transmitted since the CRC window was armed
// (base-spec §4.3).
func SendExtendedCommand(conn Conn, id CommandID, payload []byte) error {
	conn.ArmTX()
	if err := wire.WriteRaw(conn, requestHeader); err != nil {
		return err
	}
	if err := wire.WriteU8(conn, uint8(extCommandMarker)); err != nil {
		return err
	}
	if err := wire.WriteU8(conn, uint8(id)); err != nil {
		return err
	}
	lenBytes, err := wire.EncodeVarint(len(payload))
	if err != nil {
		return err
	}
	if err := wire.WriteRaw(conn, lenBytes); err != nil {
		return err
	}
	if err := wire.WriteRaw(conn, payload); err != nil {
		return err
	}
	return conn.EmitTXCRC()
}

// RecvExtendedPayload reads an extended-command response, validates its
// header/marker/echoed-command and the trailing RX CRC, and returns
// (responseByte, payload). The caller decides whether a non-Ack response
// byte should become a Nack error; RecvExtendedPayload itself never
// synthesizes one, because some callers (none in this protocol today, but
// kept symmetrical with the Rust original's layering) want the raw byte.
func RecvExtendedPayload(conn Conn, id CommandID) (ResponseByte, []byte, error) {
	conn.ArmRX()
	if err := expectBytes(conn, responseHeader, "response header"); err != nil {
		return 0, nil, err
	}
	if err := expectByte(conn, uint8(extCommandMarker), "echoed extended marker"); err != nil {
		return 0, nil, err
	}
	length, err := wire.DecodeVarint(conn)
	if err != nil {
		return 0, nil, err
	}
	// length counts the echoed command byte, the response byte, the
	// payload, and the 2 trailing CRC bytes; subtract the 4 non-payload
	// bytes to learn the payload size (base-spec §3, §4.3).
	remainingAfterEcho := length - 4
	if remainingAfterEcho < 0 {
		return 0, nil, BadLength("extended response length", length)
	}
	if err := expectByte(conn, uint8(id), "echoed command"); err != nil {
		return 0, nil, err
	}
	responseByteRaw, err := wire.ReadU8(conn, "response byte")
	if err != nil {
		return 0, nil, err
	}
	payload := make([]byte, remainingAfterEcho)
	if err := wire.ReadRaw(conn, payload, "extended payload"); err != nil {
		return 0, nil, err
	}
	ok, err := conn.VerifyRXCRC()
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		return 0, nil, InvalidCRC
	}
	response := ResponseByte(responseByteRaw)
	if !response.IsKnown() {
		return 0, nil, &wire.CodecError{Kind: wire.ErrUnrecognizedDiscriminant, Entity: "response byte", Actual: responseByteRaw}
	}
	return response, payload, nil
}

// ExtendedCommand performs a full extended-command round trip: send,
// receive, and — unless the response byte is Ack — synthesize a Nack error.
// On Ack, the raw payload bytes are returned for the caller to decode.
func ExtendedCommand(conn Conn, id CommandID, payload []byte) ([]byte, error) {
	if err := SendExtendedCommand(conn, id, payload); err != nil {
		return nil, err
	}
	response, body, err := RecvExtendedPayload(conn, id)
	if err != nil {
		return nil, err
	}
	if response != Ack {
		return nil, Nack(response)
	}
	return body, nil
}

// SimpleCommand performs a full simple-command round trip.
func SimpleCommand(conn Conn, id CommandID) ([]byte, error) {
	if err := SendSimpleCommand(conn, id); err != nil {
		return nil, err
	}
	return RecvSimplePayload(conn, id)
}

func expectBytes(conn Conn, expected []byte, entity string) error {
	actual := make([]byte, len(expected))
	if err := wire.ReadRaw(conn, actual, entity); err != nil {
		return err
	}
	if !bytes.Equal(actual, expected) {
		return WrongData(entity, expected, actual)
	}
	return nil
}

func expectByte(conn Conn, expected uint8, entity string) error {
	actual, err := wire.ReadU8(conn, entity)
	if err != nil {
		return err
	}
	if actual != expected {
		return WrongData(entity, []byte{expected}, []byte{actual})
	}
	return nil
}
