// Package filetransfer implements the file-transfer state machine
// (base-spec §4.4): start/end session bracketing, address-anchored chunk
// reads and writes with 4-byte alignment padding, and the rolling 32-bit
// content CRC, grounded on original_source/src/device/impl/file_transfer.rs.
package filetransfer

import (
	"bytes"
	"io"
	"time"

	"github.com/V5Reveng/cli/pkg/crcio"
	"github.com/V5Reveng/cli/pkg/filesystem"
	"github.com/V5Reveng/cli/pkg/protocol"
	"github.com/V5Reveng/cli/pkg/wire"
)

// Command IDs for the file-transfer session (base-spec §6).
const (
	CmdStart    protocol.CommandID = 0x11
	CmdEnd      protocol.CommandID = 0x12
	CmdUpload   protocol.CommandID = 0x13
	CmdDownload protocol.CommandID = 0x14
	CmdSetLink  protocol.CommandID = 0x15
)

// StartArgs is the start-file-transfer command's payload (base-spec §4.4
// "Attributes exchanged at start").
type StartArgs struct {
	Function  filesystem.Function
	Target    filesystem.Target
	Category  filesystem.Category
	Overwrite bool
	Size      filesystem.FileSize
	Address   filesystem.Address
	CRC       uint32
	FileType  wire.FixedString
	Timestamp time.Time
	Version   wire.ShortVersion
	Name      wire.FixedString
}

// StartResponse is what the device echoes back from `start`: the packet
// size ceiling for this session, and (meaningful on download) the file's
// actual size and content CRC.
type StartResponse struct {
	MaxPacketSize filesystem.PacketSize
	FileSize      filesystem.FileSize
	CRC           uint32
}

func encodeStart(args StartArgs) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteU8(&buf, uint8(args.Function)); err != nil {
		return nil, err
	}
	if err := wire.WriteU8(&buf, uint8(args.Target)); err != nil {
		return nil, err
	}
	if err := wire.WriteU8(&buf, uint8(args.Category)); err != nil {
		return nil, err
	}
	overwrite := uint8(0)
	if args.Overwrite {
		overwrite = 1
	}
	if err := wire.WriteU8(&buf, overwrite); err != nil {
		return nil, err
	}
	if err := wire.WriteU32LE(&buf, args.Size); err != nil {
		return nil, err
	}
	if err := wire.WriteU32LE(&buf, args.Address); err != nil {
		return nil, err
	}
	if err := wire.WriteU32LE(&buf, args.CRC); err != nil {
		return nil, err
	}
	if err := args.FileType.Encode(&buf, "file type"); err != nil {
		return nil, err
	}
	if err := wire.WriteTimestamp(&buf, args.Timestamp); err != nil {
		return nil, err
	}
	if err := args.Version.Encode(&buf); err != nil {
		return nil, err
	}
	if err := args.Name.Encode(&buf, "file name"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeStartResponse(payload []byte) (StartResponse, error) {
	r := bytes.NewReader(payload)
	maxPkt, err := wire.ReadU16LE(r, "max packet size")
	if err != nil {
		return StartResponse{}, err
	}
	size, err := wire.ReadU32LE(r, "echoed file size")
	if err != nil {
		return StartResponse{}, err
	}
	crc, err := wire.ReadU32LE(r, "echoed file crc")
	if err != nil {
		return StartResponse{}, err
	}
	return StartResponse{MaxPacketSize: maxPkt, FileSize: size, CRC: crc}, nil
}

// Start opens a file-transfer session (Idle -> Open, base-spec §4.4).
func Start(conn protocol.Conn, args StartArgs) (StartResponse, error) {
	payload, err := encodeStart(args)
	if err != nil {
		return StartResponse{}, err
	}
	respPayload, err := protocol.ExtendedCommand(conn, CmdStart, payload)
	if err != nil {
		return StartResponse{}, err
	}
	return decodeStartResponse(respPayload)
}

// End closes a file-transfer session (Open -> Idle, base-spec §4.4).
func End(conn protocol.Conn, action filesystem.TransferCompleteAction) error {
	_, err := protocol.ExtendedCommand(conn, CmdEnd, []byte{byte(action)})
	return err
}

// SetLink associates a linked file with the session currently open
// (base-spec §4.4 "set link"). Only valid between Start and End; the
// device itself enforces that, not this package.
func SetLink(conn protocol.Conn, linked filesystem.QualFileName) error {
	var buf bytes.Buffer
	if err := wire.WriteU8(&buf, uint8(linked.Category)); err != nil {
		return err
	}
	if err := wire.WriteU8(&buf, 0); err != nil { // options, always 0
		return err
	}
	if err := linked.Name.Encode(&buf, "linked file name"); err != nil {
		return err
	}
	_, err := protocol.ExtendedCommand(conn, CmdSetLink, buf.Bytes())
	return err
}

// pad rounds size up to the next multiple of 4, matching
// original_source/src/device/impl/file_transfer.rs's pad().
func pad(size int) int {
	base := size &^ 3
	if size&3 > 0 {
		return base + 4
	}
	return base
}

// readSingle issues one download chunk command for exactly len(data)
// logical bytes at address, discarding the alignment padding the wire adds.
func readSingle(conn protocol.Conn, data []byte, address filesystem.Address) error {
	amountToRead := pad(len(data))
	var reqBuf bytes.Buffer
	if err := wire.WriteU32LE(&reqBuf, address); err != nil {
		return err
	}
	if err := wire.WriteU16LE(&reqBuf, filesystem.PacketSize(amountToRead)); err != nil {
		return err
	}
	payload, err := protocol.ExtendedCommand(conn, CmdDownload, reqBuf.Bytes())
	if err != nil {
		return err
	}
	r := bytes.NewReader(payload)
	if err := wire.ReadPad(r, 4, "echoed download chunk address"); err != nil { // discarded, matching the original
		return err
	}
	remaining := r.Len()
	if remaining != amountToRead {
		return protocol.BadLength("file transfer read packet", remaining)
	}
	if err := wire.ReadRaw(r, data, "file transfer read packet"); err != nil {
		return err
	}
	padding := amountToRead - len(data)
	if padding > 0 {
		discard := make([]byte, padding)
		if err := wire.ReadRaw(r, discard, "file transfer read padding"); err != nil {
			return err
		}
	}
	return nil
}

// Read streams size logical bytes starting at baseAddress into stream,
// chunked to at most maxPacketSize bytes per wire round trip, and returns
// the rolling 32-bit CRC of everything written (base-spec §4.4 "Chunking").
func Read(conn protocol.Conn, stream io.Writer, size filesystem.FileSize, baseAddress filesystem.Address, maxPacketSize filesystem.PacketSize) (uint32, error) {
	var crc uint32
	remaining := size
	address := baseAddress
	for remaining > 0 {
		step := remaining
		if filesystem.FileSize(maxPacketSize) < step {
			step = filesystem.FileSize(maxPacketSize)
		}
		chunk := make([]byte, step)
		if err := readSingle(conn, chunk, address); err != nil {
			return crc, err
		}
		crc = crcio.UpdateCRC32(crc, chunk)
		if _, err := stream.Write(chunk); err != nil {
			return crc, err
		}
		address += filesystem.Address(step)
		remaining -= step
	}
	return crc, nil
}

// writeSingle issues one upload chunk command for exactly len(data) logical
// bytes at address, padding the wire payload to a multiple of 4.
func writeSingle(conn protocol.Conn, data []byte, address filesystem.Address) error {
	amountToWrite := pad(len(data))
	var buf bytes.Buffer
	if err := wire.WriteU32LE(&buf, address); err != nil {
		return err
	}
	if err := wire.WriteRaw(&buf, data); err != nil {
		return err
	}
	if padding := amountToWrite - len(data); padding > 0 {
		if err := wire.WritePad(&buf, padding); err != nil {
			return err
		}
	}
	_, err := protocol.ExtendedCommand(conn, CmdUpload, buf.Bytes())
	return err
}

// Write streams size logical bytes from stream to the device starting at
// baseAddress, chunked to at most maxPacketSize bytes per wire round trip.
func Write(conn protocol.Conn, stream io.Reader, size filesystem.FileSize, baseAddress filesystem.Address, maxPacketSize filesystem.PacketSize) error {
	remaining := size
	address := baseAddress
	for remaining > 0 {
		step := remaining
		if filesystem.FileSize(maxPacketSize) < step {
			step = filesystem.FileSize(maxPacketSize)
		}
		chunk := make([]byte, step)
		if _, err := io.ReadFull(stream, chunk); err != nil {
			return err
		}
		if err := writeSingle(conn, chunk, address); err != nil {
			return err
		}
		address += filesystem.Address(step)
		remaining -= step
	}
	return nil
}
