// Package protocol implements the framing layer (simple and extended
// commands), the closed response-byte enumeration, and the error taxonomy
// those frames can raise.
package protocol

import "fmt"

// ResponseByte is the closed 15-value enumeration the device sends as the
// last thing before an extended response's payload (base-spec §3 "Response
// byte"). 0x76 is Ack; every other value is a distinct Nack kind.
type ResponseByte uint8

const (
	Ack                          ResponseByte = 0x76
	GeneralNack                  ResponseByte = 0xff
	ReceivedCrcError             ResponseByte = 0xce
	PayloadTooSmall              ResponseByte = 0xd0
	RequestedTransferTooLarge    ResponseByte = 0xd1
	ProgramCrcError              ResponseByte = 0xd2
	ProgramFileError             ResponseByte = 0xd3
	UninitializedUploadDownload  ResponseByte = 0xd4
	InitInvalidForFunction       ResponseByte = 0xd5
	DataNotAligned               ResponseByte = 0xd6
	PacketAddressWrong           ResponseByte = 0xd7
	DownloadedLengthWrong        ResponseByte = 0xd8
	Enoent                       ResponseByte = 0xd9
	Enospc                       ResponseByte = 0xda
	Eexist                       ResponseByte = 0xdb
)

var responseByteNames = map[ResponseByte]string{
	Ack:                         "Ack",
	GeneralNack:                 "General Nack",
	ReceivedCrcError:            "Received CRC error",
	PayloadTooSmall:             "Payload too small",
	RequestedTransferTooLarge:  "Requested transfer too large",
	ProgramCrcError:             "Program CRC error",
	ProgramFileError:            "Program file error",
	UninitializedUploadDownload: "Uninitialized upload download",
	InitInvalidForFunction:      "Initialization invalid for function",
	DataNotAligned:              "Data not aligned",
	PacketAddressWrong:          "Packet address wrong",
	DownloadedLengthWrong:       "Downloaded length wrong",
	Enoent:                      "No such file or directory",
	Enospc:                      "No space left on device",
	Eexist:                      "File exists",
}

func (r ResponseByte) String() string {
	if s, ok := responseByteNames[r]; ok {
		return s
	}
	return fmt.Sprintf("unrecognized response byte 0x%02x", uint8(r))
}

// IsKnown reports whether r is one of the 15 defined values.
func (r ResponseByte) IsKnown() bool {
	_, ok := responseByteNames[r]
	return ok
}

// IsAbsenceNack reports whether r is one of the two Nack kinds that
// metadata-lookup and delete operations convert to an "absent" sentinel
// rather than propagating (base-spec §4.5, §7).
func (r ResponseByte) IsAbsenceNack() bool {
	return r == Enoent || r == ProgramFileError
}
