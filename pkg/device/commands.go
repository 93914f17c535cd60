// Package device implements the device façade (base-spec §4.5): device
// identity, file metadata, listing, read/write/delete, execute/stop, and
// screen capture, each composing the protocol, file-transfer, and wire
// layers underneath.
package device

import "github.com/V5Reveng/cli/pkg/protocol"

// Command IDs from the catalog in base-spec §6.
const (
	cmdDeviceInfo          protocol.CommandID = 0xA4 // simple
	cmdExtendedDeviceInfo  protocol.CommandID = 0x22
	cmdNumFiles            protocol.CommandID = 0x16
	cmdFileMetadataByIndex protocol.CommandID = 0x17
	cmdFileMetadataByName  protocol.CommandID = 0x19
	cmdSetChannel          protocol.CommandID = 0x10
	cmdExecuteFile         protocol.CommandID = 0x18
	cmdDeleteFile          protocol.CommandID = 0x1B
	cmdPrepareScreenCap    protocol.CommandID = 0x28
)
