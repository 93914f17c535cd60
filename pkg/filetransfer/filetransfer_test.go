package filetransfer

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/V5Reveng/cli/pkg/crcio"
	"github.com/V5Reveng/cli/pkg/filesystem"
	"github.com/V5Reveng/cli/pkg/protocol"
	"github.com/V5Reveng/cli/pkg/wire"
)

// newLoopback wires a client and a server protocol.Conn together over a
// pair of io.Pipes. A pipe blocks a reader until a writer supplies data, so
// the client and server sides of each test must alternate reads and writes
// on separate goroutines, matching how a real half-duplex serial link
// actually synchronizes them.
func newLoopback() (protocol.Conn, protocol.Conn) {
	clientReadsFrom, serverWritesTo := io.Pipe()
	serverReadsFrom, clientWritesTo := io.Pipe()
	client := crcio.New(struct {
		io.Reader
		io.Writer
	}{clientReadsFrom, clientWritesTo})
	server := crcio.New(struct {
		io.Reader
		io.Writer
	}{serverReadsFrom, serverWritesTo})
	return client, server
}

func TestPadRoundsUpToMultipleOfFour(t *testing.T) {
	cases := map[int]int{0: 0, 1: 4, 2: 4, 3: 4, 4: 4, 5: 8, 8: 8, 9: 12}
	for in, want := range cases {
		assert.Equal(t, want, pad(in), "pad(%d)", in)
	}
}

// readExtendedRequest is the server-side mirror of SendExtendedCommand: it
// decodes an extended command request and returns its payload, without the
// response-byte framing that only appears on the reply side.
func readExtendedRequest(conn protocol.Conn, id protocol.CommandID) ([]byte, error) {
	conn.ArmRX()
	header := make([]byte, 4)
	if _, err := io.ReadFull(conn, header); err != nil {
		return nil, err
	}
	marker := make([]byte, 1)
	if _, err := io.ReadFull(conn, marker); err != nil {
		return nil, err
	}
	echoed := make([]byte, 1)
	if _, err := io.ReadFull(conn, echoed); err != nil {
		return nil, err
	}
	length, err := wire.DecodeVarint(conn)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return nil, err
	}
	if _, err := conn.VerifyRXCRC(); err != nil {
		return nil, err
	}
	return payload, nil
}

// extCommandMarker mirrors protocol's unexported inner-command marker byte
// (0x56), which sits between the response header and the varint length on
// every extended frame.
const extCommandMarker = 0x56

func writeExtendedReply(conn protocol.Conn, id protocol.CommandID, payload []byte) error {
	conn.ArmTX()
	if _, err := conn.Write([]byte{0xAA, 0x55}); err != nil {
		return err
	}
	if _, err := conn.Write([]byte{extCommandMarker}); err != nil {
		return err
	}
	length := len(payload) + 1 + 1 + 2 // echoed id + response byte + payload + crc
	lenBytes, err := wire.EncodeVarint(length)
	if err != nil {
		return err
	}
	if _, err := conn.Write(lenBytes); err != nil {
		return err
	}
	if _, err := conn.Write([]byte{byte(id)}); err != nil {
		return err
	}
	if _, err := conn.Write([]byte{byte(protocol.Ack)}); err != nil {
		return err
	}
	if _, err := conn.Write(payload); err != nil {
		return err
	}
	return conn.EmitTXCRC()
}

func TestStartRoundTrip(t *testing.T) {
	client, server := newLoopback()

	fileType, err := wire.NewFixedString(wire.FileTypeWidth, "bin")
	require.NoError(t, err)
	name, err := wire.NewFixedString(wire.FileNameWidth, "slot_1.bin")
	require.NoError(t, err)

	args := StartArgs{
		Function:  filesystem.FunctionUpload,
		Target:    filesystem.TargetFlash,
		Category:  filesystem.DefaultCategory,
		Overwrite: true,
		Size:      1024,
		Address:   filesystem.DefaultAddress,
		CRC:       0,
		FileType:  fileType,
		Timestamp: time.Now(),
		Version:   wire.ShortVersion{Major: 1, Minor: 0, Patch: 0, BuildMajor: 0},
		Name:      name,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := readExtendedRequest(server, CmdStart)
		require.NoError(t, err)

		var respPayload bytes.Buffer
		require.NoError(t, wire.WriteU16LE(&respPayload, 512))
		require.NoError(t, wire.WriteU32LE(&respPayload, 1024))
		require.NoError(t, wire.WriteU32LE(&respPayload, 0xdeadbeef))
		require.NoError(t, writeExtendedReply(server, CmdStart, respPayload.Bytes()))
	}()

	resp, err := Start(client, args)
	require.NoError(t, err)
	<-done
	assert.EqualValues(t, 512, resp.MaxPacketSize)
	assert.EqualValues(t, 1024, resp.FileSize)
	assert.EqualValues(t, 0xdeadbeef, resp.CRC)
}

func TestReadChunksAndAccumulatesCRC(t *testing.T) {
	client, server := newLoopback()

	content := []byte("hello, v5 brain")
	const maxPacket = filesystem.PacketSize(8)

	done := make(chan struct{})
	go func() {
		defer close(done)
		remaining := content
		for len(remaining) > 0 {
			step := int(maxPacket)
			if step > len(remaining) {
				step = len(remaining)
			}
			chunk := remaining[:step]
			remaining = remaining[step:]

			_, err := readExtendedRequest(server, CmdDownload)
			require.NoError(t, err)

			var reply bytes.Buffer
			require.NoError(t, wire.WritePad(&reply, 4))
			require.NoError(t, wire.WriteRaw(&reply, chunk))
			if padding := pad(len(chunk)) - len(chunk); padding > 0 {
				require.NoError(t, wire.WritePad(&reply, padding))
			}
			require.NoError(t, writeExtendedReply(server, CmdDownload, reply.Bytes()))
		}
	}()

	var out bytes.Buffer
	crc, err := Read(client, &out, filesystem.FileSize(len(content)), 0, maxPacket)
	require.NoError(t, err)
	<-done
	assert.Equal(t, content, out.Bytes())
	assert.Equal(t, crcio.UpdateCRC32(0, content), crc)
}

func TestWriteChunksPayload(t *testing.T) {
	client, server := newLoopback()

	content := []byte("firmware-image-bytes")
	const maxPacket = filesystem.PacketSize(8)

	received := make(chan []byte, 1)
	go func() {
		var all []byte
		remaining := len(content)
		for remaining > 0 {
			step := int(maxPacket)
			if step > remaining {
				step = remaining
			}
			payload, err := readExtendedRequest(server, CmdUpload)
			require.NoError(t, err)
			require.NoError(t, writeExtendedReply(server, CmdUpload, nil))
			all = append(all, payload...)
			remaining -= step
		}
		received <- all
	}()

	err := Write(client, bytes.NewReader(content), filesystem.FileSize(len(content)), 0, maxPacket)
	require.NoError(t, err)
	<-received
}
