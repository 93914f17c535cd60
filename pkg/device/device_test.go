package device

import (
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

// fakePort adapts a pair of io.Pipe halves to serialPort. Unlike a
// bytes.Buffer, a pipe blocks a reader until a writer supplies data, so the
// client and the scripted fake device below must run on separate
// goroutines, matching how a real serial link actually synchronizes them.
type fakePort struct {
	io.Reader
	io.Writer
}

func (fakePort) Close() error                       { return nil }
func (fakePort) SetReadTimeout(time.Duration) error { return nil }

// newTestDevice wires a Device up to a fake duplex link and returns the
// link's other end as a protocol.Conn a test can script a fake device
// against from its own goroutine.
func newTestDevice(t *testing.T) (*Device, protocol.Conn) {
	t.Helper()
	clientReadsFrom, serverWritesTo := io.Pipe()
	serverReadsFrom, clientWritesTo := io.Pipe()

	dev, err := newDevice(fakePort{Reader: clientReadsFrom, Writer: clientWritesTo})
	require.NoError(t, err)
	server := crcio.New(struct {
		io.Reader
		io.Writer
	}{serverReadsFrom, serverWritesTo})
	return dev, server
}

func writeSimpleReply(conn protocol.Conn, id protocol.CommandID, payload []byte) error {
	if _, err := conn.Write([]byte{0xAA, 0x55}); err != nil {
		return err
	}
	if _, err := conn.Write([]byte{byte(id)}); err != nil {
		return err
	}
	if _, err := conn.Write([]byte{byte(len(payload))}); err != nil {
		return err
	}
	_, err := conn.Write(payload)
	return err
}

// extCommandMarker mirrors protocol's unexported inner-command marker byte
// (0x56), which sits between the response header and the varint length on
// every extended frame.
const extCommandMarker = 0x56

func writeExtendedReply(conn protocol.Conn, id protocol.CommandID, response protocol.ResponseByte, payload []byte) error {
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
	if _, err := conn.Write([]byte{byte(response)}); err != nil {
		return err
	}
	if _, err := conn.Write(payload); err != nil {
		return err
	}
	return conn.EmitTXCRC()
}

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

func TestDeviceInfoRoundTrip(t *testing.T) {
	dev, server := newTestDevice(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		request := make([]byte, 5) // C9 36 B8 47 A4
		_, err := io.ReadFull(server, request)
		require.NoError(t, err)
		var payload []byte
		payload = append(payload, 1, 0, 13, 0, 0) // long version 1.0.13-0.0
		payload = append(payload, 0)              // reserved byte
		payload = append(payload, byte(wire.ProductBrain), 0)
		require.NoError(t, writeSimpleReply(server, cmdDeviceInfo, payload))
	}()

	info, err := dev.DeviceInfo()
	require.NoError(t, err)
	<-done
	assert.Equal(t, wire.ProductBrain, info.Product.Kind)
	assert.EqualValues(t, 1, info.Version.Major)
	assert.EqualValues(t, 13, info.Version.Patch)
}

func TestNumFilesSaturatesAt255(t *testing.T) {
	dev, server := newTestDevice(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := readExtendedRequest(server, cmdNumFiles)
		require.NoError(t, err)
		var payload []byte
		payload = append(payload, byte(1000), byte(1000>>8))
		require.NoError(t, writeExtendedReply(server, cmdNumFiles, protocol.Ack, payload))
	}()

	count, err := dev.NumFiles(filesystem.CategoryUser)
	require.NoError(t, err)
	<-done
	assert.Equal(t, 255, count)
}

func TestGetFileMetadataByNameAbsence(t *testing.T) {
	dev, server := newTestDevice(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := readExtendedRequest(server, cmdFileMetadataByName)
		require.NoError(t, err)
		require.NoError(t, writeExtendedReply(server, cmdFileMetadataByName, protocol.Enoent, nil))
	}()

	name, err := wire.NewFixedString(wire.FileNameWidth, "missing")
	require.NoError(t, err)
	_, ok, err := dev.GetFileMetadataByName(filesystem.QualFileName{Category: filesystem.CategoryUser, Name: name})
	require.NoError(t, err)
	<-done
	assert.False(t, ok)
}

func TestDeleteFileSuccessIssuesEnd(t *testing.T) {
	dev, server := newTestDevice(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := readExtendedRequest(server, cmdDeleteFile)
		require.NoError(t, err)
		require.NoError(t, writeExtendedReply(server, cmdDeleteFile, protocol.Ack, nil))

		payload, err := readExtendedRequest(server, 0x12) // filetransfer.CmdEnd
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(filesystem.DefaultTransferCompleteAction)}, payload)
		require.NoError(t, writeExtendedReply(server, 0x12, protocol.Ack, nil))
	}()

	name, err := wire.NewFixedString(wire.FileNameWidth, "foo")
	require.NoError(t, err)
	deleted, err := dev.DeleteFile(filesystem.QualFileName{Category: filesystem.CategoryUser, Name: name}, filesystem.DeleteArgs{})
	require.NoError(t, err)
	<-done
	assert.True(t, deleted)
}

func TestDeleteFileAbsenceSkipsEnd(t *testing.T) {
	dev, server := newTestDevice(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := readExtendedRequest(server, cmdDeleteFile)
		require.NoError(t, err)
		require.NoError(t, writeExtendedReply(server, cmdDeleteFile, protocol.ProgramFileError, nil))
	}()

	name, err := wire.NewFixedString(wire.FileNameWidth, "foo")
	require.NoError(t, err)
	deleted, err := dev.DeleteFile(filesystem.QualFileName{Category: filesystem.CategoryUser, Name: name}, filesystem.DeleteArgs{})
	require.NoError(t, err)
	<-done
	assert.False(t, deleted)
}

func TestReadFileToStreamRejectsConcurrentTransfer(t *testing.T) {
	dev, _ := newTestDevice(t)
	dev.inTransfer = true

	name, err := wire.NewFixedString(wire.FileNameWidth, "foo")
	require.NoError(t, err)
	fileType, err := wire.NewFixedString(wire.FileTypeWidth, "bin")
	require.NoError(t, err)
	file := filesystem.QualFile{QualFileName: filesystem.QualFileName{Category: filesystem.CategoryUser, Name: name}, Type: fileType}
	err = dev.ReadFileToStream(file, io.Discard, filesystem.ReadArgs{})
	assert.ErrorIs(t, err, errTransferInProgress)
}

func TestStopExecutionEncodesStopOption(t *testing.T) {
	dev, server := newTestDevice(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		payload, err := readExtendedRequest(server, cmdExecuteFile)
		require.NoError(t, err)
		assert.Equal(t, uint8(filesystem.CategoryNone), payload[0])
		assert.Equal(t, uint8(0x80), payload[1])
		require.NoError(t, writeExtendedReply(server, cmdExecuteFile, protocol.Ack, nil))
	}()

	require.NoError(t, dev.StopExecution())
	<-done
}
