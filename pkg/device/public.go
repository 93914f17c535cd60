package device

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/V5Reveng/cli/pkg/crcio"
	"github.com/V5Reveng/cli/pkg/filesystem"
	"github.com/V5Reveng/cli/pkg/filetransfer"
	"github.com/V5Reveng/cli/pkg/protocol"
	"github.com/V5Reveng/cli/pkg/wire"
)

// newExtDevInfoThreshold is the long version at and above which a brain
// reports extended device info in the new wire layout (base-spec §4.5),
// grounded on original_source/lib/src/device/impl/public.rs.
var newExtDevInfoThreshold = wire.LongVersion{
	ShortVersion: wire.ShortVersion{Major: 1, Minor: 0, Patch: 13, BuildMajor: 0},
	BuildMinor:   0,
}

// DeviceInfo issues the simple device-info command (0xA4).
func (d *Device) DeviceInfo() (DeviceInfo, error) {
	payload, err := protocol.SimpleCommand(d.conn, cmdDeviceInfo)
	if err != nil {
		return DeviceInfo{}, err
	}
	return decodeDeviceInfo(payload)
}

// hasNewExtDevInfo decides which extended-device-info wire layout to
// expect: the new layout iff product is brain and long version >= 1.0.13-0.0
// (base-spec §4.5); a Controller always uses the old layout regardless of
// version.
func hasNewExtDevInfo(info DeviceInfo) bool {
	if info.Product.Kind != wire.ProductBrain {
		return false
	}
	return info.Version.AtLeast(newExtDevInfoThreshold)
}

// ExtendedDeviceInfo issues the extended device-info command (0x22),
// selecting the wire layout by first fetching DeviceInfo.
func (d *Device) ExtendedDeviceInfo() (ExtendedDeviceInfo, error) {
	info, err := d.DeviceInfo()
	if err != nil {
		return ExtendedDeviceInfo{}, err
	}
	payload, err := protocol.ExtendedCommand(d.conn, cmdExtendedDeviceInfo, nil)
	if err != nil {
		return ExtendedDeviceInfo{}, err
	}
	if hasNewExtDevInfo(info) {
		return decodeExtendedDeviceInfoNew(payload)
	}
	return decodeExtendedDeviceInfoOld(payload)
}

// absenceNack reports whether err is a Nack the caller should translate to
// "absent" rather than propagate (base-spec §4.5, §7).
func absenceNack(err error) bool {
	response, ok := protocol.NackResponse(err)
	return ok && response.IsAbsenceNack()
}

// GetFileMetadataByName looks up a file's metadata by (category, name). The
// second return is false if the device reports the file absent.
func (d *Device) GetFileMetadataByName(name filesystem.QualFileName) (FileMetadataByName, bool, error) {
	payload, err := encodeFileMetadataByName(name.Category, name.Name)
	if err != nil {
		return FileMetadataByName{}, false, err
	}
	respPayload, err := protocol.ExtendedCommand(d.conn, cmdFileMetadataByName, payload)
	if err != nil {
		if absenceNack(err) {
			return FileMetadataByName{}, false, nil
		}
		return FileMetadataByName{}, false, err
	}
	meta, err := decodeFileMetadataByName(respPayload)
	if err != nil {
		return FileMetadataByName{}, false, err
	}
	return meta, true, nil
}

// GetFileMetadataByIndex looks up a file's metadata by its 0-based index
// within a category. The second return is false if absent.
func (d *Device) GetFileMetadataByIndex(category filesystem.Category, index filesystem.FileIndex) (FileMetadataByIndex, bool, error) {
	payload, err := encodeFileMetadataByIndex(index)
	if err != nil {
		return FileMetadataByIndex{}, false, err
	}
	respPayload, err := protocol.ExtendedCommand(d.conn, cmdFileMetadataByIndex, payload)
	if err != nil {
		if absenceNack(err) {
			return FileMetadataByIndex{}, false, nil
		}
		return FileMetadataByIndex{}, false, err
	}
	meta, err := decodeFileMetadataByIndex(respPayload)
	if err != nil {
		return FileMetadataByIndex{}, false, err
	}
	return meta, true, nil
}

// NumFiles returns the count of files in category, saturated to 255 and
// with a warning logged if the device's signed count exceeds that
// (base-spec §4.5).
func (d *Device) NumFiles(category filesystem.Category) (int, error) {
	payload, err := encodeNumFiles(category)
	if err != nil {
		return 0, err
	}
	respPayload, err := protocol.ExtendedCommand(d.conn, cmdNumFiles, payload)
	if err != nil {
		return 0, err
	}
	count, err := decodeNumFiles(respPayload)
	if err != nil {
		return 0, err
	}
	if count > 255 {
		d.logger.Warn("truncating file count to 255", "category", category, "actual", count)
		return 255, nil
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

// ListAllFiles enumerates every file in category by calling NumFiles, then
// issuing index lookups 0..count. An index the device reports absent
// (Enoent or ProgramFileError) aborts the scan, since the count is
// authoritative (base-spec §4.5); the returned error names the index and
// count, and does not carry the device's Nack itself.
func (d *Device) ListAllFiles(category filesystem.Category) ([]FileMetadataByIndex, error) {
	count, err := d.NumFiles(category)
	if err != nil {
		return nil, err
	}
	files := make([]FileMetadataByIndex, 0, count)
	for i := 0; i < count; i++ {
		meta, ok, err := d.GetFileMetadataByIndex(category, filesystem.FileIndex(i))
		if err != nil {
			return files, err
		}
		if !ok {
			return files, fmt.Errorf("listing files in category %s: index %d reported absent before count %d was reached", category, i, count)
		}
		files = append(files, meta)
	}
	return files, nil
}

func (d *Device) setChannel(channel filesystem.Channel) error {
	payload, err := encodeSetChannel(channel)
	if err != nil {
		return err
	}
	_, err = protocol.ExtendedCommand(d.conn, cmdSetChannel, payload)
	return err
}

// defaultTransferVersion is the fixed version reported by start-file-transfer
// requests issued on this device's behalf (read, write, and screen-capture
// sessions alike); it describes this tool, not the file, matching
// original_source/lib/src/device/impl/public.rs's hardcoded ShortVersion::new(1, 0, 0, 0).
var defaultTransferVersion = wire.ShortVersion{Major: 1, Minor: 0, Patch: 0, BuildMajor: 0}

// ReadFileToStream opens a download session for file and streams its
// content into stream, resolving a missing size/address from the file's
// metadata and verifying the 32-bit content CRC unless args.IgnoreCRC is
// set. file.Type is echoed in the start-transfer request exactly as given;
// callers with no type to report (screen capture) pass a blank one. Channel
// selection is the caller's responsibility: a read issued against the PIT
// channel works for ordinary files; screen capture switches to the
// file-transfer channel itself around the call (base-spec §4.5).
func (d *Device) ReadFileToStream(file filesystem.QualFile, stream io.Writer, args filesystem.ReadArgs) error {
	if err := d.beginTransfer(); err != nil {
		return err
	}
	defer d.endTransfer()

	var size filesystem.FileSize
	var address filesystem.Address

	if args.Size != nil && args.Address != nil {
		size = *args.Size
		address = *args.Address
	} else {
		meta, ok, err := d.GetFileMetadataByName(file.QualFileName)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("reading %s: file not found", file)
		}
		size = meta.Size
		address = meta.Address
		if args.Size != nil {
			size = *args.Size
		}
		if args.Address != nil {
			address = *args.Address
		}
	}

	startResp, err := filetransfer.Start(d.conn, filetransfer.StartArgs{
		Function:  filesystem.FunctionDownload,
		Target:    args.Target,
		Category:  file.Category,
		Size:      size,
		Address:   address,
		FileType:  file.Type,
		Timestamp: wire.DecodeTimestamp(0),
		Version:   defaultTransferVersion,
		Name:      file.Name,
	})
	if err != nil {
		return err
	}

	// The device echoes the file's actual size and content CRC in the
	// start response on download; that, not anything from metadata, is
	// the basis for the post-transfer CRC comparison (base-spec §4.4,
	// §8 scenario 5).
	crc, err := filetransfer.Read(d.conn, stream, startResp.FileSize, address, startResp.MaxPacketSize)
	endErr := filetransfer.End(d.conn, filesystem.DefaultTransferCompleteAction)
	if err != nil {
		return err
	}
	if endErr != nil {
		return endErr
	}
	if !args.IgnoreCRC && crc != startResp.CRC {
		return protocol.InvalidCRC
	}
	return nil
}

// WriteFileFromStream opens an upload session for file and streams size
// bytes from stream to the device, resolving a missing address from
// existing metadata or the architectural default (base-spec §4.5).
func (d *Device) WriteFileFromStream(file filesystem.QualFile, stream io.Reader, size filesystem.FileSize, crc uint32, args filesystem.WriteArgs) error {
	if err := d.beginTransfer(); err != nil {
		return err
	}
	defer d.endTransfer()

	address := filesystem.DefaultAddress
	if args.Address != nil {
		address = *args.Address
	} else if meta, ok, err := d.GetFileMetadataByName(file.QualFileName); err != nil {
		return err
	} else if ok {
		address = meta.Address
	}

	if err := d.setChannel(filesystem.ChannelFileTransfer); err != nil {
		return err
	}
	defer d.setChannel(filesystem.ChannelPit)

	timestamp := args.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	startResp, err := filetransfer.Start(d.conn, filetransfer.StartArgs{
		Function:  filesystem.FunctionUpload,
		Target:    filesystem.DefaultTarget,
		Category:  file.Category,
		Overwrite: args.Overwrite,
		Size:      size,
		Address:   address,
		CRC:       crc,
		FileType:  file.Type,
		Timestamp: timestamp,
		Version:   defaultTransferVersion,
		Name:      file.Name,
	})
	if err != nil {
		return err
	}
	if startResp.FileSize < size {
		return protocol.BadLength("echoed file size", int(startResp.FileSize))
	}

	if args.LinkedFile != nil {
		if err := filetransfer.SetLink(d.conn, *args.LinkedFile); err != nil {
			return err
		}
	}

	uploadTimeout := size / 50
	if uploadTimeout < 1 {
		uploadTimeout = 1
	}
	widened := time.Duration(uploadTimeout) * time.Millisecond
	if widened < DefaultTimeout {
		widened = DefaultTimeout
	}
	if err := d.SetTimeout(widened); err != nil {
		return err
	}

	writeErr := filetransfer.Write(d.conn, stream, size, address, startResp.MaxPacketSize)
	endErr := filetransfer.End(d.conn, args.Action)
	resetErr := d.ResetTimeout()

	if writeErr != nil {
		return writeErr
	}
	if endErr != nil {
		return endErr
	}
	return resetErr
}

// WriteFileFromSlice is a convenience wrapper computing the content CRC
// over data and delegating to WriteFileFromStream.
func (d *Device) WriteFileFromSlice(file filesystem.QualFile, data []byte, args filesystem.WriteArgs) error {
	crc := crcio.UpdateCRC32(0, data)
	return d.WriteFileFromStream(file, bytes.NewReader(data), filesystem.FileSize(len(data)), crc, args)
}

// DeleteFile deletes file (and, if requested, its linked file). The bool
// return reports whether a file was actually deleted; a Nack(Enoent |
// ProgramFileError) yields (false, nil) rather than an error (base-spec
// §4.5). On a successful delete, an `end` with the default completion
// action is issued to quiesce any implicit session the delete may leave
// open, per the base spec's Design Notes.
func (d *Device) DeleteFile(file filesystem.QualFileName, args filesystem.DeleteArgs) (bool, error) {
	payload, err := encodeDeleteFile(file, args.IncludeLinked)
	if err != nil {
		return false, err
	}
	_, err = protocol.ExtendedCommand(d.conn, cmdDeleteFile, payload)
	if err != nil {
		if absenceNack(err) {
			return false, nil
		}
		return false, err
	}
	if err := filetransfer.End(d.conn, filesystem.DefaultTransferCompleteAction); err != nil {
		return true, err
	}
	return true, nil
}

// ExecuteFile runs file (base-spec §4.5).
func (d *Device) ExecuteFile(file filesystem.QualFileName) error {
	payload, err := encodeExecuteFile(file.Category, file.Name, false)
	if err != nil {
		return err
	}
	_, err = protocol.ExtendedCommand(d.conn, cmdExecuteFile, payload)
	return err
}

// StopExecution stops whatever is currently running (base-spec §4.5).
func (d *Device) StopExecution() error {
	empty, err := wire.NewFixedString(wire.FileNameWidth, "")
	if err != nil {
		return err
	}
	payload, err := encodeExecuteFile(filesystem.CategoryNone, empty, true)
	if err != nil {
		return err
	}
	_, err = protocol.ExtendedCommand(d.conn, cmdExecuteFile, payload)
	return err
}
