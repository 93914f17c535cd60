package device

import (
	"bytes"
	"time"

	"github.com/V5Reveng/cli/pkg/filesystem"
	"github.com/V5Reveng/cli/pkg/wire"
)

// DeviceInfo is the response to the simple device-info command (base-spec
// §4.5): a long version, one reserved byte, and the tagged product,
// grounded on original_source/src/device/receive.rs.
type DeviceInfo struct {
	Version wire.LongVersion
	Product wire.Product
}

func decodeDeviceInfo(payload []byte) (DeviceInfo, error) {
	r := bytes.NewReader(payload)
	version, err := wire.DecodeLongVersion(r)
	if err != nil {
		return DeviceInfo{}, err
	}
	if err := wire.ReadPad(r, 1, "device info reserved byte"); err != nil {
		return DeviceInfo{}, err
	}
	product, err := wire.DecodeProduct(r)
	if err != nil {
		return DeviceInfo{}, err
	}
	return DeviceInfo{Version: version, Product: product}, nil
}

// ExtendedDeviceInfo is the common prefix shared by both wire layouts of
// the extended device-info response (base-spec §4.5): on the new layout,
// the one byte of undocumented meaning is decoded and discarded, never
// surfaced, per the base spec's Design Notes open question.
type ExtendedDeviceInfo struct {
	SystemVersion wire.ShortVersion
	CPU0Version   wire.ShortVersion
	CPU1Version   wire.ShortVersion
	TouchVersion  uint8
	SystemID      uint32
}

// decodeExtendedDeviceInfoOld decodes the pre-1.0.13 wire layout:
// pad(1), system_version, cpu0_version, cpu1_version, pad(3), touch_version,
// pad(12), system_id.
func decodeExtendedDeviceInfoOld(payload []byte) (ExtendedDeviceInfo, error) {
	r := bytes.NewReader(payload)
	if err := wire.ReadPad(r, 1, "extended device info reserved prefix"); err != nil {
		return ExtendedDeviceInfo{}, err
	}
	system, err := wire.DecodeShortVersion(r)
	if err != nil {
		return ExtendedDeviceInfo{}, err
	}
	cpu0, err := wire.DecodeShortVersion(r)
	if err != nil {
		return ExtendedDeviceInfo{}, err
	}
	cpu1, err := wire.DecodeShortVersion(r)
	if err != nil {
		return ExtendedDeviceInfo{}, err
	}
	if err := wire.ReadPad(r, 3, "extended device info reserved gap"); err != nil {
		return ExtendedDeviceInfo{}, err
	}
	touch, err := wire.ReadU8(r, "touch version")
	if err != nil {
		return ExtendedDeviceInfo{}, err
	}
	if err := wire.ReadPad(r, 12, "extended device info reserved tail"); err != nil {
		return ExtendedDeviceInfo{}, err
	}
	systemID, err := wire.ReadU32LE(r, "system id")
	if err != nil {
		return ExtendedDeviceInfo{}, err
	}
	return ExtendedDeviceInfo{SystemVersion: system, CPU0Version: cpu0, CPU1Version: cpu1, TouchVersion: touch, SystemID: systemID}, nil
}

// decodeExtendedDeviceInfoNew decodes the new (>=1.0.13) wire layout: the
// old layout's fields followed by one byte of undocumented meaning and 3
// further reserved bytes. The undocumented byte is read and discarded
// without interpretation, per the base spec's Design Notes open question
// ("the core must skip it and surface only the common prefix, without
// guessing").
func decodeExtendedDeviceInfoNew(payload []byte) (ExtendedDeviceInfo, error) {
	oldWidth := len(payload) - 4 // 1 unknown byte + 3 trailing pad bytes
	if oldWidth < 0 {
		oldWidth = 0
	}
	common, err := decodeExtendedDeviceInfoOld(payload[:oldWidth])
	if err != nil {
		return ExtendedDeviceInfo{}, err
	}
	trailer := bytes.NewReader(payload[oldWidth:])
	if _, err := wire.ReadU8(trailer, "extended device info unknown byte"); err != nil {
		return ExtendedDeviceInfo{}, err
	}
	if err := wire.ReadPad(trailer, 3, "extended device info new-layout trailer"); err != nil {
		return ExtendedDeviceInfo{}, err
	}
	return common, nil
}

// FileMetadataByName is the response to a file-metadata-by-name lookup
// (base-spec §3 "File metadata").
type FileMetadataByName struct {
	LinkedCategory filesystem.Category
	Size           filesystem.FileSize
	Address        filesystem.Address
	CRC            uint32
	FileType       wire.FixedString
	Timestamp      time.Time
	Version        wire.ShortVersion
	LinkedName     wire.FixedString
}

// IsLink reports whether this file is linked to another (base-spec §3,
// original_source's FileMetadata::is_link).
func (m FileMetadataByName) IsLink() bool { return !m.LinkedCategory.IsNone() }

// Link returns the linked category/name pair and true if IsLink, else the
// zero pair and false.
func (m FileMetadataByName) Link() (filesystem.Category, wire.FixedString, bool) {
	if !m.IsLink() {
		return 0, wire.FixedString{}, false
	}
	return m.LinkedCategory, m.LinkedName, true
}

func decodeFileMetadataByName(payload []byte) (FileMetadataByName, error) {
	r := bytes.NewReader(payload)
	catByte, err := wire.ReadU8(r, "linked category")
	if err != nil {
		return FileMetadataByName{}, err
	}
	size, err := wire.ReadU32LE(r, "file size")
	if err != nil {
		return FileMetadataByName{}, err
	}
	addr, err := wire.ReadU32LE(r, "file address")
	if err != nil {
		return FileMetadataByName{}, err
	}
	crc, err := wire.ReadU32LE(r, "file crc")
	if err != nil {
		return FileMetadataByName{}, err
	}
	fileType, err := wire.DecodeFixedString(r, wire.FileTypeWidth, "file type")
	if err != nil {
		return FileMetadataByName{}, err
	}
	ts, err := wire.ReadTimestamp(r, "file timestamp")
	if err != nil {
		return FileMetadataByName{}, err
	}
	version, err := wire.DecodeShortVersion(r)
	if err != nil {
		return FileMetadataByName{}, err
	}
	name, err := wire.DecodeFixedString(r, wire.FileNameWidth, "linked file name")
	if err != nil {
		return FileMetadataByName{}, err
	}
	return FileMetadataByName{
		LinkedCategory: filesystem.Category(catByte),
		Size:           size,
		Address:        addr,
		CRC:            crc,
		FileType:       fileType,
		Timestamp:      ts,
		Version:        version,
		LinkedName:     name,
	}, nil
}

// FileMetadataByIndex is the response to a file-metadata-by-index lookup;
// it carries the file's own index and name rather than a linked file's.
type FileMetadataByIndex struct {
	Index     filesystem.FileIndex
	Size      filesystem.FileSize
	Address   filesystem.Address
	CRC       uint32
	FileType  wire.FixedString
	Timestamp time.Time
	Version   wire.ShortVersion
	Name      wire.FixedString
}

func decodeFileMetadataByIndex(payload []byte) (FileMetadataByIndex, error) {
	r := bytes.NewReader(payload)
	idx, err := wire.ReadU8(r, "file index")
	if err != nil {
		return FileMetadataByIndex{}, err
	}
	size, err := wire.ReadU32LE(r, "file size")
	if err != nil {
		return FileMetadataByIndex{}, err
	}
	addr, err := wire.ReadU32LE(r, "file address")
	if err != nil {
		return FileMetadataByIndex{}, err
	}
	crc, err := wire.ReadU32LE(r, "file crc")
	if err != nil {
		return FileMetadataByIndex{}, err
	}
	fileType, err := wire.DecodeFixedString(r, wire.FileTypeWidth, "file type")
	if err != nil {
		return FileMetadataByIndex{}, err
	}
	ts, err := wire.ReadTimestamp(r, "file timestamp")
	if err != nil {
		return FileMetadataByIndex{}, err
	}
	version, err := wire.DecodeShortVersion(r)
	if err != nil {
		return FileMetadataByIndex{}, err
	}
	name, err := wire.DecodeFixedString(r, wire.FileNameWidth, "file name")
	if err != nil {
		return FileMetadataByIndex{}, err
	}
	return FileMetadataByIndex{
		Index:     idx,
		Size:      size,
		Address:   addr,
		CRC:       crc,
		FileType:  fileType,
		Timestamp: ts,
		Version:   version,
		Name:      name,
	}, nil
}

func decodeNumFiles(payload []byte) (int16, error) {
	r := bytes.NewReader(payload)
	return wire.ReadI16LE(r, "number of files")
}
