package device

import (
	"bytes"

	"github.com/V5Reveng/cli/pkg/filesystem"
	"github.com/V5Reveng/cli/pkg/wire"
)

func encodeFileMetadataByName(category filesystem.Category, name wire.FixedString) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteU8(&buf, uint8(category)); err != nil {
		return nil, err
	}
	if err := wire.WriteU8(&buf, 0); err != nil { // options, always 0
		return nil, err
	}
	if err := name.Encode(&buf, "file name"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeFileMetadataByIndex(index filesystem.FileIndex) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteU8(&buf, index); err != nil {
		return nil, err
	}
	if err := wire.WriteU8(&buf, 0); err != nil { // options, always 0
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNumFiles(category filesystem.Category) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteU8(&buf, uint8(category)); err != nil {
		return nil, err
	}
	if err := wire.WriteU8(&buf, 0); err != nil { // options, always 0
		return nil, err
	}
	return buf.Bytes(), nil
}

// setChannelOptions is fixed at 1, matching the original's comment that it
// "mimics PROS CLI" behavior rather than any documented semantics.
const setChannelOptions = 1

func encodeSetChannel(channel filesystem.Channel) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteU8(&buf, setChannelOptions); err != nil {
		return nil, err
	}
	if err := wire.WriteU8(&buf, uint8(channel)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const (
	executeOptionStart uint8 = 0
	executeOptionStop  uint8 = 0x80
)

func encodeExecuteFile(category filesystem.Category, name wire.FixedString, stop bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteU8(&buf, uint8(category)); err != nil {
		return nil, err
	}
	option := executeOptionStart
	if stop {
		option = executeOptionStop
	}
	if err := wire.WriteU8(&buf, option); err != nil {
		return nil, err
	}
	if err := name.Encode(&buf, "execute file name"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const deleteIncludeLinkedBit uint8 = 0x80

func encodeDeleteFile(file filesystem.QualFileName, includeLinked bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteU8(&buf, uint8(file.Category)); err != nil {
		return nil, err
	}
	option := uint8(0)
	if includeLinked {
		option = deleteIncludeLinkedBit
	}
	if err := wire.WriteU8(&buf, option); err != nil {
		return nil, err
	}
	if err := file.Name.Encode(&buf, "delete file name"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
