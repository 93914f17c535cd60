package program

import (
	"bytes"
	"fmt"

	"github.com/V5Reveng/cli/pkg/device"
	"github.com/V5Reveng/cli/pkg/filesystem"
	"github.com/V5Reveng/cli/pkg/wire"
)

// qualFiles returns the slot's paired .ini metadata file and .bin payload
// file names (base-spec Design Notes: "slot_N.ini" / "slot_N.bin"), in the
// default USER category, grounded on original_source/src/program/mod.rs's
// FILE_NAME_TEMPLATE and qual/impl_from_str.rs (a bare "slot_N.ini" has no
// ":" prefix, so it resolves to DefaultCategory). The extension stays part
// of the 24-byte name itself, matching how a real device identifies these
// two files as distinct rather than colliding on one (category, name) pair.
func qualFiles(slot SlotNumber) (ini, bin filesystem.QualFile, err error) {
	iniName, err := wire.NewFixedString(wire.FileNameWidth, fmt.Sprintf("slot_%d.ini", slot.Value()))
	if err != nil {
		return filesystem.QualFile{}, filesystem.QualFile{}, err
	}
	binName, err := wire.NewFixedString(wire.FileNameWidth, fmt.Sprintf("slot_%d.bin", slot.Value()))
	if err != nil {
		return filesystem.QualFile{}, filesystem.QualFile{}, err
	}
	iniType, err := wire.NewFixedString(wire.FileTypeWidth, "ini")
	if err != nil {
		return filesystem.QualFile{}, filesystem.QualFile{}, err
	}
	binType, err := wire.NewFixedString(wire.FileTypeWidth, "bin")
	if err != nil {
		return filesystem.QualFile{}, filesystem.QualFile{}, err
	}
	ini = filesystem.QualFile{QualFileName: filesystem.QualFileName{Category: filesystem.DefaultCategory, Name: iniName}, Type: iniType}
	bin = filesystem.QualFile{QualFileName: filesystem.QualFileName{Category: filesystem.DefaultCategory, Name: binName}, Type: binType}
	return ini, bin, nil
}

// Get reads and parses slot's metadata file. A nil *ProgramIni with a nil
// error means the slot is empty (base-spec Design Notes, SPEC_FULL §11),
// grounded on original_source/src/program/mod.rs's get().
func Get(dev *device.Device, slot SlotNumber) (*ProgramIni, error) {
	ini, _, err := qualFiles(slot)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	readErr := dev.ReadFileToStream(ini, &buf, filesystem.ReadArgs{IgnoreCRC: true})
	if readErr != nil {
		if isAbsent(readErr) {
			return nil, nil
		}
		return nil, readErr
	}
	parsed, err := decodeIni(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("reading program slot %d: %w", slot.Value(), err)
	}
	return &parsed, nil
}

// isAbsent reports whether err indicates the underlying file simply does
// not exist, as opposed to a transport or protocol failure. ReadFileToStream
// wraps "file not found" as a plain error rather than a sentinel, so string
// matching is this package's only option without widening pkg/device's API.
func isAbsent(err error) bool {
	return err != nil && bytes.Contains([]byte(err.Error()), []byte("file not found"))
}

// GetAll probes every slot and returns the 8-element result in slot order
// (index i holds slot i+1); an empty slot's element is nil.
func GetAll(dev *device.Device) ([NumSlots]*ProgramIni, error) {
	var result [NumSlots]*ProgramIni
	for i := 0; i < NumSlots; i++ {
		slot, err := SlotNumberFromIndex(i)
		if err != nil {
			return result, err
		}
		entry, err := Get(dev, slot)
		if err != nil {
			return result, err
		}
		result[i] = entry
	}
	return result, nil
}

// Remove deletes slot's .ini file and its .bin payload file, the latter with
// the linked-file delete option set to includeLinked; an absent .ini does
// not short-circuit deleting the .bin. The bool
// return reports whether either delete found something to remove
// (base-spec Design Notes, SPEC_FULL §11), grounded on
// original_source/src/program/mod.rs's remove().
func Remove(dev *device.Device, slot SlotNumber, includeLinked bool) (bool, error) {
	ini, bin, err := qualFiles(slot)
	if err != nil {
		return false, err
	}
	iniDeleted, err := dev.DeleteFile(ini.QualFileName, filesystem.DeleteArgs{})
	if err != nil {
		return false, err
	}
	binDeleted, err := dev.DeleteFile(bin.QualFileName, filesystem.DeleteArgs{IncludeLinked: includeLinked})
	if err != nil {
		return false, err
	}
	return iniDeleted || binDeleted, nil
}

// RemoveAll removes every slot, always including linked files, discarding
// the per-slot "was anything there" result (original's remove_all()).
func RemoveAll(dev *device.Device) error {
	for i := 1; i <= NumSlots; i++ {
		slot, err := NewSlotNumber(i)
		if err != nil {
			return err
		}
		if _, err := Remove(dev, slot, true); err != nil {
			return fmt.Errorf("removing slot %d: %w", i, err)
		}
	}
	return nil
}

// Run executes slot's uploaded program, delegating to the device façade's
// generic file-execute operation against the slot's .bin payload file. This
// has no original_source analogue (the reference tool's CLI calls a
// program::run that the library crate never actually defines) but follows
// naturally from qualFiles and the execute-by-name primitive.
func Run(dev *device.Device, slot SlotNumber) error {
	_, bin, err := qualFiles(slot)
	if err != nil {
		return err
	}
	return dev.ExecuteFile(bin.QualFileName)
}

// Put encodes p and uploads it as slot's .ini metadata file, overwriting
// any existing one. This has no original_source analogue (the reference
// tool only ever reads slots) but follows naturally from the read path and
// lets callers create/update program metadata from this package alone.
func Put(dev *device.Device, p ProgramIni) error {
	ini, _, err := qualFiles(p.Slot)
	if err != nil {
		return err
	}
	data := encodeIni(p)
	return dev.WriteFileFromSlice(ini, data, filesystem.WriteArgs{Overwrite: true})
}
