// Package discover enumerates USB serial ports and classifies which of
// them are V5 devices a program can be uploaded to, supplementing the base
// spec per SPEC_FULL.md §11, grounded on
// original_source/lib/src/device/discover/{error,uploadable_info}.rs and
// original_source/src/device/discover/{classification,usb_port}.rs.
package discover

import (
	"fmt"
	"path/filepath"

	"go.bug.st/serial"
)

// USB vendor/product IDs VEX assigns its uploadable devices
// (original_source/src/device/discover/classification.rs).
const (
	vexVendorID        = 0x2888
	controllerProductID = 0x0503
	brainProductID       = 0x0501
)

// UploadableType is the kind of uploadable device a port was classified as.
type UploadableType int

const (
	TypeBrain UploadableType = iota
	TypeController
)

func (t UploadableType) String() string {
	switch t {
	case TypeBrain:
		return "brain"
	case TypeController:
		return "controller"
	default:
		return "unknown"
	}
}

// UploadableInfo is one USB serial port classified as an uploadable V5
// device.
type UploadableInfo struct {
	Name string
	Type UploadableType
}

func classify(vid, pid string) (UploadableType, bool) {
	if !equalHexID(vid, vexVendorID) {
		return 0, false
	}
	switch {
	case equalHexID(pid, controllerProductID):
		return TypeController, true
	case equalHexID(pid, brainProductID):
		return TypeBrain, true
	default:
		return 0, false
	}
}

func equalHexID(s string, want int) bool {
	var value int
	if _, err := fmt.Sscanf(s, "%x", &value); err != nil {
		return false
	}
	return value == want
}

// GetAll enumerates every USB serial port on the system and returns the
// subset that classify as an uploadable VEX device (base-spec Design Notes,
// SPEC_FULL §11).
func GetAll() ([]UploadableInfo, error) {
	ports, err := serial.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("listing serial ports: %w", err)
	}
	var found []UploadableInfo
	for _, port := range ports {
		if !port.IsUSB {
			continue
		}
		if kind, ok := classify(port.VID, port.PID); ok {
			found = append(found, UploadableInfo{Name: port.Name, Type: kind})
		}
	}
	return found, nil
}

// ErrPathNotValid means a path exists but does not refer to an uploadable
// VEX serial port.
var ErrPathNotValid = fmt.Errorf("path does not refer to a valid uploadable device")

// FromPath resolves a user-supplied device path against the set of
// uploadable ports, failing with ErrPathNotValid if path isn't one of them
// (original_source's TryFrom<&Path>, simplified: existence is implied by
// appearing in the enumerated port list rather than checked separately).
func FromPath(path string) (UploadableInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return UploadableInfo{}, err
	}
	all, err := GetAll()
	if err != nil {
		return UploadableInfo{}, err
	}
	for _, info := range all {
		if info.Name == path || info.Name == abs {
			return info, nil
		}
	}
	return UploadableInfo{}, ErrPathNotValid
}
