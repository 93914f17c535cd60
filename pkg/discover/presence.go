package discover

import (
	"errors"

	"github.com/V5Reveng/cli/pkg/device"
)

// ErrNoDevices and ErrManyDevices are NotOne's two cases (base-spec Design
// Notes, SPEC_FULL §11), grounded on original_source/lib/src/util/presence.rs.
var (
	ErrNoDevices   = errors.New("no uploadable devices were found")
	ErrManyDevices = errors.New("multiple uploadable devices were found; specify one with --device")
)

// Resolve applies the device-selection policy to a list of open devices:
// exactly one candidate succeeds, zero or more than one is an error naming
// which case occurred.
func Resolve(devices []*device.Device) (*device.Device, error) {
	switch len(devices) {
	case 0:
		return nil, ErrNoDevices
	case 1:
		return devices[0], nil
	default:
		return nil, ErrManyDevices
	}
}
