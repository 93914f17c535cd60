package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/V5Reveng/cli/pkg/device"
)

func TestResolveNoDevices(t *testing.T) {
	_, err := Resolve(nil)
	assert.ErrorIs(t, err, ErrNoDevices)
}

func TestResolveOneDevice(t *testing.T) {
	dev := &device.Device{}
	resolved, err := Resolve([]*device.Device{dev})
	assert.NoError(t, err)
	assert.Same(t, dev, resolved)
}

func TestResolveManyDevices(t *testing.T) {
	_, err := Resolve([]*device.Device{{}, {}})
	assert.ErrorIs(t, err, ErrManyDevices)
}
