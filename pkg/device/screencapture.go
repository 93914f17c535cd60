package device

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/V5Reveng/cli/pkg/filesystem"
	"github.com/V5Reveng/cli/pkg/protocol"
	"github.com/V5Reveng/cli/pkg/wire"
)

// Screen capture geometry (base-spec §4.5), grounded on
// original_source/lib/src/device/impl/screen_capture.rs.
const (
	ScreenWidth       = 512
	ScreenHeight      = 272
	ScreenChannels    = 4 // BGRA, one byte per channel
	ActualScreenWidth = 480
	screenTotalSize   = ScreenWidth * ScreenHeight * ScreenChannels
)

// PrepareScreenCapture arms the device to serve a screen capture on the
// next read of the synthetic screen-capture file (base-spec §4.5).
func (d *Device) PrepareScreenCapture() error {
	_, err := protocol.ExtendedCommand(d.conn, cmdPrepareScreenCap, nil)
	return err
}

// CaptureScreen is the full screen-capture sequence: arm the device, then
// receive and encode the frame, matching original_source's
// public.rs::capture_screen composing prepare_screen_capture and
// receive_screen_capture.
func (d *Device) CaptureScreen(output io.Writer) error {
	if err := d.PrepareScreenCapture(); err != nil {
		return err
	}
	return d.ReceiveScreenCapture(output)
}

// ReceiveScreenCapture reads the raw BGRA framebuffer from the device,
// crops it from ScreenWidth to ActualScreenWidth, drops the alpha channel,
// and writes the result to output as a PNG image (base-spec §4.5).
func (d *Device) ReceiveScreenCapture(output io.Writer) error {
	size := filesystem.FileSize(screenTotalSize)
	var address filesystem.Address = 0

	emptyName, err := wire.NewFixedString(wire.FileNameWidth, "")
	if err != nil {
		return err
	}
	emptyType, err := wire.NewFixedString(wire.FileTypeWidth, "")
	if err != nil {
		return err
	}

	if err := d.setChannel(filesystem.ChannelFileTransfer); err != nil {
		return err
	}
	defer d.setChannel(filesystem.ChannelPit)

	var raw bytes.Buffer
	err = d.ReadFileToStream(
		filesystem.QualFile{QualFileName: filesystem.QualFileName{Category: filesystem.CategorySystem, Name: emptyName}, Type: emptyType},
		&raw,
		filesystem.ReadArgs{
			Target:    filesystem.TargetScreen,
			Address:   &address,
			Size:      &size,
			IgnoreCRC: true,
		},
	)
	if err != nil {
		return err
	}

	return encodeScreenCapturePNG(raw.Bytes(), output)
}

// encodeScreenCapturePNG performs the BGRA -> cropped RGB -> PNG pipeline,
// matching original_source/bin/src/commands/device/screen_capture.rs's
// ScreenCapturePipeline.
func encodeScreenCapturePNG(raw []byte, output io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, ActualScreenWidth, ScreenHeight))
	for y := 0; y < ScreenHeight; y++ {
		rowStart := y * ScreenWidth * ScreenChannels
		for x := 0; x < ActualScreenWidth; x++ {
			pixelStart := rowStart + x*ScreenChannels
			b := raw[pixelStart]
			g := raw[pixelStart+1]
			r := raw[pixelStart+2]
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return png.Encode(output, img)
}
