package device

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.bug.st/serial"

	"github.com/V5Reveng/cli/pkg/crcio"
)

// SerialBaud is the fixed baud rate this protocol runs at (base-spec §6
// "Transport"), grounded on original_source/lib/src/device/impl/from.rs's
// SERIAL_BAUD constant.
const SerialBaud = 115200

// DefaultTimeout is the default read timeout (base-spec §5 "Timeouts").
const DefaultTimeout = time.Second

// serialPort is the subset of go.bug.st/serial.Port this package needs,
// kept as a narrow interface so tests can substitute an in-memory fake
// rather than opening a real device.
type serialPort interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

var _ serialPort = (serial.Port)(nil)

// Device is the façade over one exclusively-owned serial channel. It is
// not safe for concurrent use: base-spec §5 requires exclusive ownership of
// the channel for the duration of any command or file-transfer session, and
// that ownership is "passed by unique reference into each operation," which
// this type enforces simply by not synchronizing internally.
type Device struct {
	port    serialPort
	conn    *crcio.Wrapper
	logger  *slog.Logger
	timeout time.Duration

	// inTransfer tracks the process-level "no concurrent transfer"
	// invariant from base-spec §4.4; it is not a concurrency guard (the
	// type as a whole isn't safe for concurrent use), just a same-goroutine
	// misuse check.
	inTransfer bool
}

// errTransferInProgress guards the process-level "no concurrent transfer"
// invariant (base-spec §4.4): a second file-transfer session may not be
// opened on the same Device while one is already open.
var errTransferInProgress = fmt.Errorf("a file transfer is already in progress on this device")

// beginTransfer marks a file-transfer session open, failing if one already
// is. Same-goroutine misuse check only; Device is not safe for concurrent
// use regardless (base-spec §5).
func (d *Device) beginTransfer() error {
	if d.inTransfer {
		return errTransferInProgress
	}
	d.inTransfer = true
	return nil
}

// endTransfer marks the session closed, unconditionally, so a failed
// transfer never leaves the Device permanently locked out even though the
// underlying device itself may still require a fresh start to recover.
func (d *Device) endTransfer() {
	d.inTransfer = false
}

// config collects everything an Option can influence, including the baud
// rate Open needs before the port even exists; applied once up front rather
// than threaded through both Open and newDevice separately.
type config struct {
	baud    int
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a Device at construction time, following the
// functional-options shape this codebase's CLI client package also uses.
type Option func(*config)

// WithLogger attaches a structured logger; by default a Device logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithTimeout overrides the initial read timeout (default DefaultTimeout).
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) { c.timeout = timeout }
}

// WithBaud overrides the protocol's default baud rate (SerialBaud). Present
// for callers bridging non-standard adapters; the wire protocol itself
// assumes SerialBaud (base-spec §6) and using another rate is the caller's
// own risk.
func WithBaud(baud int) Option {
	return func(c *config) { c.baud = baud }
}

func resolveConfig(opts ...Option) config {
	c := config{
		baud:    SerialBaud,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Open opens the serial port at path at the protocol's baud rate (115 200
// by default, base-spec §6 "8N1, no flow control, 115 200 baud") and
// returns a Device wrapping it, grounded on original_source's impl/from.rs
// TryFrom<&Path>.
func Open(path string, opts ...Option) (*Device, error) {
	c := resolveConfig(opts...)
	mode := &serial.Mode{
		BaudRate: c.baud,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", path, err)
	}
	return newDeviceFromConfig(port, c)
}

func newDevice(port serialPort, opts ...Option) (*Device, error) {
	return newDeviceFromConfig(port, resolveConfig(opts...))
}

func newDeviceFromConfig(port serialPort, c config) (*Device, error) {
	d := &Device{
		port:    port,
		logger:  c.logger,
		timeout: c.timeout,
	}
	if err := d.port.SetReadTimeout(d.timeout); err != nil {
		return nil, fmt.Errorf("setting initial read timeout: %w", err)
	}
	d.conn = crcio.New(d.port)
	return d, nil
}

// Close releases the underlying serial port.
func (d *Device) Close() error {
	return d.port.Close()
}

// SetTimeout updates the transport's read timeout (base-spec §5).
func (d *Device) SetTimeout(timeout time.Duration) error {
	if err := d.port.SetReadTimeout(timeout); err != nil {
		return err
	}
	d.timeout = timeout
	return nil
}

// ResetTimeout restores the default read timeout.
func (d *Device) ResetTimeout() error {
	return d.SetTimeout(DefaultTimeout)
}
