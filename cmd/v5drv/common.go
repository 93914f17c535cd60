package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/V5Reveng/cli/internal/obslevel"
	"github.com/V5Reveng/cli/pkg/device"
	"github.com/V5Reveng/cli/pkg/discover"
)

// loggerFor builds a per-module *slog.Logger honoring V5_LOG
// (internal/obslevel, SPEC_FULL.md §9). A malformed V5_LOG is a usage
// error, so it fails the process immediately rather than silently
// defaulting.
func loggerFor(module string) *slog.Logger {
	cfg, err := obslevel.Parse(os.Getenv(obslevel.EnvVar))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid %s: %v\n", obslevel.EnvVar, err)
		os.Exit(1)
	}
	handler := obslevel.New(slog.NewTextHandler(os.Stderr, nil), cfg, module)
	return slog.New(handler)
}

// openDeviceOpts builds the device.Options common to every subcommand's
// device connection: the module-tagged logger plus --baud.
func openDeviceOpts(module string) []device.Option {
	return []device.Option{
		device.WithLogger(loggerFor(module)),
		device.WithBaud(baudRate),
	}
}

// openDevice resolves --device (or, if unset, the single connected
// uploadable device) and opens it, exiting the process on failure — the
// same "expect one device, else explain and quit" policy as the reference
// CLI's unwrap_device_presence helper.
func openDevice(module string) *device.Device {
	opts := openDeviceOpts(module)
	if devicePath != "" {
		dev, err := device.Open(devicePath, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening %s: %v\n", devicePath, err)
			os.Exit(1)
		}
		return dev
	}

	infos, err := discover.GetAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "listing serial ports: %v\n", err)
		os.Exit(1)
	}

	var opened []*device.Device
	for _, info := range infos {
		dev, err := device.Open(info.Name, opts...)
		if err != nil {
			continue
		}
		opened = append(opened, dev)
	}

	resolved, err := discover.Resolve(opened)
	if err != nil {
		for _, dev := range opened {
			dev.Close()
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, dev := range opened {
		if dev != resolved {
			dev.Close()
		}
	}
	return resolved
}
