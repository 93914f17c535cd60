package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/V5Reveng/cli/pkg/discover"
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Query device information",
}

func init() {
	deviceCmd.AddCommand(deviceInfoCmd)
	deviceCmd.AddCommand(deviceListCmd)
	deviceCmd.AddCommand(deviceScreenCaptureCmd)
}

var deviceInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print device info",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		dev := openDevice("cmd/v5drv/device")
		defer dev.Close()

		devInfo, err := dev.DeviceInfo()
		if err != nil {
			fmt.Fprintf(os.Stderr, "getting device info: %v\n", err)
			os.Exit(1)
		}
		extInfo, err := dev.ExtendedDeviceInfo()
		if err != nil {
			fmt.Fprintf(os.Stderr, "getting extended device info: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Device type: %s\n", devInfo.Product)
		fmt.Printf("System version: %s\n", devInfo.Version)
		fmt.Printf("CPU versions: %s %s\n", extInfo.CPU0Version, extInfo.CPU1Version)
		fmt.Printf("Touch version: %d\n", extInfo.TouchVersion)
		fmt.Printf("System ID: %08x\n", extInfo.SystemID)
	},
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connected devices",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		infos, err := discover.GetAll()
		if err != nil {
			fmt.Fprintf(os.Stderr, "listing serial ports: %v\n", err)
			os.Exit(1)
		}
		for _, info := range infos {
			fmt.Printf("Device %s of type %s\n", info.Name, info.Type)
		}
	},
}

var deviceScreenCaptureCmd = &cobra.Command{
	Use:   "screen-capture [output]",
	Short: "Take a screen capture of the device, in PNG format",
	Long:  `Take a screen capture of the device, in PNG format. If output is omitted, or is "-", the PNG data is written to standard output.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dev := openDevice("cmd/v5drv/device")
		defer dev.Close()

		out := os.Stdout
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Create(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "creating output file: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			out = f
		}

		if err := dev.CaptureScreen(out); err != nil {
			fmt.Fprintf(os.Stderr, "capturing screen: %v\n", err)
			os.Exit(1)
		}
	},
}
