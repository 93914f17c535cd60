// Command v5drv is a command-line driver for the V5 robot brain/controller
// upload protocol, the Go-native reading of original_source/bin's CLI
// (SPEC_FULL.md §11), grounded on Zate-go-at2plus/cmd/at2plus/{main,commands}.go
// for its cobra subcommand shape.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/V5Reveng/cli/pkg/device"
)

var rootCmd = &cobra.Command{
	Use:   "v5drv",
	Short: "Upload and manage programs on a VEX V5 brain or controller",
	Long:  `v5drv talks the V5 upload protocol directly over a USB-CDC serial link to query device information, browse and transfer files, and manage program slots.`,
}

var (
	devicePath string
	baudRate   int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&devicePath, "device", "d", "", "path to the serial device; if omitted, the single connected uploadable device is used")
	rootCmd.PersistentFlags().IntVar(&baudRate, "baud", device.SerialBaud, "serial baud rate")

	rootCmd.AddCommand(deviceCmd)
	rootCmd.AddCommand(filesystemCmd)
	rootCmd.AddCommand(programCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
