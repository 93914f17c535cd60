package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/V5Reveng/cli/pkg/filesystem"
	"github.com/V5Reveng/cli/pkg/program"
)

var programCmd = &cobra.Command{
	Use:   "program",
	Short: "Interact with programs and execution",
}

func init() {
	programCmd.AddCommand(programListCmd)
	programCmd.AddCommand(programInfoCmd)
	programCmd.AddCommand(programRunCmd)
	programCmd.AddCommand(programStopCmd)
	programCmd.AddCommand(programRemoveCmd)

	programListCmd.Flags().BoolP("only-present", "p", false, "only print slots with a program uploaded")
	programRunCmd.Flags().BoolP("raw", "r", false, "interpret the slot argument as a qualified filename rather than a slot number")
	programRemoveCmd.Flags().BoolP("all", "a", false, "remove every slot, ignoring the slot list")
	programRemoveCmd.Flags().BoolP("ignore-empty", "i", false, "don't complain if a given slot is already empty")
}

var programListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded programs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		onlyPresent, _ := cmd.Flags().GetBool("only-present")

		dev := openDevice("cmd/v5drv/program")
		defer dev.Close()

		programs, err := program.GetAll(dev)
		if err != nil {
			fmt.Fprintf(os.Stderr, "getting program list: %v\n", err)
			os.Exit(1)
		}
		for i, p := range programs {
			slot, _ := program.SlotNumberFromIndex(i)
			switch {
			case p != nil:
				fmt.Printf("Slot %s: %s\n", slot, p.Name)
			case !onlyPresent:
				fmt.Printf("Slot %s: (none)\n", slot)
			}
		}
	},
}

var programInfoCmd = &cobra.Command{
	Use:   "info <slot>",
	Short: "Get info for a specific slot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		slot := parseSlot(args[0])

		dev := openDevice("cmd/v5drv/program")
		defer dev.Close()

		p, err := program.Get(dev, slot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "getting program: %v\n", err)
			os.Exit(1)
		}
		if p == nil {
			fmt.Fprintf(os.Stderr, "Program in slot %s does not exist\n", slot)
			os.Exit(1)
		}
		fmt.Printf("Name: %s\n", p.Name)
		fmt.Printf("Version: %s\n", p.Version)
		fmt.Printf("Slot: %s\n", p.Slot)
		fmt.Printf("Icon: %s\n", p.Icon)
		fmt.Printf("Description: %s\n", p.Description)
		fmt.Printf("Date: %s\n", p.Date)
	},
}

var programRunCmd = &cobra.Command{
	Use:   "run <slot>",
	Short: "Run a program",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw, _ := cmd.Flags().GetBool("raw")

		dev := openDevice("cmd/v5drv/program")
		defer dev.Close()

		if raw {
			file, err := filesystem.ParseQualFileName(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if err := dev.ExecuteFile(file); err != nil {
				fmt.Fprintf(os.Stderr, "running file: %v\n", err)
				os.Exit(1)
			}
			return
		}

		slot := parseSlot(args[0])
		if err := program.Run(dev, slot); err != nil {
			fmt.Fprintf(os.Stderr, "running program: %v\n", err)
			os.Exit(1)
		}
	},
}

var programStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running program",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		dev := openDevice("cmd/v5drv/program")
		defer dev.Close()

		if err := dev.StopExecution(); err != nil {
			fmt.Fprintf(os.Stderr, "stopping execution: %v\n", err)
			os.Exit(1)
		}
	},
}

var programRemoveCmd = &cobra.Command{
	Use:   "remove [slot...]",
	Short: "Remove one or more programs",
	Run: func(cmd *cobra.Command, args []string) {
		all, _ := cmd.Flags().GetBool("all")
		ignoreEmpty, _ := cmd.Flags().GetBool("ignore-empty")

		dev := openDevice("cmd/v5drv/program")
		defer dev.Close()

		if all {
			if err := program.RemoveAll(dev); err != nil {
				fmt.Fprintf(os.Stderr, "removing all programs: %v\n", err)
				os.Exit(1)
			}
			return
		}

		seen := map[int]bool{}
		for _, arg := range args {
			slot := parseSlot(arg)
			if seen[slot.Value()] {
				continue
			}
			seen[slot.Value()] = true

			deleted, err := program.Remove(dev, slot, false)
			if err != nil {
				fmt.Fprintf(os.Stderr, "removing slot %s: %v\n", slot, err)
				os.Exit(1)
			}
			if !ignoreEmpty && !deleted {
				fmt.Fprintf(os.Stderr, "Slot %s is empty\n", slot)
				os.Exit(1)
			}
		}
	},
}

func parseSlot(s string) program.SlotNumber {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid slot number %q: %v\n", s, err)
		os.Exit(1)
	}
	slot, err := program.NewSlotNumber(n)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return slot
}
