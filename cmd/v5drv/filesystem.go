package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/V5Reveng/cli/pkg/device"
	"github.com/V5Reveng/cli/pkg/filesystem"
	"github.com/V5Reveng/cli/pkg/protocol"
)

var filesystemCmd = &cobra.Command{
	Use:   "filesystem",
	Short: "Browse and transfer files on the device",
}

func init() {
	filesystemCmd.AddCommand(filesystemLsCmd)
	filesystemCmd.AddCommand(filesystemCatCmd)
	filesystemCmd.AddCommand(filesystemRmCmd)
	filesystemCmd.AddCommand(filesystemInfoCmd)

	filesystemCatCmd.Flags().BoolP("raw", "r", false, "skip the post-transfer content CRC check")
	filesystemRmCmd.Flags().BoolP("include-linked", "l", false, "also delete the file linked to this file, if one exists")
}

var filesystemLsCmd = &cobra.Command{
	Use:   "ls [category]",
	Short: "List files in a category, or all named categories",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dev := openDevice("cmd/v5drv/filesystem")
		defer dev.Close()

		if len(args) == 1 {
			category, err := filesystem.ParseCategory(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			listInCategory(dev, category)
			return
		}
		for _, category := range filesystem.NamedCategories() {
			fmt.Printf("Category: %s\n", category)
			listInCategory(dev, category)
			fmt.Println()
		}
	},
}

func listInCategory(dev *device.Device, category filesystem.Category) {
	files, err := dev.ListAllFiles(category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "listing files in category %s: %v\n", category, err)
		os.Exit(1)
	}
	fmt.Printf("Num files: %d\n", len(files))
	fmt.Println("Address     Mtime                       Version  Size   Type  Name")
	fmt.Println()
	for _, meta := range files {
		fmt.Printf("0x%08x  %-26s  %8s  %-5d  %-4s  %s\n",
			uint32(meta.Address), meta.Timestamp.Format("2006-01-02 15:04:05"), meta.Version, meta.Size, meta.FileType, meta.Name)
	}
}

var filesystemCatCmd = &cobra.Command{
	Use:   "cat <file>",
	Short: "Output the contents of a file",
	Long:  `Output the contents of a file. To "pull" a file from the device, add " > local.file" to the command line.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file, err := filesystem.ParseQualFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		raw, _ := cmd.Flags().GetBool("raw")

		dev := openDevice("cmd/v5drv/filesystem")
		defer dev.Close()

		err = dev.ReadFileToStream(file, os.Stdout, filesystem.ReadArgs{IgnoreCRC: raw})
		if response, ok := protocol.NackResponse(err); ok && response.IsAbsenceNack() {
			fmt.Fprintln(os.Stderr, "File does not exist")
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

var filesystemRmCmd = &cobra.Command{
	Use:   "rm <file>",
	Short: "Delete a file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file, err := filesystem.ParseQualFileName(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		includeLinked, _ := cmd.Flags().GetBool("include-linked")

		dev := openDevice("cmd/v5drv/filesystem")
		defer dev.Close()

		deleted, err := dev.DeleteFile(file, filesystem.DeleteArgs{IncludeLinked: includeLinked})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !deleted {
			fmt.Fprintln(os.Stderr, "No such file or directory")
			os.Exit(1)
		}
	},
}

var filesystemInfoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print a file's metadata",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file, err := filesystem.ParseQualFileName(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		dev := openDevice("cmd/v5drv/filesystem")
		defer dev.Close()

		metadata, ok, err := dev.GetFileMetadataByName(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "getting file metadata: %v\n", err)
			os.Exit(1)
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "File does not exist")
			os.Exit(1)
		}

		fmt.Printf("Size: %d\n", metadata.Size)
		fmt.Printf("Address: 0x%08x\n", uint32(metadata.Address))
		fmt.Printf("File type: %s\n", metadata.FileType)
		fmt.Printf("Last modified: %s\n", metadata.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Printf("Version: %s\n", metadata.Version)
		fmt.Printf("Is link: %v\n", metadata.IsLink())
		if linkCategory, linkName, ok := metadata.Link(); ok {
			fmt.Printf("Linked category: %s\n", linkCategory)
			fmt.Printf("Linked filename: %s\n", linkName)
		}
	},
}
