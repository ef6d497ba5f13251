// Package main implements scanner-probe, a stand-in for the physical
// barcode scanning station. It submits scans to the server the same way
// the device does: one POST per detected barcode.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "scanner-probe",
	Short: "Simulate the barcode scanning station",
	Long: "scanner-probe submits barcode scans to the scan-to-cart server,\n" +
		"either one-shot from arguments or continuously from stdin.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:5001", "server base URL")
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(loopCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
