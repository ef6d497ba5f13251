package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var sendInterval time.Duration

var sendCmd = &cobra.Command{
	Use:   "send <barcode> [barcode...]",
	Short: "Submit one scan per barcode argument",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, barcode := range args {
			if i > 0 && sendInterval > 0 {
				time.Sleep(sendInterval)
			}
			line, err := submit(serverURL, barcode)
			if err != nil {
				return err
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().DurationVar(&sendInterval, "interval", 0, "pause between submissions")
}
