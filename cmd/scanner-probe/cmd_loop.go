package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var loopDebounce time.Duration

var loopCmd = &cobra.Command{
	Use:   "loop",
	Short: "Read barcodes from stdin and submit each one",
	Long: "Reads one barcode per line from stdin. Like the camera device, a\n" +
		"repeat of the same barcode inside the debounce interval is skipped\n" +
		"on the device side before it ever reaches the server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			lastCode string
			lastSent time.Time
		)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			barcode := strings.TrimSpace(sc.Text())
			if barcode == "" {
				continue
			}
			if barcode == lastCode && time.Since(lastSent) < loopDebounce {
				continue
			}
			line, err := submit(serverURL, barcode)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			fmt.Println(line)
			lastCode, lastSent = barcode, time.Now()
		}
		return sc.Err()
	},
}

func init() {
	loopCmd.Flags().DurationVar(&loopDebounce, "debounce", 3*time.Second, "device-side repeat suppression")
}
