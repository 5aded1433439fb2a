package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/oulink/goulink"
	"github.com/spf13/cobra"
)

var (
	scanIR    bool
	scanBits  int
	scanTDI   string
	scanEnd   string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Shift a single IR or DR scan and print the captured TDO bits",
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanIR, "ir", false, "scan the instruction register instead of a data register")
	scanCmd.Flags().IntVar(&scanBits, "bits", 0, "number of bits to scan (required)")
	scanCmd.Flags().StringVar(&scanTDI, "tdi", "", "hex-encoded bits to drive onto TDI (scan-out/scan-io)")
	scanCmd.Flags().StringVar(&scanEnd, "end", "idle", "TAP end state: idle, irpause, or drpause")
	scanCmd.MarkFlagRequired("bits")
}

func runScan(cmd *cobra.Command, args []string) error {
	endState, err := parseEndState(scanEnd)
	if err != nil {
		return err
	}

	kind := goulink.ScanDR
	if scanIR {
		kind = goulink.ScanIR
	}

	byteLen := (scanBits + 7) / 8
	tdo := make([]byte, byteLen)

	scanType := goulink.ScanTypeIn
	var tdi []byte
	if scanTDI != "" {
		tdi, err = hex.DecodeString(scanTDI)
		if err != nil {
			return fmt.Errorf("decoding --tdi: %w", err)
		}
		scanType = goulink.ScanTypeIO
	}

	d, err := goulink.Open()
	if err != nil {
		return err
	}
	defer d.Close()

	req := &goulink.ScanRequest{
		Kind:     kind,
		Type:     scanType,
		Bits:     scanBits,
		TDI:      tdi,
		TDO:      tdo,
		EndState: endState,
	}

	if err := d.ExecuteQueue([]goulink.Request{req}); err != nil {
		return err
	}

	fmt.Println(hex.EncodeToString(tdo))
	return nil
}

func parseEndState(name string) (goulink.TapState, error) {
	switch name {
	case "idle":
		return goulink.TapIdle, nil
	case "irpause":
		return goulink.TapPauseIR, nil
	case "drpause":
		return goulink.TapPauseDR, nil
	default:
		return 0, fmt.Errorf("unknown end state %q (want idle, irpause, or drpause)", name)
	}
}
