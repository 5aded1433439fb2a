package cmd

import (
	"fmt"

	"github.com/oulink/goulink"
	"github.com/spf13/cobra"
)

var speedKhz uint32

var speedCmd = &cobra.Command{
	Use:   "speed",
	Short: "Select the adapter's TCK rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := goulink.Khz(speedKhz)
		if err != nil {
			return err
		}

		d, err := goulink.Open()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Speed(index); err != nil {
			return err
		}

		actual, _ := goulink.SpeedDiv(index)
		fmt.Printf("selected divider %d (%d kHz)\n", index, actual)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(speedCmd)
	speedCmd.Flags().Uint32Var(&speedKhz, "khz", 150, "requested TCK frequency in kHz")
}
