package cmd

import (
	"fmt"

	"github.com/oulink/goulink"
	"github.com/spf13/cobra"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Open the adapter, run its init self-test, and report signal state",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := goulink.Open()
		if err != nil {
			return err
		}
		defer d.Close()

		fmt.Println("adapter opened and self-test passed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}
