package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "openulink-cli",
	Short: "Command-line driver for the OpenULINK JTAG adapter",
	Long: `openulink-cli talks to an OpenULINK-firmware ULINK adapter over USB.

Examples:
  openulink-cli selftest         # open the adapter, run the init self-test, print signal state
  openulink-cli scan --ir --bits 3 --tdi 02    # shift a 3-bit IR scan and print the captured bits`,
	Version: "0.1.0",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Windows consoles don't understand the ANSI escapes the prefixed
	// formatter emits for level colors; go-colorable translates them.
	log.SetOutput(colorable.NewColorableStdout())
	log.SetFormatter(&prefixed.TextFormatter{FullTimestamp: true})

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	cobra.OnInitialize(func() {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	})
}
