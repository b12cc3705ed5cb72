// Command zmklayout translates between a ZMK keymap's JSON layout document
// and its DTSI source form. File I/O and flag parsing live here; none of
// the core packages touch the filesystem.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zmklayout",
	Short: "zmklayout: bidirectional ZMK keymap <-> layout document translator",
	Long: `zmklayout translates a ZMK keyboard keymap between its DTSI source
form and a structured JSON layout document, and provides a small set of
layer-editing operations over the JSON form.`,
}

var (
	profilePath string
	noColor     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "path to a YAML keyboard profile (compatible strings, format, validation rules)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI color output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
