package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CaddyGlow/zmk-layout/core/generate"
	"github.com/CaddyGlow/zmk-layout/core/layout"
)

var generateOut string

var generateCmd = &cobra.Command{
	Use:   "generate <layout.json>",
	Short: "Generate DTSI keymap source and a kconfig fragment from a layout document",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "base path to write <out>.keymap and <out>.conf; defaults to the input file's stem")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var doc layout.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding layout document: %w", err)
	}

	prov, err := loadProvider()
	if err != nil {
		return err
	}

	if errs := doc.Validate(prov.ValidationRules()); errs.HasErrors() {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, "error:", e.Error())
		}
		return fmt.Errorf("layout document failed validation with %d error(s)", len(errs))
	}

	dtsi, err := generate.Generate(&doc, prov.FormatContext())
	if err != nil {
		return fmt.Errorf("generating DTSI: %w", err)
	}
	kconfig, _ := generate.GenerateKconfig(&doc, prov.KconfigOptions())

	base := generateOut
	if base == "" {
		base = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
	}

	if err := os.WriteFile(base+".keymap", []byte(dtsi), 0o644); err != nil {
		return fmt.Errorf("writing %s.keymap: %w", base, err)
	}
	if kconfig != "" {
		if err := os.WriteFile(base+".conf", []byte(kconfig), 0o644); err != nil {
			return fmt.Errorf("writing %s.conf: %w", base, err)
		}
	}
	fmt.Printf("wrote %s.keymap\n", base)
	return nil
}
