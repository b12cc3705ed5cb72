package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CaddyGlow/zmk-layout/core/pipeline"
)

var (
	parseTemplate bool
	parseOut      string
)

var parseCmd = &cobra.Command{
	Use:   "parse <keymap-file>",
	Short: "Parse a DTSI keymap file into a JSON layout document",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseTemplate, "template", false, "parse in template-aware mode, stripping the profile's known includes")
	parseCmd.Flags().StringVarP(&parseOut, "out", "o", "", "write the layout document here instead of stdout")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	prov, err := loadProvider()
	if err != nil {
		return err
	}

	mode := pipeline.ModeFull
	if parseTemplate {
		mode = pipeline.ModeTemplate
	}
	result := pipeline.Run(context.Background(), string(src), pipeline.WithMode(mode), pipeline.WithConfigurationProvider(prov))

	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w.Error())
	}
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, "error:", e.Error())
	}
	if !result.Success {
		return fmt.Errorf("parse failed with %d error(s)", len(result.Errors))
	}

	out, err := json.MarshalIndent(result.Layout, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding layout document: %w", err)
	}
	if parseOut == "" {
		fmt.Println(string(out))
		return nil
	}
	return os.WriteFile(parseOut, append(out, '\n'), 0o644)
}
