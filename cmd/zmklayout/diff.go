package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/CaddyGlow/zmk-layout/core/binding"
	"github.com/CaddyGlow/zmk-layout/core/layout"
	"github.com/CaddyGlow/zmk-layout/core/pipeline"
	"github.com/CaddyGlow/zmk-layout/core/provider"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old.keymap> <new.keymap>",
	Short: "Diff two keymap files layer by layer, binding by binding",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

// ansi256Palette is the standard xterm 256-color cube plus grayscale ramp,
// used to snap a true-color pick down to the nearest terminal-safe code.
var ansi256Palette = buildAnsi256Palette()

func buildAnsi256Palette() []colorful.Color {
	steps := []float64{0, 0x5f / 255.0, 0x87 / 255.0, 0xaf / 255.0, 0xd7 / 255.0, 1.0}
	palette := make([]colorful.Color, 0, 256)
	for i := 0; i < 16; i++ {
		palette = append(palette, colorful.Color{})
	}
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				palette = append(palette, colorful.Color{R: steps[r], G: steps[g], B: steps[b]})
			}
		}
	}
	for i := 0; i < 24; i++ {
		v := float64(8+i*10) / 255.0
		palette = append(palette, colorful.Color{R: v, G: v, B: v})
	}
	return palette
}

// nearestAnsi256 maps c to the closest color in the 256-color cube/grayscale
// region (codes 16-255) by CIE94 perceptual distance, skipping the
// terminal-theme-dependent first 16 codes.
func nearestAnsi256(c colorful.Color) int {
	best, bestDist := 16, -1.0
	for i := 16; i < len(ansi256Palette); i++ {
		d := c.DistanceCIE94(ansi256Palette[i])
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func ansiColor(hex string, text string) string {
	if noColor {
		return text
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return text
	}
	code := nearestAnsi256(c)
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, text)
}

const (
	colorAdded   = "#2ecc71"
	colorRemoved = "#e74c3c"
)

func runDiff(cmd *cobra.Command, args []string) error {
	prov, err := loadProvider()
	if err != nil {
		return err
	}

	oldDoc, err := parseKeymapFile(args[0], prov)
	if err != nil {
		return err
	}
	newDoc, err := parseKeymapFile(args[1], prov)
	if err != nil {
		return err
	}

	names := unionLayerNames(oldDoc, newDoc)
	for _, name := range names {
		oldBindings, hasOld := layerByName(oldDoc, name)
		newBindings, hasNew := layerByName(newDoc, name)
		if !hasOld {
			fmt.Println(ansiColor(colorAdded, fmt.Sprintf("+ layer %s", name)))
			continue
		}
		if !hasNew {
			fmt.Println(ansiColor(colorRemoved, fmt.Sprintf("- layer %s", name)))
			continue
		}
		printBindingDiff(name, oldBindings, newBindings)
	}
	return nil
}

func parseKeymapFile(path string, prov provider.ConfigurationProvider) (*layout.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	result := pipeline.Run(context.Background(), string(src), pipeline.WithConfigurationProvider(prov))
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, "error:", e.Error())
	}
	if !result.Success {
		return nil, fmt.Errorf("%s failed to parse with %d error(s)", path, len(result.Errors))
	}
	return result.Layout, nil
}

func unionLayerNames(a, b *layout.Document) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range a.LayerNames {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range b.LayerNames {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func layerByName(d *layout.Document, name string) ([]binding.Binding, bool) {
	for i, n := range d.LayerNames {
		if n == name {
			return d.Layers[i], true
		}
	}
	return nil, false
}

func printBindingDiff(layerName string, oldB, newB []binding.Binding) {
	max := len(oldB)
	if len(newB) > max {
		max = len(newB)
	}
	var changed bool
	var lines []string
	for i := 0; i < max; i++ {
		var o, n string
		if i < len(oldB) {
			o = binding.Format(oldB[i])
		}
		if i < len(newB) {
			n = binding.Format(newB[i])
		}
		if o == n {
			continue
		}
		changed = true
		if o != "" {
			lines = append(lines, ansiColor(colorRemoved, fmt.Sprintf("  [%d] - %s", i, o)))
		}
		if n != "" {
			lines = append(lines, ansiColor(colorAdded, fmt.Sprintf("  [%d] + %s", i, n)))
		}
	}
	if !changed {
		return
	}
	fmt.Printf("layer %s:\n%s\n", layerName, strings.Join(lines, "\n"))
}
