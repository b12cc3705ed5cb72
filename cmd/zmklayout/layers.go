package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CaddyGlow/zmk-layout/core/layout"
	"github.com/CaddyGlow/zmk-layout/core/mutate"
)

var (
	layersAdd    string
	layersAt     int
	layersRemove string
	layersMove   string
	layersTo     int
	layersOut    string
)

var layersCmd = &cobra.Command{
	Use:   "layers <layout.json>",
	Short: "List or edit the layers of a layout document",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayers,
}

func init() {
	layersCmd.Flags().StringVar(&layersAdd, "add", "", "add a new empty layer with this name")
	layersCmd.Flags().IntVar(&layersAt, "at", -1, "position for --add; defaults to the end")
	layersCmd.Flags().StringVar(&layersRemove, "remove", "", "remove the layer with this name")
	layersCmd.Flags().StringVar(&layersMove, "move", "", "move the layer with this name")
	layersCmd.Flags().IntVar(&layersTo, "to", 0, "new index for --move")
	layersCmd.Flags().StringVarP(&layersOut, "out", "o", "", "write the edited document here instead of printing layer names")
	rootCmd.AddCommand(layersCmd)
}

func runLayers(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	var doc layout.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding layout document: %w", err)
	}

	b := mutate.From(&doc)
	if layersAdd != "" {
		at := layersAt
		if at < 0 {
			at = len(doc.LayerNames)
		}
		b = b.AddLayer(layersAdd, at)
	}
	if layersRemove != "" {
		b = b.RemoveLayer(layersRemove)
	}
	if layersMove != "" {
		b = b.MoveLayer(layersMove, layersTo)
	}

	edited, err := b.Document()
	if err != nil {
		return fmt.Errorf("editing layers: %w", err)
	}

	if layersOut == "" && layersAdd == "" && layersRemove == "" && layersMove == "" {
		for i, name := range edited.LayerNames {
			fmt.Printf("%d: %s\n", i, name)
		}
		return nil
	}

	out, err := json.MarshalIndent(edited, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding layout document: %w", err)
	}
	if layersOut == "" {
		fmt.Println(string(out))
		return nil
	}
	return os.WriteFile(layersOut, append(out, '\n'), 0o644)
}
