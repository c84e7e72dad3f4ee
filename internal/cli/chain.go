package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	flowadapter "procurement-flow/internal/features/flows/adapters"
	flowdomain "procurement-flow/internal/features/flows/domain"
)

var stepColors = map[string]*color.Color{
	"gray":   color.New(color.FgHiBlack),
	"blue":   color.New(color.FgBlue),
	"yellow": color.New(color.FgYellow),
	"orange": color.New(color.FgHiYellow),
	"purple": color.New(color.FgMagenta),
	"teal":   color.New(color.FgCyan),
	"green":  color.New(color.FgGreen),
	"red":    color.New(color.FgRed),
}

func colorFor(name string) *color.Color {
	if c, ok := stepColors[name]; ok {
		return c
	}
	return color.New(color.Reset)
}

// ChainCmd returns the chain command
func ChainCmd() *cobra.Command {
	var flowPath string

	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Print the procurement fulfillment chain",
		Long: `Print the ordered fulfillment chain with its display labels and colors.

By default the built-in chain is shown; pass --flow to render a custom
status flow file instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flow := flowdomain.Default()
			if flowPath != "" {
				loaded, err := flowadapter.LoadFlow(flowPath)
				if err != nil {
					return err
				}
				flow = loaded
			}

			for i, step := range flow.Steps {
				label := colorFor(step.Color).Sprint(step.Label)
				fmt.Printf("%2d. %s (%s)\n", i+1, label, step.Value)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flowPath, "flow", "f", "", "Path to a status flow YAML file")

	return cmd
}
