package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"procurement-flow/internal/features/workflow/domain"
)

// CheckCmd returns the check command
func CheckCmd() *cobra.Command {
	var (
		fromStatus string
		toStatus   string
		formPath   string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a status transition offline",
		Long: `Validate a status transition against the workflow rules without
touching the API, and print the payload that a submission would PATCH.

The form file is a JSON document with the edit form's field names, e.g.:

  {"courierName": "S.F. Express", "trackingNumber": "SF123"}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := domain.ParseStatus(fromStatus)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			to, err := domain.ParseStatus(toStatus)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}

			var form domain.FormState
			if formPath != "" {
				raw, err := os.ReadFile(formPath)
				if err != nil {
					return fmt.Errorf("failed to read form file: %w", err)
				}
				if err := json.Unmarshal(raw, &form); err != nil {
					return fmt.Errorf("failed to parse form file: %w", err)
				}
			}

			if domain.RequiresReceivingConfirmation(from, to) {
				color.Yellow("note: %s -> %s also requires item-level receiving confirmation", from, to)
			}

			result := domain.ValidateTransition(from, to, form)
			if !result.IsValid {
				color.Red("invalid transition %s -> %s:", from, to)
				for _, msg := range result.Errors {
					fmt.Printf("  - %s\n", msg)
				}
				return fmt.Errorf("%d validation error(s)", len(result.Errors))
			}

			payload := domain.BuildPayload(from, to, form)
			pretty, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode payload: %w", err)
			}

			color.Green("valid transition %s -> %s", from, to)
			fmt.Println(string(pretty))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStatus, "from", "", "Current status")
	cmd.Flags().StringVar(&toStatus, "to", "", "Target status")
	cmd.Flags().StringVar(&formPath, "form", "", "Path to a JSON file with the form fields")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
