package cli

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/incidentops/classifier"
)

// NewSubmitCmd creates the 'submit' command.
func NewSubmitCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit TEXT...",
		Short: "Classify one note and print the result as JSON",
		Long: `Submit a dispatch note through the deduplicating coordinator against the
configured database. Prints the classified incident, or null when an
internal fault prevented a result.`,
		Example: `  incidentops submit "Two-car collision at 5th and Main, one injured"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, true)
			if err != nil {
				return err
			}
			a, err := newApp(ctx, cfg, version, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(ctx) }()

			res, err := a.coordinator.Submit(ctx, strings.Join(args, " "))
			if errors.Is(err, classifier.ErrInvalidInput) {
				return errors.New("note must be at least 5 characters")
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	return cmd
}
