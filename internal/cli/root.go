package cli

import "github.com/spf13/cobra"

// NewRootCmd creates the incidentops command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "incidentops",
		Short: "Incident dispatch classification service",
		Long: `incidentops classifies free-text dispatch notes into structured incidents.

Identical notes (after trimming and lower-casing) are answered from a
content-addressed cache for 24 hours; new notes are sent to the
classification service with bounded retry and a fallback result.

Configuration is read from INCIDENTOPS_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(NewServeCmd(version))
	root.AddCommand(NewSubmitCmd(version))
	root.AddCommand(NewKeyCmd())
	root.AddCommand(NewTokenCmd())
	return root
}
