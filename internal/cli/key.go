package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/incidentops/cache"
)

// NewKeyCmd creates the 'key' command.
func NewKeyCmd() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "key TEXT...",
		Short: "Print the cache key for a note",
		Example: `  incidentops key "Fire at 5th and Main"
  incidentops key --namespace incident_history "Fire at 5th and Main"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := cache.ComputeKey(strings.Join(args, " "))
			if namespace != "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), cache.StorageKey(namespace, k))
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), k)
			return err
		},
	}

	cmd.Flags().StringVar(&namespace, "namespace", "", "Print the namespaced storage key")
	return cmd
}
