package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the nidsmon client.
// It registers the monitor command group.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "nidsmon",
		Short: "nidsmon client commands",
	}
	root.AddCommand(NewMonitorCommand(baseURL))
	return root
}
