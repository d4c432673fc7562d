package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"churn-prediction/backend/internal/model"
)

// ModelInfo describes a loaded artifact.
type ModelInfo struct {
	Path    string   `json:"path"`
	Kind    string   `json:"kind"`
	Width   int      `json:"width"`
	Columns []string `json:"columns"`
}

// NewModelCommand creates the model command group.
func NewModelCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Model artifact commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:           "inspect",
		Short:         "Load the artifact and print its estimator kind and encoded feature layout",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := model.Load(rootOpts.ModelPath)
			if err != nil {
				return err
			}
			info := ModelInfo{Path: rootOpts.ModelPath, Kind: a.Kind(), Columns: a.Columns()}
			info.Width = len(info.Columns)
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "path:    %s\nkind:    %s\nwidth:   %d\ncolumns: %s\n",
				info.Path, info.Kind, info.Width, strings.Join(info.Columns, ", "))
			return err
		},
	})
	return cmd
}
