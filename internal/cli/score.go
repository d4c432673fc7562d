package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"churn-prediction/backend/internal/feature"
	"churn-prediction/backend/internal/model"
	predictionhandler "churn-prediction/backend/internal/prediction/handler"
	"churn-prediction/backend/internal/prediction/service"
)

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "score <file.csv>",
		Short: "Score a customer CSV without touching the database",
		Long: `Score a customer CSV with the same lenient parsing and summary as POST /predict/batch.

Nothing is persisted. JSON output has the same shape as the API response.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, rootOpts, args[0], top)
		},
	}
	cmd.Flags().IntVar(&top, "top", 10, "rows of the preview to print in text format")
	return cmd
}

func runScore(cmd *cobra.Command, opts *RootOptions, path string, top int) error {
	artifact, err := model.Load(opts.ModelPath)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := feature.ReadCSV(f)
	if err != nil {
		return err
	}
	probs, err := artifact.PredictProba(rows)
	if err != nil {
		return fmt.Errorf("model prediction failed: %w", err)
	}
	out := service.Summarize(rows, probs)

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), predictionhandler.NewBatchResponse(out))
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "total processed:\t%d\n", out.Total)
	fmt.Fprintf(w, "high risk:\t%d\n\n", out.HighRisk)
	fmt.Fprintln(w, "CUSTOMER\tPROBABILITY\tRISK")
	for i, it := range out.Preview {
		if i >= top {
			break
		}
		fmt.Fprintf(w, "%s\t%.4f\t%s\n", it.CustomerID, it.Probability, it.Risk)
	}
	return w.Flush()
}
