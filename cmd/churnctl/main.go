// churnctl scores CSV files offline and inspects model artifacts.
package main

import (
	"fmt"
	"os"

	"churn-prediction/backend/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "churnctl:", err)
		os.Exit(1)
	}
}
