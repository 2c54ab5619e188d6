package main

import (
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dashctl",
		Short:         "Offline access to the weather, table and sentiment dashboards",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	log.SetFlags(0)

	root.AddCommand(
		newForecastCmd(),
		newCurrentCmd(),
		newSentimentCmd(),
		newTableCmd(),
	)
	return root
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
