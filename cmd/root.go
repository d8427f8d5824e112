package cmd

import (
	"fmt"
	"os"

	"github.com/itsmostafa/gokernel/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gokernel",
	Short: "Persistent-context code execution kernel",
	Long: `gokernel is an embeddable execution kernel: a front-end sends one JSON
request per stdin line ({"code": "..."}) and receives one JSON response per
stdout line ({"stdout": ..., "stderr": ..., "error": ...}). Variable and
function definitions accumulate in a single context for the life of the
process.`,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("gokernel %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
