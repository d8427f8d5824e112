package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/itsmostafa/gokernel/internal/capture"
	"github.com/itsmostafa/gokernel/internal/config"
	"github.com/itsmostafa/gokernel/internal/engine"
	"github.com/itsmostafa/gokernel/internal/history"
	"github.com/itsmostafa/gokernel/internal/kernel"
)

var engineName string
var configPath string
var historyPath string
var verbose bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Serve the request loop on stdin/stdout",
	Long: `Read one JSON request per stdin line and write one JSON response per
stdout line until stdin reaches end-of-stream. Lines that do not decode as a
request are dropped without a response.

Exits 0 on clean end-of-stream and 1 after a fatal kernel error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if cmd.Flags().Changed("engine") {
			cfg.Engine = engineName
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose = verbose
		}
		if cmd.Flags().Changed("history") {
			cfg.History.Enabled = true
			cfg.History.Path = historyPath
		}

		streams := capture.New(os.Stdout, os.Stderr)
		eng, err := engine.New(cfg.Engine, streams)
		if err != nil {
			return err
		}

		session := uuid.NewString()
		var recorder history.Recorder
		if cfg.History.Enabled {
			store, err := history.OpenSQLite(cfg.History.Path, session, eng.Name())
			if err != nil {
				return fmt.Errorf("opening history store: %w", err)
			}
			defer store.Close()
			recorder = store
		}

		return kernel.Run(kernel.Config{
			In:      os.Stdin,
			Out:     os.Stdout,
			Diag:    os.Stderr,
			Engine:  eng,
			Context: engine.NewContext(),
			History: recorder,
			Session: session,
			Verbose: cfg.Verbose,
		})
	},
}

func init() {
	runCmd.Flags().StringVar(&engineName, "engine", "goja", "Script engine to execute code with (goja, tengo)")
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a TOML config file")
	runCmd.Flags().StringVar(&historyPath, "history", "", "Record a request transcript to this SQLite file")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Write a banner and summary to stderr")

	rootCmd.AddCommand(runCmd)
}
