package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

// envStoreKey holds the base64 encoded key that encrypts persisted runs.
const envStoreKey = "ARBOR_STORE_KEY"

func newRunCmd() *cobra.Command {
	var opts cli.RunOptions

	runCmd := &cobra.Command{
		Use:   "run <app.yaml>",
		Short: "Run an application document interactively",
		Long: `Compiles the application document, validates the module graph and runs it against the terminal.
With --run-id the captured inputs are persisted (to --store-dir, or to redis with --redis-addr) and restored on the next run.
Set ` + envStoreKey + ` to a base64 encoded 32 byte key to encrypt persisted inputs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			if encoded := os.Getenv(envStoreKey); encoded != "" {
				key, err := base64.StdEncoding.DecodeString(encoded)
				if err != nil {
					return fmt.Errorf("invalid %s: %w", envStoreKey, err)
				}
				opts.EncryptionKey = key
			}
			return cli.RunSession(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	f := runCmd.Flags()
	f.StringVar(&opts.LogLevel, "log-level", "", "Log to stderr at this level (debug, info, warn, error)")
	f.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve /metrics, /healthz and /graph on this address")
	f.StringVar(&opts.RedisAddr, "redis-addr", "", "Persist runs in redis at this address")
	f.StringVar(&opts.StoreDir, "store-dir", "", "Directory for persisted runs (default .arbor/runs)")
	f.StringVar(&opts.RunID, "run-id", "", "Persist and restore inputs under this run ID")
	f.BoolVar(&opts.Fresh, "fresh", false, "Discard persisted inputs of --run-id before running")
	f.StringSliceVar(&opts.MaskPatterns, "mask", nil, "Mask persisted inputs whose names match these regular expressions")
	f.BoolVar(&opts.Markdown, "markdown", false, "Render markdown text modules")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Suppress the banner and system messages")
	f.DurationVar(&opts.LineTimeout, "timeout", 0, "Give up when a prompt waits longer than this")

	return runCmd
}
