package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"storagebackup/config"
	"storagebackup/internal/storage"
)

var (
	cfg *config.Config

	// newBackend is replaced in tests.
	newBackend = storage.New
)

var rootCmd = &cobra.Command{
	Use:   "storagebackup [output-dir]",
	Short: "Back up every storage bucket of a Supabase project",
	Long: `storagebackup downloads every file of every storage bucket in a Supabase
project into <output-dir>/<bucket>/<path> and writes <output-dir>/manifest.json
once all downloads succeeded.

The output directory defaults to "storage-backup". A directory named like a
subcommand ("list", "buckets") must follow "--", e.g. storagebackup -- list.
Configuration is loaded from .env file or environment variables:
SUPABASE_URL and SUPABASE_SERVICE_ROLE are required.`,
	Example: `  # Back up into ./storage-backup
  storagebackup

  # Back up into a dated directory and zip it afterwards
  storagebackup backups/2024-03-01 --archive

  # Use the S3-compatible endpoint instead of the REST API
  storagebackup --backend s3`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if isVerbose(cmd) {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	},
	RunE: runBackup,
}

func Execute(config *config.Config) error {
	cfg = config
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(bucketsCmd)
	rootCmd.AddCommand(listCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("backend", "", "Storage backend: rest or s3 (overrides STORAGE_BACKEND)")
	rootCmd.PersistentFlags().Int("timeout", 0, "Timeout in seconds for the whole operation (0 = no timeout)")

	rootCmd.Flags().Bool("archive", false, "Zip the output directory after a successful backup")
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

// connect validates the configuration and builds the backend. No network
// call happens before validation succeeds.
func connect(cmd *cobra.Command) (storage.Backend, error) {
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newBackend(cfg)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	timeout, _ := cmd.Flags().GetInt("timeout")
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
}
