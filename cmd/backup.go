package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"storagebackup/internal/walker"
	"storagebackup/pkg/utils"
)

func runBackup(cmd *cobra.Command, args []string) error {
	outputDir := walker.DefaultOutputDir
	if len(args) > 0 && args[0] != "" {
		outputDir = args[0]
	}

	backend, err := connect(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if isVerbose(cmd) {
		cmd.PrintErrf("Starting backup of %s into %s\n", cfg.ProjectURL, outputDir)
	}

	w := walker.New(backend, walker.Options{
		OutputDir: outputDir,
		Project:   cfg.ProjectURL,
		Stdout:    cmd.OutOrStdout(),
		Logger:    slog.Default(),
	})

	result, err := w.Run(ctx)
	if err != nil {
		return err
	}

	if archive, _ := cmd.Flags().GetBool("archive"); archive {
		info, err := utils.ArchiveDir(outputDir)
		if err != nil {
			return err
		}
		result.Archive = info
		slog.Info("Created archive", "path", info.ArchivePath, "size", utils.FormatBytes(info.CompressedSize))
	}

	if isVerbose(cmd) {
		return utils.PrintJSON(cmd.ErrOrStderr(), result)
	}
	return nil
}
