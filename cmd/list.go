package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"storagebackup/internal/models"
	"storagebackup/internal/walker"
	"storagebackup/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list <bucket> [prefix]",
	Short: "List every file under a bucket or folder",
	Example: `  # All files of a bucket
  storagebackup list assets

  # Files below a folder, sorted
  storagebackup list assets img --sort`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	bucket := args[0]
	prefix := ""
	if len(args) > 1 {
		prefix = args[1]
	}

	backend, err := connect(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	w := walker.New(backend, walker.Options{Project: cfg.ProjectURL})
	files, err := w.ListAllFiles(ctx, bucket, prefix)
	if err != nil {
		return err
	}

	if sorted, _ := cmd.Flags().GetBool("sort"); sorted {
		sort.Strings(files)
	}
	if files == nil {
		files = []string{}
	}

	return utils.PrintJSON(cmd.OutOrStdout(), models.FileListing{
		BucketName: bucket,
		Prefix:     prefix,
		Files:      files,
		TotalFiles: len(files),
	})
}

func init() {
	listCmd.Flags().Bool("sort", false, "Sort paths lexically instead of traversal order")
}
