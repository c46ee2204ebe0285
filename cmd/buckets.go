package cmd

import (
	"github.com/spf13/cobra"

	"storagebackup/internal/models"
	"storagebackup/internal/walker"
	"storagebackup/pkg/utils"
)

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List the project's storage buckets",
	Long: `List every storage bucket of the project as JSON.
With --files each bucket is walked and its file count reported.`,
	Example: `  # List buckets
  storagebackup buckets

  # Include file counts
  storagebackup buckets --files`,
	Args: cobra.NoArgs,
	RunE: runBuckets,
}

func runBuckets(cmd *cobra.Command, args []string) error {
	backend, err := connect(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	buckets, err := backend.ListBuckets(ctx)
	if err != nil {
		return err
	}

	countFiles, _ := cmd.Flags().GetBool("files")
	w := walker.New(backend, walker.Options{Project: cfg.ProjectURL})

	infos := make([]models.BucketInfo, 0, len(buckets))
	for _, b := range buckets {
		info := models.BucketInfo{BucketName: b.Name, BucketID: b.ID, Public: b.Public}
		if countFiles {
			files, err := w.ListAllFiles(ctx, b.Name, "")
			if err != nil {
				return err
			}
			n := len(files)
			info.FileCount = &n
		}
		infos = append(infos, info)
	}

	return utils.PrintJSON(cmd.OutOrStdout(), infos)
}

func init() {
	bucketsCmd.Flags().Bool("files", false, "Count files in every bucket")
}
