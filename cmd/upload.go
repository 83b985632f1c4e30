package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/draftdesk/internal/app"
	"github.com/ziadkadry99/draftdesk/internal/progress"
	"github.com/ziadkadry99/draftdesk/internal/uploads"
)

var uploadExcludes []string

var uploadCmd = &cobra.Command{
	Use:   "upload <file|glob>...",
	Short: "Upload reference documents to the backend",
	Long: `Uploads files for the assistant to consult. Arguments may be doublestar
patterns such as "research/**/*.pdf". Files under .git, node_modules and
similar directories are always skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app.App, args []string) error {
		files, err := uploads.Collect(args, uploadExcludes)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no files match %v", args)
		}

		reporter := progress.NewReporter(cmd.ErrOrStderr())
		failed := 0
		for _, f := range files {
			if err := uploadFile(ctx, a, reporter, f); err != nil {
				a.Logger.Error().Err(err).Str("file", f.Path).Msg("upload failed")
				fmt.Fprintf(cmd.ErrOrStderr(), "Error uploading %s: %v\n", f.Path, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", f.Name)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d uploads failed", failed, len(files))
		}
		return nil
	}),
}

func uploadFile(ctx context.Context, a *app.App, reporter progress.Reporter, file uploads.File) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = a.Client.Upload(ctx, file.Name, reporter.Reader(file.Name, file.Size, f))
	reporter.Finish(file.Name, err)
	return err
}

func init() {
	uploadCmd.Flags().StringSliceVar(&uploadExcludes, "exclude", nil, "glob patterns to skip (repeatable)")
	rootCmd.AddCommand(uploadCmd)
}
