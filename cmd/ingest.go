package main

import (
	"errors"
	"fmt"

	"github.com/meghashyamc/docsearch/api"
	"github.com/meghashyamc/docsearch/api/handlers"
	"github.com/meghashyamc/docsearch/services/documents"
	"github.com/spf13/cobra"
)

func newIngestCmd(opts *rootOptions) *cobra.Command {
	request := handlers.UploadRequest{}

	ingestCmd := &cobra.Command{
		Use:   "ingest [file or directory]",
		Short: "Upload plain-text files into the catalogue and the search index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}

			deps, err := api.NewDependencies(cmd.Context(), log, cfg)
			if err != nil {
				return err
			}
			defer deps.Close()

			if err := deps.Validator.Validate(request); err != nil {
				return err
			}

			paths, err := deps.Documents.DiscoverFiles(args[0])
			if err != nil {
				return fmt.Errorf("failed to discover files: %w", err)
			}

			uploaded := make([]*documents.Document, 0, len(paths))
			failed := 0
			for _, path := range paths {
				doc, err := deps.Documents.UploadFile(cmd.Context(), request.UserID, path)
				switch {
				case errors.Is(err, documents.ErrAlreadyExists):
					cmd.PrintErrf("skipped %s: already uploaded\n", path)
				case err != nil:
					cmd.PrintErrf("failed %s: %s\n", path, err)
					failed++
				default:
					uploaded = append(uploaded, doc)
				}
			}

			if err := printJSON(cmd, uploaded); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be uploaded", failed, len(paths))
			}

			return nil
		},
	}

	ingestCmd.Flags().StringVar(&request.UserID, "user-id", "", "owner of the uploaded documents")

	return ingestCmd
}
