package main

import (
	"github.com/meghashyamc/docsearch/api"
	"github.com/meghashyamc/docsearch/api/handlers"
	"github.com/meghashyamc/docsearch/services/search"
	"github.com/spf13/cobra"
)

const defaultContextSize = 50

func newSearchCmd(opts *rootOptions) *cobra.Command {
	request := handlers.SearchRequest{}

	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search uploaded documents and print highlighted fragments as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.Query = args[0]

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

			results, err := deps.Search.Search(cmd.Context(), search.Request{
				Query:              request.Query,
				UserID:             request.UserID,
				DocumentID:         request.DocumentID,
				ContextWordsBefore: request.ContextSizeBefore,
				ContextWordsAfter:  request.ContextSizeAfter,
				Exact:              request.SearchExact,
			})
			if err != nil {
				return err
			}

			return printJSON(cmd, handlers.SearchResponse{
				Meta: handlers.SearchMeta{
					Query:             request.Query,
					SearchExact:       request.SearchExact,
					ContextSizeBefore: request.ContextSizeBefore,
					ContextSizeAfter:  request.ContextSizeAfter,
					TotalDocuments:    len(results),
					TotalFragments:    search.CountFragments(results),
				},
				Results: results,
			})
		},
	}

	searchCmd.Flags().StringVar(&request.UserID, "user-id", "", "only search documents of this user")
	searchCmd.Flags().StringVar(&request.DocumentID, "document-id", "", "only search this document")
	searchCmd.Flags().IntVar(&request.ContextSizeBefore, "before", defaultContextSize, "words of context before each fragment")
	searchCmd.Flags().IntVar(&request.ContextSizeAfter, "after", defaultContextSize, "words of context after each fragment")
	searchCmd.Flags().BoolVar(&request.SearchExact, "exact", false, "only return fragments matching the whole phrase")

	return searchCmd
}
