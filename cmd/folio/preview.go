package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-folio/internal/content"
)

func newPreviewCmd(app *cli) *cobra.Command {
	var (
		slug     string
		filePath string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Assemble one post and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (slug == "") == (filePath == "") {
				return errors.New("exactly one of --slug or --file is required")
			}

			module, err := app.module()
			if err != nil {
				return err
			}
			svc := module.Content()

			var post *content.PostContent
			if slug != "" {
				post, err = svc.Post(cmd.Context(), slug)
			} else {
				post, err = svc.Assembler().Assemble(cmd.Context(), filePath)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(app.out)
			enc.SetIndent("", "  ")
			return enc.Encode(post)
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "", "slug of a published post")
	cmd.Flags().StringVar(&filePath, "file", "", "markdown file to preview (relative to the content root)")
	return cmd
}
