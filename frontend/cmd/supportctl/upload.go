package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itchan-dev/supportdesk/frontend/internal/apiclient"
	"github.com/itchan-dev/supportdesk/shared/domain"
	"github.com/itchan-dev/supportdesk/shared/validation"
)

func uploadCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>...",
		Short: "Store files through the upload proxy and print their view links",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.load()
			if err != nil {
				return err
			}

			set := validation.NewAttachmentSet(validation.LimitsFromConfig(a.cfg.Public.Attachments))
			for _, p := range args {
				att, err := domain.NewAttachmentFromPath(p)
				if err != nil {
					return err
				}
				if err := set.Add(att); err != nil {
					return err
				}
			}

			for _, att := range set.Items() {
				resp, err := a.client.UploadFile(cmd.Context(), att)
				if err != nil {
					if apiErr, ok := apiclient.UploadError(err); ok {
						return fmt.Errorf("%s: %s %s", att.Name, apiErr.Error, apiErr.Details)
					}
					return fmt.Errorf("%s: %w", att.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", resp.FileName, resp.FileViewURL)
			}
			return nil
		},
	}
}
