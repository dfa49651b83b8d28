package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itchan-dev/supportdesk/frontend/internal/form"
	"github.com/itchan-dev/supportdesk/shared/domain"
	"github.com/itchan-dev/supportdesk/shared/validation"
)

func submitCmd(root *rootOptions) *cobra.Command {
	var (
		fields form.Fields
		files  []string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send a support case to the form webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.load()
			if err != nil {
				return err
			}

			f := form.New(a.client, validation.LimitsFromConfig(a.cfg.Public.Attachments), a.locale.Language)
			if err := f.SetFields(fields); err != nil {
				return err
			}

			attachments := make([]*domain.Attachment, 0, len(files))
			for _, p := range files {
				att, err := domain.NewAttachmentFromPath(p)
				if err != nil {
					return err
				}
				attachments = append(attachments, att)
			}
			if err := f.AddFiles(attachments...); err != nil {
				return err
			}

			var progress func(int)
			if !quiet {
				bar := newProgressBar(cmd.ErrOrStderr(), "submitting")
				progress = func(p int) { _ = bar.Set(p) }
			}

			if err := f.Submit(cmd.Context(), progress); err != nil {
				return fmt.Errorf("submission %s: %w", f.Status(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Case submitted (%s, %s, %d attachment(s))\n", fields.SupportFlow, fields.CaseType, len(attachments))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&fields.SupportFlow, "flow", domain.FlowCustomer, "support flow: customer or technical")
	flags.StringVar(&fields.Email, "email", "", "contact email")
	flags.StringVar(&fields.CustomerNumber, "customer-number", "", "customer number")
	flags.StringVar(&fields.ContactPerson, "contact", "", "contact person")
	flags.StringVar(&fields.PncNumber, "pnc", "", "product number (technical flow)")
	flags.StringVar(&fields.SerialNumber, "serial", "", "serial number (technical flow)")
	flags.StringVar(&fields.CaseType, "case-type", "", "case category, see case-types")
	flags.StringVar(&fields.FeedbackText, "text", "", "description of the issue")
	flags.StringArrayVar(&files, "file", nil, "attachment path, repeatable")
	flags.BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")

	return cmd
}

func caseTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "case-types [flow]",
		Short:     "List the case categories of a support flow",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{domain.FlowCustomer, domain.FlowTechnical},
		RunE: func(cmd *cobra.Command, args []string) error {
			flows := []string{domain.FlowCustomer, domain.FlowTechnical}
			if len(args) == 1 {
				flows = args
			}
			for _, flow := range flows {
				types := domain.CaseTypes(flow)
				if len(types) == 0 {
					return fmt.Errorf("unknown support flow %q", flow)
				}
				for _, t := range types {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", flow, t)
				}
			}
			return nil
		},
	}
}
