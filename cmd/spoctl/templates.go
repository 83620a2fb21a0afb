package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spokit/go-spoadmin"
)

func newTemplatesCommand() *cobra.Command {
	var lcid uint32

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List web templates available to the tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			templates, err := client.Templates.List(cmd.Context(), lcid,
				spoadmin.WithRequestID(uuid.NewString()))
			if err != nil {
				return err
			}
			return printJSON(templates)
		},
	}

	cmd.Flags().Uint32Var(&lcid, "lcid", 0, "Locale ID (0 for tenant default)")

	return cmd
}
