package main

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spokit/go-spoadmin"
)

// newGetSiteCommand reads the context site collection and emits its
// tenant-level descriptor.
func newGetSiteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get-site [url]",
		Short: "Show the descriptor of the context site collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			siteURL, err := contextSiteURL(args)
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			log.Debugf("Fetching site properties for %s", siteURL)
			props, err := client.Sites.Properties(cmd.Context(), siteURL,
				spoadmin.WithRequestID(uuid.NewString()))
			if err != nil {
				return err
			}

			return printJSON(props)
		},
	}
}
