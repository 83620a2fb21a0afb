package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spokit/go-spoadmin"
)

func newCreateSiteCommand() *cobra.Command {
	var (
		title        string
		owner        string
		template     string
		lcid         uint32
		storageQuota int64
		wait         bool
		waitTimeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create-site <url>",
		Short: "Provision a new site collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			req := &spoadmin.CreateSiteRequest{
				URL:          args[0],
				Title:        title,
				Owner:        owner,
				Template:     template,
				Lcid:         lcid,
				StorageQuota: storageQuota,
			}

			if !wait {
				op, err := client.Sites.Create(cmd.Context(), req,
					spoadmin.WithRequestID(uuid.NewString()))
				if err != nil {
					return err
				}
				log.Infof("Provisioning started, operation %s", op.ID)
				return printJSON(op)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), waitTimeout)
			defer cancel()

			siteID, err := client.Sites.CreateAndWait(ctx, req,
				spoadmin.WithRequestID(uuid.NewString()))
			if err != nil {
				return err
			}
			fmt.Println(siteID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Site title")
	cmd.Flags().StringVar(&owner, "owner", "", "Site owner login")
	cmd.Flags().StringVar(&template, "template", "STS#3", "Web template name")
	cmd.Flags().Uint32Var(&lcid, "lcid", 0, "Locale ID (0 for tenant default)")
	cmd.Flags().Int64Var(&storageQuota, "storage-quota", 0, "Storage quota in MB")
	cmd.Flags().BoolVar(&wait, "wait", false, "Block until the server reports completion")
	cmd.Flags().DurationVar(&waitTimeout, "timeout", 15*time.Minute, "Wait budget when --wait is set")

	return cmd
}

func newDeleteSiteCommand() *cobra.Command {
	var (
		permanent   bool
		wait        bool
		waitTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "delete-site [url]",
		Short: "Remove a site collection (to the recycle bin by default)",
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

			op, err := client.Sites.Delete(cmd.Context(), siteURL,
				&spoadmin.DeleteSiteOptions{SkipRecycleBin: permanent},
				spoadmin.WithRequestID(uuid.NewString()))
			if err != nil {
				return err
			}

			if wait {
				ctx, cancel := context.WithTimeout(cmd.Context(), waitTimeout)
				defer cancel()
				if err := client.Operations.Wait(ctx, op); err != nil {
					return err
				}
			}

			log.Infof("Removed site collection %s", siteURL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&permanent, "permanent", false, "Skip the recycle bin and remove permanently")
	cmd.Flags().BoolVar(&wait, "wait", false, "Block until the server reports completion")
	cmd.Flags().DurationVar(&waitTimeout, "timeout", 15*time.Minute, "Wait budget when --wait is set")

	return cmd
}

func newRestoreSiteCommand() *cobra.Command {
	var (
		wait        bool
		waitTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "restore-site [url]",
		Short: "Restore a site collection from the recycle bin",
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

			op, err := client.RecycleBin.Restore(cmd.Context(), siteURL,
				spoadmin.WithRequestID(uuid.NewString()))
			if err != nil {
				return err
			}

			if wait {
				ctx, cancel := context.WithTimeout(cmd.Context(), waitTimeout)
				defer cancel()
				if err := client.Operations.Wait(ctx, op); err != nil {
					return err
				}
			}

			log.Infof("Restored site collection %s", siteURL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Block until the server reports completion")
	cmd.Flags().DurationVar(&waitTimeout, "timeout", 15*time.Minute, "Wait budget when --wait is set")

	return cmd
}

func newListSitesCommand() *cobra.Command {
	var (
		urlPrefix string
		template  string
		personal  bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list-sites",
		Short: "Enumerate site collections in the tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			filter := &spoadmin.SiteFilter{
				URLStartsWith:        urlPrefix,
				Template:             template,
				IncludePersonalSites: personal,
			}

			seq := client.Sites.List(cmd.Context(), filter,
				spoadmin.WithRequestID(uuid.NewString()))
			if limit > 0 {
				seq = spoadmin.Take(seq, limit)
			}

			sites, err := spoadmin.Collect(seq)
			if err != nil {
				return err
			}
			return printJSON(sites)
		},
	}

	cmd.Flags().StringVar(&urlPrefix, "filter", "", "Restrict to site collections whose URL has this prefix")
	cmd.Flags().StringVar(&template, "template", "", "Restrict to a web template name")
	cmd.Flags().BoolVar(&personal, "personal", false, "Include personal site collections")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many results (0 for all)")

	return cmd
}
