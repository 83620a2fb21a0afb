// Package spoadmin provides a native Go client for the SharePoint Online
// tenant administration API, covering site collection lifecycle management:
// provisioning, deletion, recycle bin restore and purge, property updates,
// and status queries.
//
// # Features
//
//   - Service-based architecture for expandability
//   - Bounded polling of long-running provisioning operations
//   - Typed errors classified on structured server codes
//   - Modern Go 1.25+ iterators for tenant-wide enumeration
//   - Functional options for flexible configuration
//
// # Quick Start
//
//	client, err := spoadmin.NewClient(
//	    spoadmin.WithAdminURL("https://tenant-admin.example.com"),
//	    spoadmin.WithAccessToken(token),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	siteID, err := client.Sites.CreateAndWait(ctx, &spoadmin.CreateSiteRequest{
//	    URL:      "https://tenant.example/sites/demo",
//	    Title:    "Demo",
//	    Owner:    "owner@tenant.example",
//	    Template: "STS#3",
//	})
//
// # Long-running operations
//
// Provisioning and deprovisioning calls return an *Operation handle. The
// server reports completion and dictates the polling cadence; the client
// polls with Operations.Wait, which tolerates the connection-closed errors
// the service emits once an action's side effect has landed:
//
//	op, err := client.Sites.Delete(ctx, siteURL, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
//	defer cancel()
//	if err := client.Operations.Wait(ctx, op); err != nil {
//	    var timeout *spoadmin.TimeoutError
//	    if errors.As(err, &timeout) {
//	        // the wait budget ran out; the operation may still finish
//	    }
//	}
//
// # Error Handling
//
// The package uses typed errors that can be inspected with errors.As:
//
//	_, err := client.Sites.Properties(ctx, siteURL)
//	if err != nil {
//	    var notFound *spoadmin.NotFoundError
//	    if errors.As(err, &notFound) {
//	        // Handle not found
//	    }
//	}
//
// # Enumeration
//
// Use iterators for automatic pagination:
//
//	for props, err := range client.Sites.List(ctx, nil) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(props.URL, props.Status)
//	}
//
//	// Collect all results into a slice
//	sites, err := spoadmin.Collect(client.Sites.List(ctx, nil))
package spoadmin
