// Package views holds the concrete view implementations the route catalog
// renders through. Views are deliberately thin text renderers: layout and
// styling belong to the presentation layer, which is outside this core.
package views

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/skilldrones/regionview/internal/domain/route"
	"github.com/skilldrones/regionview/internal/service"
	"github.com/skilldrones/regionview/internal/util"
)

// Registry builds the view registry for the default catalog.
func Registry(regions *service.RegionService) (*route.Registry, error) {
	r := route.NewRegistry()
	entries := map[string]route.View{
		route.ViewLogin:        loginView{},
		route.ViewUnauthorized: unauthorizedView{},
		route.ViewMain:         mainView{regions: regions},
		route.ViewAccount:      accountView{},
		route.ViewAnalytics:    analyticsView{regions: regions},
		route.ViewArchive:      archiveView{},
		route.ViewAdmin:        adminView{},
	}
	for id, v := range entries {
		if err := r.Register(id, v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// loginView renders without a session by definition.
type loginView struct{}

func (loginView) RequiresSession() bool { return false }

func (loginView) Render(_ context.Context, w io.Writer, _ route.Data) error {
	_, err := fmt.Fprintln(w, "Sign in with `regionview login -email <email>` or create an account with `regionview register`.")
	return err
}

type unauthorizedView struct{}

func (unauthorizedView) RequiresSession() bool { return false }

func (unauthorizedView) Render(_ context.Context, w io.Writer, _ route.Data) error {
	_, err := fmt.Fprintln(w, "Access denied: your role does not permit this page.")
	return err
}

type mainView struct {
	regions *service.RegionService
}

func (mainView) RequiresSession() bool { return true }

func (v mainView) Render(_ context.Context, w io.Writer, data route.Data) error {
	if data.User != nil {
		if _, err := fmt.Fprintf(w, "Welcome, %s.\n\n", data.User.DisplayName()); err != nil {
			return err
		}
	}

	regions, err := v.regions.List()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tFEDERAL DISTRICT\tPOPULATION")
	for _, r := range regions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.FederalDistrict, util.FormatCount(r.Population))
	}
	return tw.Flush()
}

type accountView struct{}

func (accountView) RequiresSession() bool { return true }

func (accountView) Render(_ context.Context, w io.Writer, data route.Data) error {
	if data.User == nil {
		return fmt.Errorf("account view rendered without a user")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\t%s\n", data.User.DisplayName())
	fmt.Fprintf(tw, "Email\t%s\n", data.User.Email)
	fmt.Fprintf(tw, "Role\t%s\n", data.Role)
	fmt.Fprintf(tw, "Favorites\t%d\n", len(data.User.Favorites))
	for _, fav := range data.User.Favorites {
		fmt.Fprintf(tw, "\t%s\n", fav)
	}
	return tw.Flush()
}

type analyticsView struct {
	regions *service.RegionService
}

func (analyticsView) RequiresSession() bool { return true }

func (v analyticsView) Render(_ context.Context, w io.Writer, _ route.Data) error {
	stats, err := v.regions.PopulationByDistrict()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FEDERAL DISTRICT\tREGIONS\tPOPULATION")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", s.District, s.Regions, util.FormatCount(s.Population))
	}
	return tw.Flush()
}

type archiveView struct{}

func (archiveView) RequiresSession() bool { return true }

func (archiveView) Render(_ context.Context, w io.Writer, _ route.Data) error {
	_, err := fmt.Fprintln(w, "Flight archive: no archived reports on this client yet.")
	return err
}

type adminView struct{}

func (adminView) RequiresSession() bool { return true }

func (adminView) Render(_ context.Context, w io.Writer, data route.Data) error {
	_, err := fmt.Fprintf(w, "Administration panel (signed in as %s).\n", data.Role)
	return err
}
