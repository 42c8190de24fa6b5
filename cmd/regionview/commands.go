package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	domainauth "github.com/skilldrones/regionview/internal/domain/auth"
	"github.com/skilldrones/regionview/internal/domain/route"
	"github.com/skilldrones/regionview/internal/ports"
	"github.com/skilldrones/regionview/internal/service"
	"github.com/skilldrones/regionview/internal/util"
)

const defaultCommandTimeout = 30 * time.Second

type loginOptions struct {
	Email    string
	Password string
}

type registerOptions struct {
	Email    string
	Password string
	Name     string
	Surname  string
}

type regionsOptions struct {
	District string
	Stats    bool
}

func runLogin(cmdCtx *commandContext, args []string) error {
	opts, err := parseLoginFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	hints, hintErr := cmdCtx.App.Hints.Load()
	if hintErr != nil {
		cmdCtx.Logger.Warn("load sign-in hints", "error", hintErr)
	}

	if loginErr := cmdCtx.App.Sessions.Login(ctx, opts.Email, opts.Password); loginErr != nil {
		return loginErr
	}

	snap := cmdCtx.App.Sessions.Snapshot()
	if snap.User != nil {
		if writeErr := writef(os.Stdout, "Signed in as %s\n", snap.User.DisplayName()); writeErr != nil {
			return writeErr
		}
	}
	if hints.HadSuccessfulAuth {
		if writeErr := writef(os.Stdout, "Previous sign-in: %s\n",
			util.FormatSince(hints.LastAuthTime, time.Now())); writeErr != nil {
			return writeErr
		}
	}
	return nil
}

func runLogout(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	if err := cmdCtx.App.Sessions.Logout(ctx); err != nil {
		return err
	}
	return writeln(os.Stdout, "Signed out.")
}

func runRegister(cmdCtx *commandContext, args []string) error {
	opts, err := parseRegisterFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	if regErr := cmdCtx.App.Sessions.Register(ctx, ports.RegisterInput{
		Email:    opts.Email,
		Password: opts.Password,
		Name:     opts.Name,
		Surname:  opts.Surname,
	}); regErr != nil {
		return regErr
	}

	return writef(os.Stdout, "Account created for %s. Sign in with `regionview login`.\n", opts.Email)
}

func runWhoami(cmdCtx *commandContext, _ []string) error {
	snap, err := checkedSnapshot(cmdCtx)
	if err != nil {
		return err
	}
	if !snap.Authenticated() || snap.User == nil {
		return writeln(os.Stdout, "Not signed in.")
	}

	role, _ := snap.Role()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if writeErr := writef(w, "Name\t%s\n", snap.User.DisplayName()); writeErr != nil {
		return writeErr
	}
	if writeErr := writef(w, "Email\t%s\n", snap.User.Email); writeErr != nil {
		return writeErr
	}
	if writeErr := writef(w, "Role\t%s\n", role); writeErr != nil {
		return writeErr
	}
	if flushErr := w.Flush(); flushErr != nil {
		return fmt.Errorf("flush profile table: %w", flushErr)
	}
	return nil
}

func runCheck(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	if err := cmdCtx.App.Sessions.CheckSession(ctx); err != nil {
		return err
	}

	snap := cmdCtx.App.Sessions.Snapshot()
	if snap.Authenticated() && snap.User != nil {
		return writef(os.Stdout, "Session is live: %s\n", snap.User.Email)
	}

	hints, hintErr := cmdCtx.App.Hints.Load()
	if hintErr != nil {
		cmdCtx.Logger.Warn("load sign-in hints", "error", hintErr)
	}
	if hints.HadSuccessfulAuth {
		return writef(os.Stdout, "No live session (last sign-in %s).\n",
			util.FormatSince(hints.LastAuthTime, time.Now()))
	}
	return writeln(os.Stdout, "No live session.")
}

func runRoutes(cmdCtx *commandContext, _ []string) error {
	snap, err := checkedSnapshot(cmdCtx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if writeErr := writeln(w, "PATH\tTITLE\tROLES\tACCESS"); writeErr != nil {
		return writeErr
	}

	accessible := make(map[string]struct{})
	if role, ok := snap.Role(); ok {
		for _, d := range cmdCtx.App.Catalog.Accessible(role) {
			accessible[d.Path] = struct{}{}
		}
	} else {
		for _, d := range cmdCtx.App.Catalog.Public() {
			accessible[d.Path] = struct{}{}
		}
	}

	for _, d := range cmdCtx.App.Catalog.All() {
		access := "denied"
		if _, ok := accessible[d.Path]; ok {
			access = "allowed"
		}
		if writeErr := writef(w, "%s\t%s\t%s\t%s\n",
			d.Path, d.Title, joinRoles(d.AllowedRoles), access); writeErr != nil {
			return writeErr
		}
	}
	if flushErr := w.Flush(); flushErr != nil {
		return fmt.Errorf("flush routes table: %w", flushErr)
	}
	return nil
}

func runNav(cmdCtx *commandContext, _ []string) error {
	snap, err := checkedSnapshot(cmdCtx)
	if err != nil {
		return err
	}
	role, ok := snap.Role()
	if !ok {
		return writeln(os.Stdout, "Not signed in; no navigation to show. Try `regionview open /login`.")
	}

	entries := cmdCtx.App.Catalog.Navigation(role, cmdCtx.Config.UI.NavExcludeSet())
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, d := range entries {
		if writeErr := writef(w, "%s\t%s\n", d.Title, d.Path); writeErr != nil {
			return writeErr
		}
	}
	if flushErr := w.Flush(); flushErr != nil {
		return fmt.Errorf("flush nav table: %w", flushErr)
	}
	return nil
}

func runRegions(cmdCtx *commandContext, args []string) error {
	opts, err := parseRegionsFlags(args)
	if err != nil {
		return err
	}

	if opts.Stats {
		return printRegionStats(cmdCtx)
	}

	var regions []ports.Region
	if opts.District != "" {
		regions, err = cmdCtx.App.Regions.ByDistrict(opts.District)
	} else {
		regions, err = cmdCtx.App.Regions.List()
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if writeErr := writeln(w, "REGION\tFEDERAL DISTRICT\tPOPULATION"); writeErr != nil {
		return writeErr
	}
	for _, r := range regions {
		if writeErr := writef(w, "%s\t%s\t%s\n",
			r.Name, r.FederalDistrict, util.FormatCount(r.Population)); writeErr != nil {
			return writeErr
		}
	}
	if flushErr := w.Flush(); flushErr != nil {
		return fmt.Errorf("flush regions table: %w", flushErr)
	}
	return nil
}

func printRegionStats(cmdCtx *commandContext) error {
	stats, err := cmdCtx.App.Regions.PopulationByDistrict()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if writeErr := writeln(w, "FEDERAL DISTRICT\tREGIONS\tPOPULATION"); writeErr != nil {
		return writeErr
	}
	for _, s := range stats {
		if writeErr := writef(w, "%s\t%d\t%s\n",
			s.District, s.Regions, util.FormatCount(s.Population)); writeErr != nil {
			return writeErr
		}
	}
	if flushErr := w.Flush(); flushErr != nil {
		return fmt.Errorf("flush stats table: %w", flushErr)
	}
	return nil
}

func runOpen(cmdCtx *commandContext, args []string) error {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return errors.New("usage: regionview open <path>")
	}
	path := strings.TrimSpace(args[0])
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	desc, ok := cmdCtx.App.Catalog.ByPath(path)
	if !ok {
		return fmt.Errorf("no route at %q", path)
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	if desc.IsPublic {
		return desc.View().Render(ctx, os.Stdout, route.Data{})
	}

	if err := cmdCtx.App.Sessions.CheckSession(ctx); err != nil {
		return err
	}
	snap := cmdCtx.App.Sessions.Snapshot()
	role, signedIn := snap.Role()
	if !signedIn {
		// Unauthenticated access to a protected route lands on the sign-in page.
		login, loginOK := cmdCtx.App.Catalog.ByPath("/login")
		if !loginOK {
			return errors.New("sign-in route missing from catalog")
		}
		return login.View().Render(ctx, os.Stdout, route.Data{})
	}

	if !routeAllowed(cmdCtx.App.Catalog.Accessible(role), path) {
		denied, deniedOK := cmdCtx.App.Catalog.ByPath("/unauthorized")
		if !deniedOK {
			return errors.New("access-denied route missing from catalog")
		}
		return denied.View().Render(ctx, os.Stdout, route.Data{})
	}

	return desc.View().Render(ctx, os.Stdout, route.Data{User: snap.User, Role: role})
}

// checkedSnapshot refreshes the session and returns the resulting snapshot.
// A failed refresh that still leaves an authenticated snapshot (an unrelated
// error over a live session) is not fatal here.
func checkedSnapshot(cmdCtx *commandContext) (service.Snapshot, error) {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	if err := cmdCtx.App.Sessions.CheckSession(ctx); err != nil {
		snap := cmdCtx.App.Sessions.Snapshot()
		if !snap.Authenticated() {
			return snap, err
		}
		cmdCtx.Logger.Warn("session refresh failed, using prior session", "error", err)
	}
	return cmdCtx.App.Sessions.Snapshot(), nil
}

func routeAllowed(accessible []route.Descriptor, path string) bool {
	for _, d := range accessible {
		if d.Path == path {
			return true
		}
	}
	return false
}

func joinRoles(roles []domainauth.Role) string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return strings.Join(out, ",")
}

func parseLoginFlags(args []string) (loginOptions, error) {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts loginOptions
	fs.StringVar(&opts.Email, "email", "", "Account email (required)")
	fs.StringVar(&opts.Password, "password", "", "Account password (required)")

	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}

	opts.Email = strings.TrimSpace(opts.Email)
	if opts.Email == "" {
		return loginOptions{}, errors.New("--email is required")
	}
	if opts.Password == "" {
		return loginOptions{}, errors.New("--password is required")
	}
	return opts, nil
}

func parseRegisterFlags(args []string) (registerOptions, error) {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts registerOptions
	fs.StringVar(&opts.Email, "email", "", "Account email (required)")
	fs.StringVar(&opts.Password, "password", "", "Account password (required)")
	fs.StringVar(&opts.Name, "name", "", "First name")
	fs.StringVar(&opts.Surname, "surname", "", "Last name")

	if err := fs.Parse(args); err != nil {
		return registerOptions{}, err
	}

	opts.Email = strings.TrimSpace(opts.Email)
	if opts.Email == "" {
		return registerOptions{}, errors.New("--email is required")
	}
	if opts.Password == "" {
		return registerOptions{}, errors.New("--password is required")
	}
	return opts, nil
}

func parseRegionsFlags(args []string) (regionsOptions, error) {
	fs := flag.NewFlagSet("regions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts regionsOptions
	fs.StringVar(&opts.District, "district", "", "Filter by federal district name")
	fs.BoolVar(&opts.Stats, "stats", false, "Aggregate population per federal district")

	if err := fs.Parse(args); err != nil {
		return regionsOptions{}, err
	}

	if opts.Stats && opts.District != "" {
		return regionsOptions{}, errors.New("--stats cannot be combined with --district")
	}
	return opts, nil
}
