package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/skilldrones/regionview/config"
	"github.com/skilldrones/regionview/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	App    *bootstrap.App
}

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		bootstrap.InitLogger(false).Error("load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger := bootstrap.InitLogger(cfg.IsDev)

	if len(os.Args) < 2 {
		if usageErr := printUsage(); usageErr != nil {
			logger.Error("print usage failed", "error", usageErr)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if writeErr := writef(os.Stderr, "unknown command %q\n\n", cmdName); writeErr != nil {
			logger.Error("print unknown command message failed", "error", writeErr)
		}
		if usageErr := printUsage(); usageErr != nil {
			logger.Error("print usage failed", "error", usageErr)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	app, err := bootstrap.BuildApp(cfg, logger)
	if err != nil {
		logger.Error("build application", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal wiring failure to callers
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		App:    app,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Sign in to the backend and establish a session",
			run:         runLogin,
		},
		"logout": {
			name:        "logout",
			description: "End the session and clear local sign-in hints",
			run:         runLogout,
		},
		"register": {
			name:        "register",
			description: "Create a new account (does not sign in)",
			run:         runRegister,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the signed-in user's profile",
			run:         runWhoami,
		},
		"check": {
			name:        "check",
			description: "Verify whether a backend session is still live",
			run:         runCheck,
		},
		"routes": {
			name:        "routes",
			description: "List all routes with their access policy",
			run:         runRoutes,
		},
		"nav": {
			name:        "nav",
			description: "Show the navigation menu for the current role",
			run:         runNav,
		},
		"regions": {
			name:        "regions",
			description: "Browse the region catalog",
			run:         runRegions,
		},
		"open": {
			name:        "open",
			description: "Open a route by path, enforcing its access policy",
			run:         runOpen,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: regionview <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(os.Stdout, "  %-12s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func writeln(w io.Writer, args ...any) error {
	if _, err := fmt.Fprintln(w, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
