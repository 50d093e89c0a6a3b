// Command graphqlintel is the CLI entry point: batch validate/lint over a
// project, an editor-facing LSP stdio server, and an MCP stdio server
// (spec.md §6).
//
// Grounded on the teacher's cmd/lci main.go (cli.App/cli.Command
// skeleton, signal-driven graceful shutdown for long-running servers);
// the search/grep/tree/debug command family isn't ported — this CLI's
// surface is the one spec.md §6 names.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/graphqlintel/graphqlintel/internal/apperr"
	"github.com/graphqlintel/graphqlintel/internal/config"
	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/ide"
	"github.com/graphqlintel/graphqlintel/internal/mcpsrv"
	"github.com/graphqlintel/graphqlintel/internal/types"
	"github.com/graphqlintel/graphqlintel/internal/version"
	"github.com/graphqlintel/graphqlintel/internal/watch"
)

// Exit codes per spec.md §6.
const (
	exitSuccess    = 0
	exitValidation = 1
	exitConfig     = 2
	exitSchemaLoad = 3
	exitIO         = 4
	exitParse      = 5
)

func main() {
	app := newApp()

	if err := app.Run(os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, "graphqlintel:", msg)
		}
		os.Exit(exitCodeFor(err))
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "graphqlintel",
		Usage:   "Incremental analysis for GraphQL schemas, documents, and embedded fragments",
		Version: version.Info(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "project",
				Usage: "Project root directory (default: current directory)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Lint rule configuration file (YAML)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: human or json",
				Value: "human",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Report schema and document validation errors for every file in the project",
				Action: validateCommand,
			},
			{
				Name:   "lint",
				Usage:  "Report validation errors, lint warnings, and hints for every file in the project",
				Action: lintCommand,
			},
			{
				Name:   "lsp",
				Usage:  "Run the editor-facing language server over stdio",
				Action: lspCommand,
			},
			{
				Name:   "mcp",
				Usage:  "Run the Model Context Protocol server over stdio",
				Action: mcpCommand,
			},
			{
				Name:   "check",
				Usage:  "Reserved for future use",
				Action: checkCommand,
			},
		},
	}
}

// exitCodeFor maps an apperr.Error's Category to spec.md §6's exit code
// table. A cli.ExitCoder (returned by the validate/lint/check commands
// directly) wins over the category guess. Errors carrying neither
// (shouldn't happen at this boundary, but cheap to guard) fall back to
// the generic I/O code.
func exitCodeFor(err error) int {
	if coder, ok := err.(cli.ExitCoder); ok {
		return coder.ExitCode()
	}

	var appErr *apperr.Error
	if ok := asApperr(err, &appErr); ok {
		switch appErr.Category {
		case apperr.CategoryConfig:
			return exitConfig
		case apperr.CategorySchema:
			return exitSchemaLoad
		case apperr.CategorySyntax:
			return exitParse
		case apperr.CategoryIO, apperr.CategoryNetwork:
			return exitIO
		case apperr.CategoryDocument, apperr.CategoryLint:
			return exitValidation
		}
	}
	return exitIO
}

func asApperr(err error, target **apperr.Error) bool {
	for err != nil {
		if e, ok := err.(*apperr.Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// loadHost resolves the project config and lint overrides from c's
// --project/--config flags, walks the project root once, and returns a
// populated host ready for a batch validate/lint run or a long-running
// server.
func loadHost(c *cli.Context) (*ide.AnalysisHost, *config.Config, error) {
	root := c.String("project")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, nil, apperr.IO("getwd", "", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, apperr.IO("resolve", root, err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}
	if err := config.NewValidator().ValidateAndSetDefaults(cfg); err != nil {
		return nil, nil, err
	}

	host := ide.NewAnalysisHost()

	if lintPath := c.String("config"); lintPath != "" {
		overrides, err := config.LoadLintConfig(lintPath)
		if err != nil {
			return nil, nil, err
		}
		host.Overrides = overrides
	}

	if err := watch.LoadProjectFiles(host, cfg); err != nil {
		return nil, nil, err
	}

	return host, cfg, nil
}

func validateCommand(c *cli.Context) error {
	return runBatch(c, func(snap *ide.Analysis, uri types.FileURI) []diag.Diagnostic {
		return snap.ValidationDiagnostics(uri)
	}, func(snap *ide.Analysis, uri types.FileURI) []diag.Wire {
		return snap.ValidationDiagnosticsWire(uri)
	})
}

func lintCommand(c *cli.Context) error {
	return runBatch(c, func(snap *ide.Analysis, uri types.FileURI) []diag.Diagnostic {
		return snap.Diagnostics(uri)
	}, func(snap *ide.Analysis, uri types.FileURI) []diag.Wire {
		return snap.DiagnosticsWire(uri)
	})
}

// runBatch loads the project, runs collect (or wireCollect, under
// --format json) over every file, prints the result, and returns a
// validation-exit error if any error-severity diagnostic was found
// (spec.md §6 exit code 1).
func runBatch(
	c *cli.Context,
	collect func(*ide.Analysis, types.FileURI) []diag.Diagnostic,
	wireCollect func(*ide.Analysis, types.FileURI) []diag.Wire,
) error {
	host, _, err := loadHost(c)
	if err != nil {
		return err
	}

	snap := host.Snapshot()
	defer snap.Release()

	uris := host.URIs()
	hasError := false

	if c.String("format") == "json" {
		out := make(map[string][]diag.Wire, len(uris))
		for _, uri := range uris {
			wire := wireCollect(snap, uri)
			if len(wire) == 0 {
				continue
			}
			out[string(uri)] = wire
			for _, w := range wire {
				if w.Severity == types.SeverityError.String() {
					hasError = true
				}
			}
		}
		if err := printJSON(os.Stdout, out); err != nil {
			return apperr.IO("encode", "stdout", err)
		}
	} else {
		for _, uri := range uris {
			diags := collect(snap, uri)
			for _, d := range diags {
				fmt.Printf("%s: %s [%s] %s\n", uri, d.Severity, d.Source, d.Message)
				if d.Severity == types.SeverityError {
					hasError = true
				}
			}
		}
	}

	if hasError {
		return cli.Exit("", exitValidation)
	}
	return nil
}

func lspCommand(c *cli.Context) error {
	host, _, err := loadHost(c)
	if err != nil {
		return err
	}
	return runLSPStdio(context.Background(), host)
}

func mcpCommand(c *cli.Context) error {
	host, _, err := loadHost(c)
	if err != nil {
		return err
	}

	server := mcpsrv.NewServerWithHost(host)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		cancel()
		return <-errCh
	}
}

func checkCommand(c *cli.Context) error {
	return cli.Exit("check: not yet implemented", exitConfig)
}
