package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/halvard/bifrost/internal"
	"github.com/halvard/bifrost/internal/mcpserver"
	"github.com/halvard/bifrost/internal/reconcile"
	pkgconfig "github.com/halvard/bifrost/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runScan(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(cfg)
	svc, err := internal.NewService(cfg, logger)
	if err != nil {
		return err
	}

	issues, err := svc.Scan()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if len(issues) == 0 {
		fmt.Println("no compatibility issues found")
		return nil
	}

	for i, issue := range issues {
		target := "(settings)"
		if issue.File != nil {
			target = issue.File.Path
		}
		fixable := "manual"
		if issue.Fix != nil {
			fixable = string(issue.Fix.Kind)
		}
		fmt.Printf("%3d. [%s] %s: %s (%s)\n", i+1, issue.Type, target, issue.Description, fixable)
	}
	fmt.Printf("%d issue(s) found\n", len(issues))

	if !cmd.Bool("fix") {
		return nil
	}
	res := svc.ApplyFixes(issues, cmd.Bool("dry-run"))
	fmt.Printf("applied: %d renames, %d content fixes, %d settings updates (%d skipped, %d failed)\n",
		res.Renames, res.ContentFixes, res.SettingsUpdates, res.Skipped, res.Failed)
	return nil
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(cfg)
	svc, err := internal.NewService(cfg, logger)
	if err != nil {
		return err
	}

	direction := svc.DefaultDirection()
	if d := cmd.String("direction"); d != "" {
		direction, err = reconcile.ParseDirection(d)
		if err != nil {
			return err
		}
	}

	report, err := svc.Sync(direction)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	fmt.Printf("bookmarks added: %d, favorites added: %d\n", report.BookmarksAdded, report.FavoritesAdded)

	picks, err := parsePicks(cmd.StringSlice("pick"))
	if err != nil {
		return err
	}
	for _, res := range report.Ambiguous {
		if path, ok := picks[res.Name]; ok {
			if err := svc.ResolveAmbiguous(res.Name, path); err != nil {
				return err
			}
			fmt.Printf("resolved %q -> %s\n", res.Name, path)
			continue
		}
		fmt.Printf("ambiguous %q; candidates:\n", res.Name)
		for _, c := range res.Candidates {
			fmt.Printf("    %s\n", c.Path)
		}
		fmt.Printf("  re-run with --pick %q to choose\n", res.Name+"=<path>")
	}

	for _, name := range report.Missing {
		if !cmd.Bool("create-missing") {
			fmt.Printf("missing %q (no file in corpus); re-run with --create-missing to create it\n", name)
			continue
		}
		f, err := svc.CreateMissing(name)
		if err != nil {
			return err
		}
		fmt.Printf("created %s\n", f.Path)
	}
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Run(ctx, internal.WithConfig(cfg))
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(cfg)
	svc, err := internal.NewService(cfg, logger)
	if err != nil {
		return err
	}
	return mcpserver.New(svc).ServeStdio()
}

// parsePicks turns repeated name=path flags into a lookup map.
func parsePicks(raw []string) (map[string]string, error) {
	picks := make(map[string]string, len(raw))
	for _, p := range raw {
		name, path, ok := strings.Cut(p, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid --pick %q, expected name=path", p)
		}
		picks[name] = path
	}
	return picks, nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "bifrost",
		Usage: "Reconcile Logseq and Obsidian conventions over one shared Markdown vault",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "scan",
				Usage:  "Run the vault compatibility battery and optionally apply fixes",
				Action: runScan,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "fix", Usage: "Apply every proposed fix"},
					&cli.BoolFlag{Name: "dry-run", Usage: "With --fix: classify and count without writing"},
				},
			},
			{
				Name:   "sync",
				Usage:  "Reconcile Logseq favorites with Obsidian bookmarks",
				Action: runSync,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "direction", Usage: "logseq-to-obsidian, obsidian-to-logseq, or both"},
					&cli.StringSliceFlag{Name: "pick", Usage: "Resolve an ambiguous name as name=path (repeatable)"},
					&cli.BoolFlag{Name: "create-missing", Usage: "Create empty pages for favorites with no file"},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with a live corpus index and SSE events",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Serve Bifrost tools over the Model Context Protocol on stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
