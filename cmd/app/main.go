package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/mcpsetup/internal"
	"github.com/starford/mcpsetup/internal/apperr"
	"github.com/starford/mcpsetup/internal/credentials"
	"github.com/starford/mcpsetup/internal/history"
	"github.com/starford/mcpsetup/internal/models"
	"github.com/starford/mcpsetup/internal/registrar"
	pkgconfig "github.com/starford/mcpsetup/pkg/config"
)

var version = "dev"

var stdout io.Writer = os.Stdout

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// withApp builds the setup engine for one command and closes it afterwards.
func withApp(fn func(ctx context.Context, cmd *cli.Command, app *internal.App) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		app, err := internal.Build(internal.WithConfig(cfg), internal.WithVersion(version))
		if err != nil {
			return fmt.Errorf("app init error: %w", err)
		}
		defer app.Close()
		return fn(ctx, cmd, app)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runStatus(ctx context.Context, cmd *cli.Command, app *internal.App) error {
	snap := app.Service.StatusSnapshot(ctx)
	if cmd.Bool("json") {
		return printJSON(snap)
	}
	fmt.Fprintf(stdout, "State: %s\n", snap.State)
	if snap.Degraded {
		fmt.Fprintln(stdout, "Warning: some configuration files could not be read; see DETAIL below")
	}
	fmt.Fprintf(stdout, "API token set: %t\nAgent email set: %t\n", snap.TokenSet, snap.EmailSet)
	if snap.CredentialsError != "" {
		fmt.Fprintf(stdout, "Credentials error: %s\n", snap.CredentialsError)
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tHOST\tCONFIGURED\tBINARY\tDETAIL")
	for _, t := range snap.Targets {
		binary := "-"
		if t.Configured {
			binary = "missing"
			if t.ServerPathExists {
				binary = "ok"
			}
		}
		detail := t.ConfigPath
		if t.Error != "" {
			detail = t.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n", t.Kind, t.Label, t.Configured, binary, detail)
	}
	return tw.Flush()
}

func runTargets(ctx context.Context, _ *cli.Command, app *internal.App) error {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tHOST\tCONFIG")
	for _, t := range app.Service.ListHostTargets(ctx) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Kind, t.Label, t.Path)
	}
	return tw.Flush()
}

func runInstall(ctx context.Context, cmd *cli.Command, app *internal.App) error {
	kind := cmd.Args().First()
	if kind != "" && !cmd.Bool("all") {
		res, err := app.Service.Install(ctx, kind)
		if res.Message != "" {
			fmt.Fprintln(stdout, res.Message)
		}
		return err
	}
	results, err := app.Service.InstallAll(ctx)
	for _, res := range results {
		fmt.Fprintf(stdout, "%s: %s\n", res.Target.Kind, res.Message)
	}
	fmt.Fprintln(stdout, registrar.SummaryMessage(results))
	return err
}

func runUninstall(ctx context.Context, cmd *cli.Command, app *internal.App) error {
	kind := cmd.Args().First()
	if kind == "" {
		return fmt.Errorf("%w: host kind is required", apperr.ErrInvalidInput)
	}
	res, err := app.Service.Uninstall(ctx, kind)
	if res.Message != "" {
		fmt.Fprintln(stdout, res.Message)
	}
	return err
}

func runSnippet(ctx context.Context, cmd *cli.Command, app *internal.App) error {
	kind := cmd.Args().First()
	if kind == "" {
		kind = models.KindDesktop
	}
	snippet, err := app.Service.Snippet(ctx, kind)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, snippet)
	return nil
}

func runCredentialsShow(ctx context.Context, _ *cli.Command, app *internal.App) error {
	c, err := app.Service.GetCredentials(ctx)
	if err != nil {
		return err
	}
	show := func(p *string) string {
		if p == nil {
			return "(not set)"
		}
		return *p
	}
	token := "(not set)"
	if c.APIConfigured() {
		token = "(set)"
	}
	fmt.Fprintf(stdout, "Path: %s\nAPI token: %s\nAgent name: %s\nAgent email: %s\n",
		app.Service.CredentialsPath(), token, show(c.AgentName), show(c.AgentEmail))
	if err := credentials.Validate(c); err != nil {
		fmt.Fprintf(stdout, "Warning: %v\n", err)
	}
	return nil
}

// runCredentialsSet overlays the given flags on the stored record and saves
// the whole record back.
func runCredentialsSet(ctx context.Context, cmd *cli.Command, app *internal.App) error {
	c, err := app.Service.GetCredentials(ctx)
	if err != nil {
		return err
	}
	set := func(flag string, dst **string) {
		if cmd.IsSet(flag) {
			v := cmd.String(flag)
			*dst = &v
		}
	}
	set("token", &c.APIToken)
	set("name", &c.AgentName)
	set("email", &c.AgentEmail)
	if err := app.Service.SaveCredentials(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Credentials saved to %s\n", app.Service.CredentialsPath())
	if err := credentials.Validate(c); err != nil {
		fmt.Fprintf(stdout, "Warning: %v\n", err)
	}
	return nil
}

func runValidate(ctx context.Context, cmd *cli.Command, app *internal.App) error {
	out, err := app.Service.ValidateToken(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %s\n", out.State, out.Message)
	if !out.Valid() {
		return cli.Exit("", 2)
	}
	return nil
}

func runTools(ctx context.Context, cmd *cli.Command, app *internal.App) error {
	if q := cmd.String("search"); q != "" {
		matches, err := app.Service.SearchTools(ctx, q, cmd.String("category"), int(cmd.Int("limit")))
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SCORE\tTOOL\tCATEGORY\tDESCRIPTION")
		for _, m := range matches {
			fmt.Fprintf(tw, "%.0f\t%s\t%s\t%s\n", m.Score, m.Name, m.Category, m.Description)
		}
		return tw.Flush()
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tTOOLS\tDESCRIPTION")
	for _, c := range app.Service.ToolCategories(ctx) {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.ID, c.ToolCount, c.Description)
	}
	return tw.Flush()
}

func runHistory(ctx context.Context, cmd *cli.Command, app *internal.App) error {
	events, err := app.Service.History(ctx, int(cmd.Int("limit")), cmd.String("kind"))
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tKIND\tOUTCOME\tMESSAGE")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Action, e.Kind, e.Outcome, e.Message)
	}
	return tw.Flush()
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("port") {
		cfg.App.HTTP.Port = int(cmd.Int("port"))
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
}

func newCommand() *cli.Command {
	kindArg := "desktop|code-global"
	return &cli.Command{
		Name:    "mcpsetup",
		Usage:   "Register the filing-explorer MCP server with Claude host applications",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show credential and registration state",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Print the snapshot as JSON"}},
				Action: withApp(runStatus),
			},
			{
				Name:   "targets",
				Usage:  "List host config files on this platform",
				Action: withApp(runTargets),
			},
			{
				Name:      "install",
				Usage:     "Register the server in one host, or all of them",
				ArgsUsage: "[" + kindArg + "]",
				Flags:     []cli.Flag{&cli.BoolFlag{Name: "all", Usage: "Install into every host"}},
				Action:    withApp(runInstall),
			},
			{
				Name:      "uninstall",
				Usage:     "Remove the server registration from a host",
				ArgsUsage: kindArg,
				Action:    withApp(runUninstall),
			},
			{
				Name:      "snippet",
				Usage:     "Print the JSON fragment for manual installation",
				ArgsUsage: "[" + kindArg + "]",
				Action:    withApp(runSnippet),
			},
			{
				Name:  "credentials",
				Usage: "Manage the stored API token and agent identity",
				Commands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Show stored credentials",
						Action: withApp(runCredentialsShow),
					},
					{
						Name:  "set",
						Usage: "Update stored credentials; an empty value clears a field",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "token", Usage: "API token"},
							&cli.StringFlag{Name: "name", Usage: "Agent name for the SEC User-Agent"},
							&cli.StringFlag{Name: "email", Usage: "Agent email for the SEC User-Agent"},
						},
						Action: withApp(runCredentialsSet),
					},
				},
			},
			{
				Name:      "validate",
				Usage:     "Check an API token against the remote service",
				ArgsUsage: "[token]",
				Action:    withApp(runValidate),
			},
			{
				Name:  "tools",
				Usage: "List tool categories or search the tool catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Search query"},
					&cli.StringFlag{Name: "category", Usage: "Restrict the search to a category"},
					&cli.IntFlag{Name: "limit", Value: 10, Usage: "Maximum matches"},
				},
				Action: withApp(runTools),
			},
			{
				Name:  "history",
				Usage: "Show recent install and uninstall events",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: history.DefaultLimit, Usage: "Maximum events"},
					&cli.StringFlag{Name: "kind", Usage: "Filter by host kind"},
				},
				Action: withApp(runHistory),
			},
			{
				Name:   "serve",
				Usage:  "Run the settings HTTP API with live status events",
				Flags:  []cli.Flag{&cli.IntFlag{Name: "port", Usage: "Override app.http.port"}},
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the setup tools over MCP stdio",
				Action: runMCP,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		slog.Error("application error",
			slog.String("kind", apperr.Kind(err)),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}
