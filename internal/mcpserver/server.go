// Package mcpserver provides an MCP (Model Context Protocol) server that
// lets an assistant inspect and repair its own registration via stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/mcpsetup/internal/apperr"
	"github.com/starford/mcpsetup/internal/history"
	"github.com/starford/mcpsetup/internal/models"
	"github.com/starford/mcpsetup/internal/registrar"
	"github.com/starford/mcpsetup/internal/setupservice"
)

// GuideURI addresses the registration guide resource.
const GuideURI = "mcpsetup://registration-guide"

// Server wraps the MCP server with setup tools.
type Server struct {
	mcp *server.MCPServer
	svc *setupservice.Service
}

// New creates a new MCP server with all setup tools registered.
func New(svc *setupservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"mcpsetup",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	kindArg := mcp.WithString("kind", mcp.Required(),
		mcp.Description("Host kind"),
		mcp.Enum(models.KindDesktop, models.KindCodeGlobal),
	)

	s.mcp.AddTool(mcp.NewTool("get_status",
		mcp.WithDescription("Report whether credentials are set and which hosts have the filing-explorer server registered."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.getStatus)

	s.mcp.AddTool(mcp.NewTool("list_host_targets",
		mcp.WithDescription("List the host applications and config file paths known on this platform."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.listHostTargets)

	s.mcp.AddTool(mcp.NewTool("install_host",
		mcp.WithDescription("Register the server in one host's config file. Existing content is preserved. "+
			"Read the "+GuideURI+" resource for the entry format."),
		kindArg,
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	), s.installHost)

	s.mcp.AddTool(mcp.NewTool("install_all_hosts",
		mcp.WithDescription("Register the server in every known host. Failures are reported per host."),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	), s.installAllHosts)

	s.mcp.AddTool(mcp.NewTool("uninstall_host",
		mcp.WithDescription("Remove the server's entry from one host's config file."),
		kindArg,
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	), s.uninstallHost)

	s.mcp.AddTool(mcp.NewTool("get_config_snippet",
		mcp.WithDescription("Return the JSON fragment to paste into a host config for manual installation."),
		kindArg,
		mcp.WithReadOnlyHintAnnotation(true),
	), s.getConfigSnippet)

	s.mcp.AddTool(mcp.NewTool("list_tool_categories",
		mcp.WithDescription("List the categories of tools the filing-explorer server provides."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.listToolCategories)

	s.mcp.AddTool(mcp.NewTool("search_tools",
		mcp.WithDescription("Keyword search over the filing-explorer tool catalog."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text, at least two characters")),
		mcp.WithString("category", mcp.Description("Optional category id to restrict the search")),
		mcp.WithNumber("limit", mcp.Description("Maximum matches"), mcp.Min(1), mcp.DefaultNumber(10)),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.searchTools)

	s.mcp.AddTool(mcp.NewTool("get_install_history",
		mcp.WithDescription("Recent install and uninstall events, newest first."),
		mcp.WithString("kind", mcp.Description("Optional host kind filter")),
		mcp.WithNumber("limit", mcp.Description("Maximum events"), mcp.Min(1), mcp.DefaultNumber(history.DefaultLimit)),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.getInstallHistory)

	s.mcp.AddResource(
		mcp.NewResource(GuideURI, "Registration Guide",
			mcp.WithResourceDescription("Where host config files live and how the server entry is written."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(apperr.Kind(err) + ": " + err.Error())
}

func (s *Server) getStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.StatusSnapshot(ctx)), nil
}

func (s *Server) listHostTargets(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.ListHostTargets(ctx)), nil
}

func (s *Server) installHost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Install(ctx, kind)
	return resultFor(res, err), nil
}

func (s *Server) uninstallHost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Uninstall(ctx, kind)
	return resultFor(res, err), nil
}

func resultFor(res models.InstallResult, err error) *mcp.CallToolResult {
	if err != nil {
		if res.Target.Kind == "" {
			return errorResult(err)
		}
		return mcp.NewToolResultError(res.Message)
	}
	return mcp.NewToolResultText(res.Message)
}

func (s *Server) installAllHosts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	results, err := s.svc.InstallAll(ctx)
	if len(results) == 0 && err != nil {
		return errorResult(err), nil
	}
	msg := registrar.SummaryMessage(results)
	if err != nil && !errors.Is(err, apperr.ErrPartialInstall) {
		return mcp.NewToolResultError(msg), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) getConfigSnippet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snippet, err := s.svc.Snippet(ctx, kind)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(snippet), nil
}

func (s *Server) listToolCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.ToolCategories(ctx)), nil
}

func (s *Server) searchTools(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	matches, err := s.svc.SearchTools(ctx, query, req.GetString("category", ""), req.GetInt("limit", 10))
	if err != nil {
		return errorResult(err), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText("no matching tools"), nil
	}
	return jsonResult(matches), nil
}

func (s *Server) getInstallHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events, err := s.svc.History(ctx, req.GetInt("limit", history.DefaultLimit), req.GetString("kind", ""))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(events), nil
}

func (s *Server) readGuideResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GuideURI,
			MIMEType: "text/markdown",
			Text:     RegistrationGuide,
		},
	}, nil
}
