// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the portfolio to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/contact"
	"github.com/starford/folio/internal/nav"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/profile"
)

// Server wraps the MCP server with the folio tools.
type Server struct {
	mcp     *server.MCPServer
	loader  portfolio.ProfileLoader
	links   []nav.Link
	contact *contact.Handler
}

// New creates a new MCP server with all tools registered.
func New(loader portfolio.ProfileLoader, links []nav.Link, ch *contact.Handler) *Server {
	s := &Server{
		loader:  loader,
		links:   append([]nav.Link(nil), links...),
		contact: ch,
	}

	s.mcp = server.NewMCPServer(
		"Folio",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_profile",
		mcp.WithDescription("Load the GitHub profile shown on the portfolio home page. "+
			"Returns {maxAge, githubData} exactly as the site receives it."),
	), s.getProfile)

	s.mcp.AddTool(mcp.NewTool("list_nav_links",
		mcp.WithDescription("List the portfolio's navigation links in display order."),
	), s.listNavLinks)

	s.mcp.AddTool(mcp.NewTool("compose_contact_link",
		mcp.WithDescription("Build the mailto: link the contact form would open. "+
			"Read the folio://mailto-format resource for the encoding rules."),
		mcp.WithString("fields", mcp.Required(),
			mcp.Description("Form-encoded fields in order, e.g. subject=Hi&body=Hello%20there")),
	), s.composeContactLink)

	s.mcp.AddResource(
		mcp.NewResource("folio://mailto-format", "Contact Link Format",
			mcp.WithResourceDescription("How contact form fields become a mailto: link."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMailtoFormatResource,
	)

	return s
}

// ServeStdio serves on stdin/stdout until ctx is done or the client
// disconnects.
func (s *Server) ServeStdio(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.loader.Load(ctx)
	if err != nil {
		var le *profile.LoadError
		if errors.As(err, &le) && le.Status != 0 {
			return mcp.NewToolResultError(fmt.Sprintf("profile unavailable: %s returned %d", le.Endpoint, le.Status)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNavLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.links, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) composeContactLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("fields")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fields, err := contact.ParseFields(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.contact.SubmitEffect(fields).Navigate), nil
}

func (s *Server) readMailtoFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "folio://mailto-format",
			MIMEType: "text/markdown",
			Text:     MailtoFormat,
		},
	}, nil
}
