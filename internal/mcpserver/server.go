// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes wardrobe tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/closetlab/wairdrobe/internal/garment"
	"github.com/closetlab/wairdrobe/internal/wardrobe"
)

// Server wraps the MCP server with wardrobe tools.
type Server struct {
	mcp  *server.MCPServer
	ctrl *wardrobe.Controller
}

// New creates a new MCP server with all wardrobe tools registered.
func New(ctrl *wardrobe.Controller) *Server {
	s := &Server{ctrl: ctrl}

	s.mcp = server.NewMCPServer(
		"wAIrdrobe",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_garments",
		mcp.WithDescription("List every garment in the wardrobe, optionally restricted to one category."),
		mcp.WithString("category", mcp.Description("Optional category to filter by (e.g. Tops, Outerwear)")),
	), s.listGarments)

	s.mcp.AddTool(mcp.NewTool("get_garment",
		mcp.WithDescription("Read a single garment by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Garment id")),
	), s.getGarment)

	s.mcp.AddTool(mcp.NewTool("add_garment",
		mcp.WithDescription("Add a garment to the wardrobe. The type is required; "+
			"the category, when omitted, is inferred from the type."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Garment type, e.g. 'Hoodie'")),
		mcp.WithString("name", mcp.Description("Display name; defaults to the type")),
		mcp.WithString("category", mcp.Description("One of: Outerwear, Tops, Bottoms, One-Piece, Footwear, Accessories")),
	), s.addGarment)

	s.mcp.AddTool(mcp.NewTool("mark_worn",
		mcp.WithDescription("Mark a garment as worn today. Calling it again the same day undoes the mark."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Garment id")),
	), s.markWorn)

	s.mcp.AddTool(mcp.NewTool("wardrobe_stats",
		mcp.WithDescription("Summarize the wardrobe: item counts per category and unworn new arrivals."),
	), s.wardrobeStats)

	// Resource: the fixed category and colour catalogue.
	s.mcp.AddResource(
		mcp.NewResource("wairdrobe://catalogue", "Category and Colour Catalogue",
			mcp.WithResourceDescription("The canonical categories and filterable colours used by the wardrobe."),
			mcp.WithMIMEType("application/json"),
		),
		s.readCatalogueResource,
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

func (s *Server) listGarments(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := ""
	if c, err := req.RequireString("category"); err == nil {
		category = c
	}
	items := s.ctrl.Items()
	if category != "" {
		filtered := []garment.Garment{}
		for _, group := range garment.GroupByCategory(items) {
			if group.Category == category {
				filtered = group.Items
				break
			}
		}
		items = filtered
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getGarment(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := s.ctrl.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(g, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addGarment(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	garmentType, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name := garmentType
	if n, err := req.RequireString("name"); err == nil && n != "" {
		name = n
	}
	category := ""
	if c, err := req.RequireString("category"); err == nil {
		category = c
	}

	g, err := s.ctrl.Add(garment.Garment{
		Name:     name,
		Type:     garmentType,
		Category: category,
		Uses:     []string{},
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(g, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) markWorn(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := s.ctrl.ToggleWornToday(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(g, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) wardrobeStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items := s.ctrl.Items()

	counts := map[string]int{}
	for _, group := range garment.GroupByCategory(items) {
		if len(group.Items) > 0 {
			counts[group.Category] = len(group.Items)
		}
	}

	stats := map[string]any{
		"total":        len(items),
		"per_category": counts,
		"new_arrivals": len(garment.NewArrivals(items)),
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readCatalogueResource(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	catalogue := map[string]any{
		"categories": garment.CategoryOrder,
		"colours":    garment.Colours,
	}
	out, _ := json.MarshalIndent(catalogue, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
