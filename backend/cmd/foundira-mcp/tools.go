package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/db"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/service"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// matchSource is the slice of MatchService the tools call.
type matchSource interface {
	GetMatches(ctx context.Context, id uuid.UUID, opts service.MatchOptions) (*service.MatchListing, error)
	ScorePair(lost, found matching.Item) matching.MatchResult
}

func buildMCPServer(matches matchSource) *server.MCPServer {
	s := server.NewMCPServer(
		"foundira",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	findTool := mcp.NewTool(
		"find_matches",
		mcp.WithDescription("Rank open reports of the opposite category against a stored lost or found item."),
		mcp.WithString("item_id", mcp.Required(), mcp.Description("UUID of the stored item.")),
		mcp.WithNumber("threshold", mcp.Description("Minimum score 0-100 (default from server config)."), mcp.Min(0), mcp.Max(100)),
	)

	scoreFields := []string{"category", "title", "description", "location", "last_seen_time"}
	scoreOpts := []mcp.ToolOption{
		mcp.WithDescription("Score an inline lost report against an inline found report."),
	}
	for _, side := range []string{"lost", "found"} {
		for _, field := range scoreFields {
			desc := fmt.Sprintf("%s report %s.", side, strings.ReplaceAll(field, "_", " "))
			if field == "last_seen_time" {
				desc += " RFC 3339; unreadable values are ignored."
			}
			opts := []mcp.PropertyOption{mcp.Description(desc)}
			if field == "title" {
				opts = append(opts, mcp.Required())
			}
			scoreOpts = append(scoreOpts, mcp.WithString(side+"_"+field, opts...))
		}
	}
	scoreTool := mcp.NewTool("score_items", scoreOpts...)

	s.AddTool(findTool, findMatchesHandler(matches))
	s.AddTool(scoreTool, scoreItemsHandler(matches))
	return s
}

func findMatchesHandler(matches matchSource) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := uuid.Parse(strings.TrimSpace(req.GetString("item_id", "")))
		if err != nil {
			return mcp.NewToolResultError("item_id must be a valid UUID"), nil
		}

		var opts service.MatchOptions
		if t := req.GetInt("threshold", -1); t >= 0 {
			opts.Threshold = &t
		}

		listing, err := matches.GetMatches(ctx, id, opts)
		if errors.Is(err, db.ErrNotFound) {
			return mcp.NewToolResultError("item not found"), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body, err := json.Marshal(map[string]any{
			"item_id": id.String(),
			"title":   listing.Target.Title,
			"matches": listing.Matches,
			"cached":  listing.Cached,
		})
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}

func scoreItemsHandler(matches matchSource) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lost, err := inlineItem(req, "lost", matching.CategoryLost)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		found, err := inlineItem(req, "found", matching.CategoryFound)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body, err := json.Marshal(matches.ScorePair(lost, found))
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}

// inlineItem reads the side_* arguments into an item. The category
// defaults to the side's own.
func inlineItem(req mcp.CallToolRequest, side string, def matching.Category) (matching.Item, error) {
	arg := func(field string) string {
		return strings.TrimSpace(req.GetString(side+"_"+field, ""))
	}

	item := matching.Item{
		ID:           side,
		Category:     def,
		Title:        arg("title"),
		Description:  arg("description"),
		Location:     arg("location"),
		LastSeenTime: matching.ParseTimestamp(arg("last_seen_time")),
	}
	if c := arg("category"); c != "" {
		item.Category = matching.Category(c)
	}
	if item.Title == "" {
		return matching.Item{}, fmt.Errorf("%s_title is required", side)
	}
	return item, nil
}
