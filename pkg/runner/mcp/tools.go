package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/propertease/pkg/prompt"
	"tableflip.dev/propertease/pkg/record"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerLastMonthTool(srv, svc)
	registerMonthGridTool(srv, svc)
	registerLoadMonthTool(srv, svc)
	registerGetDayTool(srv, svc)
	registerUpdateDayTool(srv, svc)
	registerGeneratePromptTool(srv, svc)
	registerComposePromptTool(srv, svc)
	registerAutoScheduleTool(srv, svc)
}

func categoryNames() []string {
	out := make([]string, 0, 8)
	for _, c := range record.AllCategories() {
		out = append(out, string(c))
	}
	return out
}

func statusNames() []string {
	out := make([]string, 0, 3)
	for _, s := range record.AllStatuses() {
		out = append(out, string(s))
	}
	return out
}

func registerLastMonthTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"last_month",
		mcp.WithDescription("Return the month (YYYY-MM) the user last saved, or the current month."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		month, err := svc.LastMonth(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]string{"month": month})
	})
}

func registerMonthGridTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"month_grid",
		mcp.WithDescription("Return the 42-cell Sunday-first calendar grid of a month with each day's category and status."),
		mcp.WithString("month",
			mcp.Description("Month as YYYY-MM. Defaults to the last opened month."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		month, cells, err := svc.MonthGrid(ctx, request.GetString("month", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"month": month,
			"cells": cells,
		})
	})
}

func registerLoadMonthTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"load_month",
		mcp.WithDescription("List the planned days of a month with their ideas, prompts, categories and statuses."),
		mcp.WithString("month",
			mcp.Description("Month as YYYY-MM. Defaults to the last opened month."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.LoadMonth(ctx, request.GetString("month", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerGetDayTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_day",
		mcp.WithDescription("Fetch a single day's record."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day as YYYY-MM-DD."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := request.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.GetDay(ctx, date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUpdateDayTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_day",
		mcp.WithDescription("Create or edit a day. Only the provided fields change; the month is saved afterwards."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day as YYYY-MM-DD."),
		),
		mcp.WithString("idea",
			mcp.Description("Free text idea for the post."),
		),
		mcp.WithString("prompt",
			mcp.Description("Replacement prompt text."),
		),
		mcp.WithString("title",
			mcp.Description("Explicit display title. Empty falls back to the idea's first line."),
		),
		mcp.WithString("category",
			mcp.Description("Content category."),
			mcp.Enum(categoryNames()...),
		),
		mcp.WithString("status",
			mcp.Description("Publishing status."),
			mcp.Enum(statusNames()...),
		),
		mcp.WithBoolean("generate",
			mcp.Description("Recompose the prompt from the resulting idea and category."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Date     string  `json:"date"`
			Idea     *string `json:"idea"`
			Prompt   *string `json:"prompt"`
			Title    *string `json:"title"`
			Category *string `json:"category"`
			Status   *string `json:"status"`
			Generate bool    `json:"generate"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.UpdateDay(ctx, UpdateDayOptions{
			Date:     args.Date,
			Idea:     args.Idea,
			Prompt:   args.Prompt,
			Title:    args.Title,
			Category: args.Category,
			Status:   args.Status,
			Generate: args.Generate,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerGeneratePromptTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"generate_prompt",
		mcp.WithDescription("Compose and store the image prompt for a day from its idea and category."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day as YYYY-MM-DD."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := request.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.GeneratePrompt(ctx, date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerComposePromptTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"compose_prompt",
		mcp.WithDescription("Render an image prompt for an idea without saving it."),
		mcp.WithString("idea",
			mcp.Description("Idea text; omitted ideas produce the bare template."),
		),
		mcp.WithString("category",
			mcp.Description("Content category. Defaults to the configured category."),
			mcp.Enum(categoryNames()...),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := svc.ComposePrompt(request.GetString("idea", ""), request.GetString("category", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	})
}

func registerAutoScheduleTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"auto_schedule",
		mcp.WithDescription(fmt.Sprintf(
			"Fill a month and the following month with weekday-based ideas and prompts (%s style unless configured otherwise).",
			prompt.DefaultStylePack)),
		mcp.WithString("month",
			mcp.Description("First month as YYYY-MM. Defaults to the last opened month."),
		),
		mcp.WithBoolean("overwrite",
			mcp.Description("Replace days that already have content instead of filling only empty days."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := svc.AutoSchedule(ctx, request.GetString("month", ""), request.GetBool("overwrite", false))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(result)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
