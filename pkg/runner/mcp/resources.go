package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const uriScheme = "propertease://"

func registerResources(srv *server.MCPServer, svc *Service) {
	registerMonthsResource(srv, svc)
	registerMonthTemplate(srv, svc)
}

func registerMonthsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		uriScheme+"months",
		"Months",
		mcp.WithResourceDescription("Stored months with day counts per status."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		months, err := svc.ListMonths(ctx)
		if err != nil {
			return nil, err
		}
		last, err := svc.LastMonth(ctx)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"months":    months,
			"count":     len(months),
			"lastMonth": last,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerMonthTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		uriScheme+"months/{month}",
		"Month Days",
		mcp.WithTemplateDescription("Planned days of a month (YYYY-MM)."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		month := templateArg(request.Params.Arguments["month"])
		if month == "" {
			return nil, fmt.Errorf("month is required")
		}
		dto, err := svc.LoadMonth(ctx, month)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

// templateArg unwraps a URI template variable, which the server may pass as
// a string or a single element slice.
func templateArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
