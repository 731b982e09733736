package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/repflow/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	logs, err := h.ds.QueryExerciseLogs(ctx, uid, start, end)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(logs)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) planCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	plans, err := h.ds.QueryPlans(ctx, uid)
	if err != nil {
		return nil, err
	}

	type planWithItems struct {
		Plan  models.PlanRow       `json:"plan"`
		Items []models.PlanItemRow `json:"items"`
	}

	catalog := make([]planWithItems, 0, len(plans))
	for _, p := range plans {
		_, items, err := h.ds.GetPlan(ctx, p.ID)
		if err != nil {
			h.log.Warn("plan_catalog: items lookup failed", "plan", p.ID, "error", err)
			items = nil
		}
		catalog = append(catalog, planWithItems{Plan: p, Items: items})
	}

	data, err := json.Marshal(catalog)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
