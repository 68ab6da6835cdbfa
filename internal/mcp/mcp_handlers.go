package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/core/detail"
	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/core/filter"
	"github.com/huangsam/gitpulse/core/view"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/outwriter"
	"github.com/huangsam/gitpulse/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	sess    *core.Session
	store   contract.StateStore
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// persist saves the session when the server was started with persistence on.
func (h *toolHandler) persist() {
	if h.store == nil || !h.baseCfg.Persist {
		return
	}
	if err := core.SaveSession(h.store, h.sess); err != nil {
		contract.LogWarn("failed to persist session state", err)
	}
}

// dashboard builds the dashboard at the requested level without switching the session.
func (h *toolHandler) dashboard(request mcp.CallToolRequest) (schema.Dashboard, error) {
	if level := request.GetString("level", ""); level != "" {
		return h.sess.DashboardAt(level)
	}
	return h.sess.Dashboard()
}

func (h *toolHandler) handleGetDashboard(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := h.dashboard(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dashboard failed: %v", err)), nil
	}
	return jsonResult(d)
}

func (h *toolHandler) handleGetTimeline(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := h.dashboard(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("timeline failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"view":        d.Level,
		"filter_info": d.FilterInfo,
		"buckets":     d.Timeline,
	})
}

func (h *toolHandler) handleGetHeatmap(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := h.dashboard(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("heatmap failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"view":        d.Level,
		"filter_info": d.FilterInfo,
		"heatmap":     d.Heatmap,
		"grid":        d.Grid,
	})
}

func (h *toolHandler) handleGetDetail(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := detail.ParseSelector(request.GetString("selector", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid selector: %v", err)), nil
	}
	if m := request.GetString("mode", ""); m != "" {
		sel.Mode = schema.ContributorMode(m)
	}
	limit := request.GetInt("limit", h.baseCfg.Limit)
	if limit > contract.MaxResultLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be at most %d", contract.MaxResultLimit)), nil
	}

	page, err := h.sess.Detail(sel, request.GetInt("offset", 0), limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("detail failed: %v", err)), nil
	}
	page.Commits = outwriter.DisplayCommits(page.Commits, field.NewSanitizer(h.sess.Settings().PrivacyMode))
	return jsonResult(page)
}

func (h *toolHandler) handleListLevels(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	levels := make([]schema.ViewConfig, 0, len(view.Levels()))
	for _, l := range view.Levels() {
		levels = append(levels, view.Resolve(string(l)))
	}
	return jsonResult(map[string]any{
		"current": h.sess.View().Level,
		"levels":  levels,
	})
}

func (h *toolHandler) handleSetLevel(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("level", "")
	if name == "" {
		return mcp.NewToolResultError("level is required"), nil
	}
	cfg := h.sess.SetLevel(name)
	h.persist()
	return jsonResult(cfg)
}

// filterResult reports the session filter after a change.
func (h *toolHandler) filterResult() (*mcp.CallToolResult, error) {
	spec := h.sess.Filter()
	return jsonResult(map[string]any{
		"filter":      spec,
		"filter_info": filter.Describe(spec),
	})
}

func (h *toolHandler) handleGetFilter(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.filterResult()
}

func (h *toolHandler) handleSetFilter(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetString("filter", "")
	if strings.TrimSpace(raw) == "" {
		return mcp.NewToolResultError("filter is required"), nil
	}
	var spec schema.FilterSpec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filter JSON: %v", err)), nil
	}
	if err := h.sess.SetFilter(spec); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	h.persist()
	return h.filterResult()
}

func (h *toolHandler) handleToggleFilter(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dim := schema.Dimension(request.GetString("dimension", ""))
	spec := h.sess.Filter()
	var err error
	if v := request.GetString("value", ""); v != "" {
		if spec, err = filter.Toggle(spec, dim, v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if m := request.GetString("mode", ""); m != "" {
		if spec, err = filter.SetMode(spec, dim, schema.FilterMode(m)); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if err := h.sess.SetFilter(spec); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	h.persist()
	return h.filterResult()
}

func (h *toolHandler) handleResetFilter(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.sess.SetFilter(filter.Reset()); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	h.persist()
	return h.filterResult()
}

func (h *toolHandler) handleLoadData(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var paths []string
	for p := range strings.SplitSeq(request.GetString("paths", ""), ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return mcp.NewToolResultError("paths is required"), nil
	}
	if err := h.sess.Load(paths...); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	ds := h.sess.Dataset()
	return jsonResult(map[string]any{
		"files":    paths,
		"commits":  len(ds.Commits),
		"metadata": ds.Metadata,
	})
}
