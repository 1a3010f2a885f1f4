package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tieubaoca/dreamer-be/types"
)

// WorkflowHandler serves the two write tools.
type WorkflowHandler struct {
	workflow WorkflowEngine
}

func NewWorkflowHandler(workflow WorkflowEngine) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow}
}

// IngestMemoryTool returns the ingest_memory definition.
func (h *WorkflowHandler) IngestMemoryTool() mcp.Tool {
	return mcp.NewTool("ingest_memory",
		mcp.WithDescription(
			"Write a new knowledge triplet to the graph so the agent can learn new information from "+
				"conversations. The document starts raw and becomes searchable after the next dream cycle.",
		),
		mcp.WithString("head",
			mcp.Required(),
			mcp.Description("Subject entity (for notes: the topic)"),
		),
		mcp.WithString("relation",
			mcp.Required(),
			mcp.Description("Relationship type, e.g. 'LEADS', 'DEPENDS_ON'"),
		),
		mcp.WithString("tail",
			mcp.Required(),
			mcp.Description("Object entity (for notes: the note text)"),
		),
		mcp.WithString("namespace",
			mcp.Required(),
			mcp.Description("Namespace the fact belongs to"),
		),
		mcp.WithString("doc_type",
			mcp.Description("'triplet' (default) or 'note'"),
		),
	)
}

func (h *WorkflowHandler) HandleIngestMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	memReq := types.IngestMemoryRequest{
		Head:      req.GetString("head", ""),
		Relation:  req.GetString("relation", ""),
		Tail:      req.GetString("tail", ""),
		Namespace: req.GetString("namespace", ""),
		DocType:   req.GetString("doc_type", ""),
	}

	ref, err := h.workflow.IngestMemory(ctx, memReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingest failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Stored in namespace %s (id %s). It becomes searchable after the next dream cycle.",
		ref.Namespace, ref.ID,
	)), nil
}

// LogIncidentTool returns the log_incident definition.
func (h *WorkflowHandler) LogIncidentTool() mcp.Tool {
	return mcp.NewTool("log_incident",
		mcp.WithDescription(
			"Log a security or operational incident. Creates a structured incident record in the affected "+
				"project's namespace and reports shared infrastructure that may also be impacted.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short incident title"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("What happened"),
		),
		mcp.WithString("severity",
			mcp.Description("Severity, e.g. 'critical', 'high', 'medium', 'low'"),
		),
		mcp.WithString("affected_project",
			mcp.Required(),
			mcp.Description("Namespace of the affected project"),
		),
	)
}

func (h *WorkflowHandler) HandleLogIncident(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	incReq := types.LogIncidentRequest{
		Title:           req.GetString("title", ""),
		Description:     req.GetString("description", ""),
		Severity:        req.GetString("severity", ""),
		AffectedProject: req.GetString("affected_project", ""),
	}

	report, err := h.workflow.LogIncident(ctx, incReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("incident logging failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Incident logged in namespace %s (id %s).\n", report.Ref.Namespace, report.Ref.ID)
	if len(report.SharedImpact) == 0 {
		b.WriteString("No shared infrastructure dependencies found for this project.")
	} else {
		b.WriteString("Shared infrastructure that may be impacted:\n")
		for _, rel := range report.SharedImpact {
			fmt.Fprintf(&b, "[%s] %s %s %s\n", rel.Namespace, rel.Head, rel.Relation, rel.Tail)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}
