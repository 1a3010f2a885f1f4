package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tieubaoca/dreamer-be/types"
)

// QueryHandler serves the five read tools.
type QueryHandler struct {
	query QueryEngine
}

func NewQueryHandler(query QueryEngine) *QueryHandler {
	return &QueryHandler{query: query}
}

// SearchByNamespaceTool returns the search_by_namespace definition.
func (h *QueryHandler) SearchByNamespaceTool() mcp.Tool {
	return mcp.NewTool("search_by_namespace",
		mcp.WithDescription(
			"Search the knowledge graph within a specific namespace. Returns matching triplets and notes "+
				"filtered by namespace, newest first. Use for direct questions about one project's team, "+
				"architecture, credentials, or notes.",
		),
		mcp.WithString("namespace",
			mcp.Required(),
			mcp.Description("Project namespace (e.g. 'Project_Alpha', 'Project_Beta')"),
		),
	)
}

func (h *QueryHandler) HandleSearchByNamespace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	namespace := req.GetString("namespace", "")
	if namespace == "" {
		return mcp.NewToolResultError("'namespace' is required"), nil
	}

	docs, err := h.query.SearchByNamespace(ctx, namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText(noMemoryFor(namespace)), nil
	}
	return mcp.NewToolResultText(formatDocuments(docs)), nil
}

// FindEntityRelationsTool returns the find_entity_relations definition.
func (h *QueryHandler) FindEntityRelationsTool() mcp.Tool {
	return mcp.NewTool("find_entity_relations",
		mcp.WithDescription(
			"Find all relationships for a specific entity in the knowledge graph. Works like graph "+
				"traversal: given an entity name (person, project, service), returns all connected entities "+
				"and their relationship types. Results span namespaces; every line cites its namespace.",
		),
		mcp.WithString("entity",
			mcp.Required(),
			mcp.Description("Entity name to look up (e.g. 'Alice Chen', 'Jenkins', 'Project_Alpha')"),
		),
	)
}

func (h *QueryHandler) HandleFindEntityRelations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entity := req.GetString("entity", "")
	if entity == "" {
		return mcp.NewToolResultError("'entity' is required"), nil
	}

	docs, err := h.query.FindEntityRelations(ctx, entity)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("traversal failed: %v", err)), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No relations found for entity: %s.", entity)), nil
	}
	return mcp.NewToolResultText(formatDocuments(docs)), nil
}

// ListNamespacesTool returns the list_namespaces definition.
func (h *QueryHandler) ListNamespacesTool() mcp.Tool {
	return mcp.NewTool("list_namespaces",
		mcp.WithDescription(
			"List all available namespaces (project contexts) and their document counts. "+
				"Use to discover which projects exist in the knowledge graph.",
		),
	)
}

func (h *QueryHandler) HandleListNamespaces(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	namespaces, err := h.query.ListNamespaces(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing namespaces failed: %v", err)), nil
	}
	if len(namespaces) == 0 {
		return mcp.NewToolResultText("The knowledge graph is empty."), nil
	}

	var b strings.Builder
	for _, ns := range namespaces {
		fmt.Fprintf(&b, "%s: %d document(s)\n", ns.Namespace, ns.Count)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// CrossReferenceTool returns the cross_reference definition.
func (h *QueryHandler) CrossReferenceTool() mcp.Tool {
	return mcp.NewTool("cross_reference",
		mcp.WithDescription(
			"Find entities that are shared across multiple namespaces. Use ONLY when the user explicitly "+
				"asks to compare projects or find shared resources — this is the one sanctioned "+
				"cross-namespace read.",
		),
	)
}

func (h *QueryHandler) HandleCrossReference(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := h.query.CrossReference(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cross-reference failed: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No entities are shared across namespaces."), nil
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s — %d namespaces: %s\n", e.Tail, e.NamespaceCount, strings.Join(e.Namespaces, ", "))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// SearchSemanticTool returns the search_semantic definition.
func (h *QueryHandler) SearchSemanticTool() mcp.Tool {
	return mcp.NewTool("search_semantic",
		mcp.WithDescription(
			"Semantic vector search within a single namespace. Use for conceptual or fuzzy queries where "+
				"exact keywords may not match. The namespace is enforced as a hard filter on the vector "+
				"search itself.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("User question or concept to search for"),
		),
		mcp.WithString("namespace",
			mcp.Required(),
			mcp.Description("The active project namespace (e.g. 'Project_Alpha')"),
		),
	)
}

func (h *QueryHandler) HandleSearchSemantic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	namespace := req.GetString("namespace", "")
	if query == "" || namespace == "" {
		return mcp.NewToolResultError("'query' and 'namespace' are required"), nil
	}

	docs, err := h.query.SearchSemantic(ctx, query, namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("semantic search failed: %v", err)), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText(noMemoryFor(namespace)), nil
	}

	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.Content)
	}
	return mcp.NewToolResultText(strings.Join(contents, "\n")), nil
}

func noMemoryFor(namespace string) string {
	return fmt.Sprintf("No memory found for context: %s.", namespace)
}

// formatDocuments renders documents as graph lines, one per document, each
// citing its namespace.
func formatDocuments(docs []types.KnowledgeDocument) string {
	var b strings.Builder
	for _, doc := range docs {
		if doc.DocType == types.DocTypeNote {
			fmt.Fprintf(&b, "[%s] note on %s: %s\n", doc.Namespace, doc.Head, doc.Content)
			continue
		}
		fmt.Fprintf(&b, "[%s] %s %s %s\n", doc.Namespace, doc.Head, doc.Relation, doc.Tail)
	}
	return b.String()
}
